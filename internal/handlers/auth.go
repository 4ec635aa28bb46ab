package handlers

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/newsline-radio/backend/internal/logging"
	"github.com/anonto42/newsline-radio/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const adminTokenTTL = 72 * time.Hour

// TokenVerifier verifies Firebase ID tokens; *auth.Client implements it
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthConfig holds the admin credentials
type AuthConfig struct {
	Username     string
	Password     string
	PasswordHash string
	AdminEmails  []string
	JWTSecret    []byte
}

// AuthHandler handles admin authentication
type AuthHandler struct {
	username     string
	passwordHash []byte
	adminEmails  map[string]bool
	verifier     TokenVerifier
	jwtSecret    []byte
	now          func() time.Time
}

// NewAuthHandler creates a new AuthHandler. A plain password is hashed once
// here; a configured hash takes precedence. With neither, password login
// is disabled. A nil verifier disables Firebase login.
func NewAuthHandler(cfg AuthConfig, verifier TokenVerifier) (*AuthHandler, error) {
	h := &AuthHandler{
		username:    cfg.Username,
		adminEmails: map[string]bool{},
		verifier:    verifier,
		jwtSecret:   cfg.JWTSecret,
		now:         time.Now,
	}
	switch {
	case cfg.PasswordHash != "":
		h.passwordHash = []byte(cfg.PasswordHash)
	case cfg.Password != "":
		hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		h.passwordHash = hashed
	}
	for _, email := range cfg.AdminEmails {
		h.adminEmails[strings.ToLower(email)] = true
	}
	return h, nil
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/login", h.Login)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// Login checks the admin username and password and returns a JWT
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.AdminLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if h.passwordHash == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(h.passwordHash, []byte(req.Password))
	if !userOK || passErr != nil {
		logging.Warn().Str("username", req.Username).Str("ip", c.RealIP()).Msg("admin login failed")
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	return h.respondWithToken(c, h.username, "")
}

// FirebaseLogin exchanges a Firebase ID token of an allow-listed account for a JWT
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.verifier == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Firebase login is not configured")
	}
	var req models.FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.verifier.VerifyIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
	}
	email, _ := token.Claims["email"].(string)
	email = strings.ToLower(email)
	if email == "" || !h.adminEmails[email] {
		logging.Warn().Str("uid", token.UID).Msg("firebase login for non-admin account")
		return echo.NewHTTPError(http.StatusForbidden, "Account is not an administrator")
	}

	return h.respondWithToken(c, token.UID, email)
}

func (h *AuthHandler) respondWithToken(c echo.Context, username, email string) error {
	token, expiresAt, err := h.generateJWT(username, email)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token, "expiresAt": expiresAt})
}

func (h *AuthHandler) generateJWT(username, email string) (string, time.Time, error) {
	now := h.now()
	expiresAt := now.Add(adminTokenTTL)
	claims := &models.AdminClaims{
		Username: username,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return t, expiresAt, nil
}
