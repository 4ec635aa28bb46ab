package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/newsline-radio/backend/internal/articleurl"
	"github.com/anonto42/newsline-radio/backend/internal/fanout"
	"github.com/anonto42/newsline-radio/backend/internal/logging"
	"github.com/anonto42/newsline-radio/backend/internal/middleware"
	"github.com/anonto42/newsline-radio/backend/internal/models"
	"github.com/anonto42/newsline-radio/backend/internal/repositories"
	"github.com/anonto42/newsline-radio/backend/validators"
	"github.com/labstack/echo/v4"
)

// --- fakes ---

type fakeArticles struct {
	byID map[string]*models.Article
}

func (f *fakeArticles) Publish(context.Context, models.CreateArticleRequest) (*models.Article, error) {
	return nil, errors.New("not used")
}

func (f *fakeArticles) Update(context.Context, string, models.UpdateArticleRequest) (*models.Article, error) {
	return nil, errors.New("not used")
}

func (f *fakeArticles) Delete(context.Context, string) error { return nil }

func (f *fakeArticles) Get(_ context.Context, id string) (*models.Article, error) {
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeArticles) GetBySlug(_ context.Context, slug string) (*models.Article, error) {
	for _, a := range f.byID {
		if a.Slug == slug {
			return a, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeArticles) List(context.Context, int) ([]models.ArticleSummary, error) {
	return nil, nil
}

func (f *fakeArticles) URL(a *models.Article) string {
	if a.HasCanonicalURL() {
		return articleurl.Path(articleurl.DateParts{Year: a.Year, Month: a.Month, Day: a.Day}, a.Slug)
	}
	return articleurl.LegacyPath(a.ID)
}

type fakeRegistry struct {
	created []string
	subs    []models.Subscriber
	err     error
}

func (f *fakeRegistry) Create(_ context.Context, email, token string, typ models.SubscriberType) (string, error) {
	f.created = append(f.created, string(typ)+":"+email+token)
	return "id-1", f.err
}
func (f *fakeRegistry) Delete(context.Context, string) error { return f.err }
func (f *fakeRegistry) All(context.Context) ([]models.Subscriber, error) {
	return f.subs, f.err
}
func (f *fakeRegistry) List(context.Context) ([]models.Subscriber, error) {
	return f.subs, f.err
}
func (f *fakeRegistry) Emails(context.Context) ([]string, error) { return nil, f.err }

type fakeSender struct {
	calls  int
	report *fanout.Report
	err    error
}

func (f *fakeSender) Send(context.Context, []models.Subscriber, string, string) (*fanout.Report, error) {
	f.calls++
	return f.report, f.err
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validators.NewValidator()
	return e
}

// --- feed ---

func newFeedServer() *echo.Echo {
	articles := &fakeArticles{byID: map[string]*models.Article{
		"abc123": {ID: "abc123", Title: "Slugged", Slug: "my-article", PublishedAt: "2024-03-05T10:00:00Z", Year: "2024", Month: "03", Day: "05"},
		"old999": {ID: "old999", Title: "Legacy"},
	}}
	e := newEcho()
	e.Pre(middleware.LegacyArticleRewrite())
	NewFeedHandler(articles).RegisterFeedRoutes(e, e.Group("/api/v1"))
	return e
}

func TestFeed_ArticleRoutes(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		wantStatus   int
		wantLocation string
	}{
		{"legacy with slug redirects", "/article/abc123", http.StatusMovedPermanently, "/article/2024/03/05/my-article"},
		{"legacy without slug served", "/article/old999", http.StatusOK, ""},
		{"legacy missing", "/article/nope", http.StatusNotFound, ""},
		{"canonical served", "/article/2024/03/05/my-article", http.StatusOK, ""},
		{"canonical wrong date redirects", "/article/2023/01/01/my-article", http.StatusMovedPermanently, "/article/2024/03/05/my-article"},
		{"canonical unknown slug", "/article/2024/03/05/nothing", http.StatusNotFound, ""},
	}

	e := newFeedServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if got := rec.Header().Get(echo.HeaderLocation); got != tt.wantLocation {
				t.Errorf("Location = %q, want %q", got, tt.wantLocation)
			}
		})
	}
}

// --- subscribers ---

func TestSubscribe(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantCreated string
	}{
		{"email", `{"email":"fan@example.com","type":"email"}`, http.StatusCreated, "email:fan@example.com"},
		{"push ignores email", `{"email":"fan@example.com","fcmToken":"tok","type":"notification"}`, http.StatusCreated, "notification:tok"},
		{"missing email", `{"type":"email"}`, http.StatusBadRequest, ""},
		{"bad type", `{"email":"fan@example.com","type":"sms"}`, http.StatusBadRequest, ""},
		{"bad json", `{`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &fakeRegistry{}
			e := newEcho()
			NewSubscriberHandler(reg).RegisterPublicRoutes(e.Group("/api/v1"))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/subscribers", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCreated == "" {
				if len(reg.created) != 0 {
					t.Errorf("registry called for rejected request: %v", reg.created)
				}
				return
			}
			if len(reg.created) != 1 || reg.created[0] != tt.wantCreated {
				t.Errorf("created = %v, want %q", reg.created, tt.wantCreated)
			}
		})
	}
}

// --- notifications ---

func postNotification(t *testing.T, sender *fakeSender, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := newEcho()
	reg := &fakeRegistry{subs: []models.Subscriber{{ID: "fcm_t", FCMToken: "t", Type: models.SubscriberTypeNotification}}}
	NewNotificationHandler(reg, sender).RegisterNotificationRoutes(e.Group("/api/v1/admin"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/notifications/send", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSendNotification_Success(t *testing.T) {
	sender := &fakeSender{report: &fanout.Report{JobID: "job", Requested: 5, SuccessCount: 3, FailureCount: 2}}
	rec := postNotification(t, sender, `{"title":"Live","message":"On air now"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}
	var body struct {
		Success      bool   `json:"success"`
		SuccessCount int    `json:"successCount"`
		FailureCount int    `json:"failureCount"`
		Message      string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.SuccessCount != 3 || body.FailureCount != 2 || body.Message != "Sent to 3 devices" {
		t.Errorf("body = %+v", body)
	}
}

func TestSendNotification_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"blank title rejected by validation", `{"title":" ","message":"x"}`, nil, http.StatusBadRequest},
		{"no recipients", `{"title":"a","message":"b"}`, fanout.ErrNoRecipients, http.StatusBadRequest},
		{"gateway down", `{"title":"a","message":"b"}`, errors.Join(fanout.ErrGatewayTransport, errors.New("503")), http.StatusBadGateway},
		{"unexpected", `{"title":"a","message":"b"}`, errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postNotification(t, &fakeSender{err: tt.err}, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestSendNotification_LogsActingAdmin(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "info", Format: "json", Output: &buf})
	t.Cleanup(func() { logging.Init(logging.Config{}) })

	secret := []byte("test")
	ah, err := NewAuthHandler(AuthConfig{JWTSecret: secret}, nil)
	if err != nil {
		t.Fatalf("NewAuthHandler() error = %v", err)
	}
	token, _, err := ah.generateJWT("u1", "editor@example.com")
	if err != nil {
		t.Fatalf("generateJWT() error = %v", err)
	}

	e := newEcho()
	reg := &fakeRegistry{subs: []models.Subscriber{{ID: "fcm_t", FCMToken: "t", Type: models.SubscriberTypeNotification}}}
	sender := &fakeSender{report: &fanout.Report{JobID: "job-7", Requested: 1, SuccessCount: 1}}
	NewNotificationHandler(reg, sender).RegisterNotificationRoutes(e.Group("/api/v1/admin", middleware.JWTAuthMiddleware(secret)))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/notifications/send", strings.NewReader(`{"title":"Live","message":"On air"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}
	out := buf.String()
	if !strings.Contains(out, `"admin":"editor@example.com"`) || !strings.Contains(out, `"job_id":"job-7"`) {
		t.Errorf("log output %q does not name the admin and job", out)
	}
}

func TestActingAdmin(t *testing.T) {
	e := echo.New()
	tests := []struct {
		name   string
		claims *models.AdminClaims
		want   string
	}{
		{"email preferred", &models.AdminClaims{Username: "u1", Email: "editor@example.com"}, "editor@example.com"},
		{"password login", &models.AdminClaims{Username: "admin"}, "admin"},
		{"no claims", nil, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
			if tt.claims != nil {
				c.Set(middleware.AdminContextKey, tt.claims)
			}
			if got := actingAdmin(c); got != tt.want {
				t.Errorf("actingAdmin() = %q, want %q", got, tt.want)
			}
		})
	}
}

// --- auth ---

type fakeVerifier struct {
	token *auth.Token
	err   error
}

func (f *fakeVerifier) VerifyIDToken(context.Context, string) (*auth.Token, error) {
	return f.token, f.err
}

func TestAuth(t *testing.T) {
	verifier := &fakeVerifier{token: &auth.Token{UID: "u1", Claims: map[string]interface{}{"email": "Editor@Example.com"}}}
	h, err := NewAuthHandler(AuthConfig{
		Username:    "admin",
		Password:    "s3cret",
		AdminEmails: []string{"editor@example.com"},
		JWTSecret:   []byte("test"),
	}, verifier)
	if err != nil {
		t.Fatalf("NewAuthHandler() error = %v", err)
	}
	e := newEcho()
	h.RegisterAuthRoutes(e.Group("/api/v1/auth"))

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"password ok", "/login", `{"username":"admin","password":"s3cret"}`, http.StatusOK},
		{"wrong password", "/login", `{"username":"admin","password":"nope"}`, http.StatusUnauthorized},
		{"wrong user", "/login", `{"username":"root","password":"s3cret"}`, http.StatusUnauthorized},
		{"missing fields", "/login", `{}`, http.StatusBadRequest},
		{"firebase admin", "/firebase-login", `{"idToken":"x"}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth"+tt.path, strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
			if tt.want == http.StatusOK && !strings.Contains(rec.Body.String(), `"token"`) {
				t.Errorf("no token in %s", rec.Body.String())
			}
		})
	}

	verifier.token = &auth.Token{UID: "u2", Claims: map[string]interface{}{"email": "someone@example.com"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/firebase-login", strings.NewReader(`{"idToken":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-admin firebase login status = %d, want 403", rec.Code)
	}
}
