package models

import "github.com/golang-jwt/jwt/v4"

// AdminLoginRequest defines the request body for username/password login
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// AdminClaims are custom claims extending standard jwt.RegisteredClaims
type AdminClaims struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}
