package handler

import (
	"time"

	"github.com/carepoint/clinic-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Request / Response types ---

type signupRequest struct {
	Username  string `json:"username"   validate:"required,min=3,max=50"`
	Password  string `json:"password"   validate:"required,min=6,max=72"`
	Email     string `json:"email"      validate:"required,email,max=100"`
	FirstName string `json:"first_name" validate:"max=50"`
	LastName  string `json:"last_name"  validate:"max=50"`
	Phone     string `json:"phone"      validate:"max=20"`
}

type provisionRequest struct {
	signupRequest
	Roles []string `json:"roles" validate:"required,min=1,dive,required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
}

type identityResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

func toIdentityResponse(i *domain.Identity) identityResponse {
	return identityResponse{
		ID:        i.ID,
		Username:  i.Username,
		Email:     i.Email,
		FirstName: i.FirstName,
		LastName:  i.LastName,
		Phone:     i.Phone,
		Roles:     i.Roles.Strings(),
		CreatedAt: i.CreatedAt,
	}
}
