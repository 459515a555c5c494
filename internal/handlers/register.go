package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/petcarehub/petcare-api/internal/logger"
	"github.com/petcarehub/petcare-api/internal/models"
	"github.com/petcarehub/petcare-api/internal/services"
)

// Registerer defines the interface that the auth service must implement.
type Registerer interface {
	Register(ctx context.Context, fullName, email, password, role string) (*models.UserDB, error)
}

// RegisterRequest represents the JSON body for account registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Full name
	// required: true
	// example: John Doe
	FullName string `json:"fullName"`

	// Email
	// required: true
	// example: john@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// example: secret123
	Password string `json:"password"`
}

// RegisterResponse represents a successful registration response
// swagger:model RegisterResponse
type RegisterResponse struct {
	ID         int64  `json:"id"`
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	IsApproved bool   `json:"isApproved"`

	// Pending-approval note, only set for vet registrations
	Message string `json:"message,omitempty"`
}

// RegisterErrorResponse represents an error response for registration
// swagger:model RegisterErrorResponse
type RegisterErrorResponse struct {
	// Error message
	// example: Email already exists.
	Message string `json:"message"`

	// Per-field validation detail
	Errors map[string]string `json:"errors,omitempty"`
}

// NewRegisterUserHandler returns an HTTP handler registering ordinary users.
// @Summary Register a new user
// @Description Creates a new user account with a unique email. The account is approved immediately.
// @Tags auth
// @Accept json
// @Produce json
// @Param registerRequest body handlers.RegisterRequest true "User registration request"
// @Success 200 {object} handlers.RegisterResponse "Account created"
// @Failure 400 {object} handlers.RegisterErrorResponse "Invalid payload"
// @Failure 409 {object} handlers.RegisterErrorResponse "Email already exists"
// @Router /register-user [post]
func NewRegisterUserHandler(svc Registerer) http.HandlerFunc {
	return registerHandler(svc, models.RoleUser)
}

// NewRegisterVetHandler returns an HTTP handler registering veterinarians.
// The created account stays unapproved until an admin approves it.
// @Summary Register a new veterinarian
// @Description Creates a veterinarian account pending admin approval.
// @Tags auth
// @Accept json
// @Produce json
// @Param registerRequest body handlers.RegisterRequest true "Vet registration request"
// @Success 200 {object} handlers.RegisterResponse "Account created, pending approval"
// @Failure 400 {object} handlers.RegisterErrorResponse "Invalid payload"
// @Failure 409 {object} handlers.RegisterErrorResponse "Email already exists"
// @Router /register-vet [post]
func NewRegisterVetHandler(svc Registerer) http.HandlerFunc {
	return registerHandler(svc, models.RoleVet)
}

func registerHandler(svc Registerer, role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(RegisterErrorResponse{
				Message: "Invalid payload.",
			})
			return
		}

		user, err := svc.Register(r.Context(), req.FullName, req.Email, req.Password, role)
		if err != nil {
			var verr *services.ValidationError
			switch {
			case errors.As(err, &verr):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(RegisterErrorResponse{
					Message: "Validation failed",
					Errors:  verr.Fields,
				})
			case errors.Is(err, services.ErrEmailAlreadyExists):
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(RegisterErrorResponse{
					Message: "Email already exists.",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(RegisterErrorResponse{
					Message: "Internal server error",
				})
			}
			return
		}

		resp := RegisterResponse{
			ID:         user.ID,
			FullName:   user.FullName,
			Email:      user.Email,
			Role:       user.Role,
			IsApproved: user.IsApproved,
		}
		if role == models.RoleVet {
			resp.Message = "Vet account created and pending admin approval."
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}
}
