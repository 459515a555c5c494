package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/petcarehub/petcare-api/internal/logger"
	"github.com/petcarehub/petcare-api/internal/models"
	"github.com/petcarehub/petcare-api/internal/services"
)

// VetApprover defines the interface that the approval service must implement.
type VetApprover interface {
	ApproveVet(ctx context.Context, id int64) (*models.UserDB, error)
}

// ApproveVetResponse represents the approved vet's public fields
// swagger:model ApproveVetResponse
type ApproveVetResponse struct {
	ID         int64  `json:"id"`
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	IsApproved bool   `json:"isApproved"`
}

// ApproveVetErrorResponse represents an error response for vet approval
// swagger:model ApproveVetErrorResponse
type ApproveVetErrorResponse struct {
	// Error message
	// example: Vet not found.
	Message string `json:"message"`
}

// NewApproveVetHandler returns an HTTP handler approving a veterinarian account.
// Approving an already-approved vet succeeds with no observable change.
// @Summary Approve a veterinarian
// @Description Sets the approval flag on a veterinarian account so it can authenticate.
// @Tags auth
// @Produce json
// @Param id path int true "Account id"
// @Success 200 {object} handlers.ApproveVetResponse "Vet approved"
// @Failure 404 {object} handlers.ApproveVetErrorResponse "Not a known veterinarian"
// @Router /approve-vet/{id} [put]
func NewApproveVetHandler(svc VetApprover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(ApproveVetErrorResponse{
				Message: "Vet not found.",
			})
			return
		}

		vet, err := svc.ApproveVet(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrVetNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ApproveVetErrorResponse{
					Message: "Vet not found.",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ApproveVetErrorResponse{
					Message: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ApproveVetResponse{
			ID:         vet.ID,
			FullName:   vet.FullName,
			Email:      vet.Email,
			Role:       vet.Role,
			IsApproved: vet.IsApproved,
		})
	}
}
