package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/petcarehub/petcare-api/internal/logger"
	"github.com/petcarehub/petcare-api/internal/models"
	"github.com/petcarehub/petcare-api/internal/services"
)

// ListingFinder defines the interface that the listing service must implement.
type ListingFinder interface {
	FindByTag(ctx context.Context, tagID string) (*models.Listing, error)
}

// FindListingErrorResponse represents an error response for the find endpoint
// swagger:model FindListingErrorResponse
type FindListingErrorResponse struct {
	// Error message
	// example: Not found
	Message string `json:"message"`
}

// NewFindListingHandler returns an HTTP handler resolving the newest listing
// for a tag id. Tag ids are not unique; older listings with the same tag are
// not returned.
// @Summary Find a listing by tag id
// @Description Returns the single newest listing whose tag id exactly matches.
// @Tags lost-pets
// @Produce json
// @Param tagId path string true "Tag id"
// @Success 200 {object} models.Listing
// @Failure 404 {object} handlers.FindListingErrorResponse "No listing with this tag id"
// @Router /lost-pets/{tagId} [get]
func NewFindListingHandler(svc ListingFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID := chi.URLParam(r, "tagId")

		listing, err := svc.FindByTag(r.Context(), tagID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrListingNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(FindListingErrorResponse{
					Message: "Not found",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(FindListingErrorResponse{
					Message: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(listing)
	}
}
