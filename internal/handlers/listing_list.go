package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/petcarehub/petcare-api/internal/logger"
	"github.com/petcarehub/petcare-api/internal/models"
)

// ListingLister defines the interface that the listing service must implement.
type ListingLister interface {
	List(ctx context.Context) ([]models.Listing, error)
}

// ListListingsErrorResponse represents an error response for the list endpoint
// swagger:model ListListingsErrorResponse
type ListListingsErrorResponse struct {
	// Error message
	// example: Internal server error
	Message string `json:"message"`
}

// NewListListingsHandler returns an HTTP handler listing every lost-pet
// listing, newest first.
// @Summary List lost-pet listings
// @Description Returns every listing with its image URLs, newest created first.
// @Tags lost-pets
// @Produce json
// @Success 200 {array} models.Listing
// @Router /lost-pets [get]
func NewListListingsHandler(svc ListingLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listings, err := svc.List(r.Context())
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ListListingsErrorResponse{
				Message: "Internal server error",
			})
			return
		}

		if listings == nil {
			listings = []models.Listing{}
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(listings)
	}
}
