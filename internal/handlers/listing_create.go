package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/petcarehub/petcare-api/internal/logger"
	"github.com/petcarehub/petcare-api/internal/models"
	"github.com/petcarehub/petcare-api/internal/services"
)

// maxListingBytes caps a listing-creation request, images included.
const maxListingBytes = 10_000_000

// ListingCreator defines the interface that the listing service must implement.
type ListingCreator interface {
	Create(ctx context.Context, in services.CreateListingInput, files []*multipart.FileHeader) (*models.Listing, error)
}

// CreateListingErrorResponse represents an error response for listing creation
// swagger:model CreateListingErrorResponse
type CreateListingErrorResponse struct {
	// Error message
	// example: Validation failed
	Message string `json:"message"`

	// Per-field validation detail
	Errors map[string]string `json:"errors,omitempty"`
}

// formValue reads a multipart field accepting both PascalCase (reference
// client) and camelCase names.
func formValue(r *http.Request, pascal, camel string) string {
	if v := r.FormValue(pascal); v != "" {
		return v
	}
	return r.FormValue(camel)
}

// NewCreateListingHandler returns an HTTP handler creating a lost-pet listing
// from a multipart form with optional image attachments.
// @Summary Create a lost-pet listing
// @Description Validates the listing fields, stores the uploaded images and persists the listing with its image records in one save.
// @Tags lost-pets
// @Accept mpfd
// @Produce json
// @Success 200 {object} models.Listing "Created listing"
// @Failure 400 {object} handlers.CreateListingErrorResponse "Field-level validation errors"
// @Router /lost-pets [post]
func NewCreateListingHandler(svc ListingCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxListingBytes)

		if err := r.ParseMultipartForm(maxListingBytes); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(CreateListingErrorResponse{
				Message: "Invalid multipart payload.",
			})
			return
		}

		ageMonths := 0
		if raw := formValue(r, "AgeMonths", "ageMonths"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(CreateListingErrorResponse{
					Message: "Validation failed",
					Errors:  map[string]string{"ageMonths": "ageMonths must be a number."},
				})
				return
			}
			ageMonths = parsed
		}

		in := services.CreateListingInput{
			PostType:     formValue(r, "PostType", "postType"),
			TagID:        formValue(r, "TagId", "tagId"),
			AgeMonths:    ageMonths,
			LastSeen:     formValue(r, "LastSeen", "lastSeen"),
			PetType:      formValue(r, "PetType", "petType"),
			PetName:      formValue(r, "PetName", "petName"),
			Gender:       formValue(r, "Gender", "gender"),
			Color:        formValue(r, "Color", "color"),
			Description:  formValue(r, "Description", "description"),
			City:         formValue(r, "City", "city"),
			Area:         formValue(r, "Area", "area"),
			ContactPhone: formValue(r, "ContactPhone", "contactPhone"),
			Reward:       formValue(r, "Reward", "reward"),
			LostDate:     formValue(r, "LostDate", "lostDate"),
		}

		var files []*multipart.FileHeader
		if r.MultipartForm != nil {
			files = r.MultipartForm.File["Images"]
			if len(files) == 0 {
				files = r.MultipartForm.File["images"]
			}
		}

		listing, err := svc.Create(r.Context(), in, files)
		if err != nil {
			var verr *services.ValidationError
			switch {
			case errors.As(err, &verr):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(CreateListingErrorResponse{
					Message: "Validation failed",
					Errors:  verr.Fields,
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(CreateListingErrorResponse{
					Message: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(listing)
	}
}
