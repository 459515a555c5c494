package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/petcarehub/petcare-api/internal/logger"
	"github.com/petcarehub/petcare-api/internal/uploads"
)

// ImageLister defines the interface that the image store must implement.
type ImageLister interface {
	ListPublicImages(baseURL string) ([]uploads.PublicImage, error)
}

// ListImagesErrorResponse represents an error response for the assets endpoint
// swagger:model ListImagesErrorResponse
type ListImagesErrorResponse struct {
	// Error message
	// example: Internal server error
	Message string `json:"message"`
}

// NewListImagesHandler returns an HTTP handler listing every image under the
// public images root. Returns an empty array when the root is absent.
// @Summary List public images
// @Description Returns name, relative path and absolute URL for each image file under the public images root.
// @Tags assets
// @Produce json
// @Success 200 {array} uploads.PublicImage
// @Router /assets/images [get]
func NewListImagesHandler(store ImageLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		baseURL := fmt.Sprintf("%s://%s", scheme, r.Host)

		images, err := store.ListPublicImages(baseURL)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ListImagesErrorResponse{
				Message: "Internal server error",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(images)
	}
}
