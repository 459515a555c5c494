package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/petcarehub/petcare-api/internal/uploads"
	"github.com/stretchr/testify/assert"
)

func TestListImagesHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("base url is derived from the request host", func(t *testing.T) {
		mockStore := NewMockImageLister(ctrl)
		mockStore.EXPECT().
			ListPublicImages("http://petcare.local").
			Return([]uploads.PublicImage{
				{Name: "logo.png", Path: "images/logo.png", URL: "http://petcare.local/images/logo.png"},
			}, nil)

		handler := NewListImagesHandler(mockStore)
		req := httptest.NewRequest(http.MethodGet, "/assets/images", nil)
		req.Host = "petcare.local"
		rr := httptest.NewRecorder()
		handler(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var images []map[string]any
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &images))
		assert.Len(t, images, 1)
		assert.Equal(t, "http://petcare.local/images/logo.png", images[0]["url"])
	})

	t.Run("empty root yields an empty array", func(t *testing.T) {
		mockStore := NewMockImageLister(ctrl)
		mockStore.EXPECT().
			ListPublicImages(gomock.Any()).
			Return([]uploads.PublicImage{}, nil)

		handler := NewListImagesHandler(mockStore)
		req := httptest.NewRequest(http.MethodGet, "/assets/images", nil)
		rr := httptest.NewRecorder()
		handler(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, "[]", rr.Body.String())
	})

	t.Run("store failure", func(t *testing.T) {
		mockStore := NewMockImageLister(ctrl)
		mockStore.EXPECT().
			ListPublicImages(gomock.Any()).
			Return(nil, errors.New("walk failed"))

		handler := NewListImagesHandler(mockStore)
		req := httptest.NewRequest(http.MethodGet, "/assets/images", nil)
		rr := httptest.NewRecorder()
		handler(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)

		var body map[string]any
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "Internal server error", body["message"])
	})
}
