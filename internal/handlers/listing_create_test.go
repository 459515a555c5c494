package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/petcarehub/petcare-api/internal/models"
	"github.com/petcarehub/petcare-api/internal/services"
	"github.com/stretchr/testify/assert"
)

// multipartRequest builds a POST /lost-pets request from form fields and
// named image payloads.
func multipartRequest(t *testing.T, fields map[string]string, images map[string][]byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		assert.NoError(t, w.WriteField(k, v))
	}
	for name, content := range images {
		part, err := w.CreateFormFile("Images", name)
		assert.NoError(t, err)
		_, err = part.Write(content)
		assert.NoError(t, err)
	}
	assert.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/lost-pets", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestCreateListingHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("pascal-case fields and two images", func(t *testing.T) {
		mockSvc := NewMockListingCreator(ctrl)
		handler := NewCreateListingHandler(mockSvc)

		mockSvc.EXPECT().
			Create(gomock.Any(), services.CreateListingInput{
				PostType:    "Lost",
				TagID:       "TAG-1",
				AgeMonths:   24,
				LastSeen:    "Main street",
				PetType:     "Dog",
				Description: "Brown labrador",
			}, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ services.CreateListingInput, files []*multipart.FileHeader) (*models.Listing, error) {
				assert.Len(t, files, 2)
				assert.Equal(t, "a.jpg", files[0].Filename)
				assert.Equal(t, "b.jpg", files[1].Filename)
				return &models.Listing{
					ID:        1,
					PostType:  "Lost",
					TagID:     "TAG-1",
					ImageURLs: []string{"/uploads/lostpets/a.jpg", "/uploads/lostpets/b.jpg"},
				}, nil
			})

		req := multipartRequest(t, map[string]string{
			"PostType":    "Lost",
			"TagId":       "TAG-1",
			"AgeMonths":   "24",
			"LastSeen":    "Main street",
			"PetType":     "Dog",
			"Description": "Brown labrador",
		}, map[string][]byte{
			"a.jpg": []byte("jpeg-a"),
			"b.jpg": []byte("jpeg-b"),
		})

		rr := httptest.NewRecorder()
		handler(rr, req)

		assert.Equal(t, 200, rr.Code)

		var body map[string]any
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "TAG-1", body["tagId"])
		assert.Len(t, body["imageUrls"], 2)
	})

	t.Run("camel-case fields without images", func(t *testing.T) {
		mockSvc := NewMockListingCreator(ctrl)
		handler := NewCreateListingHandler(mockSvc)

		mockSvc.EXPECT().
			Create(gomock.Any(), services.CreateListingInput{
				PostType:    "Found",
				TagID:       "TAG-2",
				LastSeen:    "River park",
				PetType:     "Cat",
				Description: "Grey tabby",
			}, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ services.CreateListingInput, files []*multipart.FileHeader) (*models.Listing, error) {
				assert.Empty(t, files)
				return &models.Listing{ID: 2, TagID: "TAG-2", ImageURLs: []string{}}, nil
			})

		req := multipartRequest(t, map[string]string{
			"postType":    "Found",
			"tagId":       "TAG-2",
			"lastSeen":    "River park",
			"petType":     "Cat",
			"description": "Grey tabby",
		}, nil)

		rr := httptest.NewRecorder()
		handler(rr, req)

		assert.Equal(t, 200, rr.Code)

		var body map[string]any
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, []any{}, body["imageUrls"])
	})

	t.Run("validation errors are returned per field", func(t *testing.T) {
		mockSvc := NewMockListingCreator(ctrl)
		handler := NewCreateListingHandler(mockSvc)

		mockSvc.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, &services.ValidationError{Fields: map[string]string{
				"ageMonths": "ageMonths must be at most 600.",
			}})

		req := multipartRequest(t, map[string]string{
			"PostType":    "Lost",
			"TagId":       "TAG-1",
			"AgeMonths":   "700",
			"LastSeen":    "Main street",
			"PetType":     "Dog",
			"Description": "Brown labrador",
		}, nil)

		rr := httptest.NewRecorder()
		handler(rr, req)

		assert.Equal(t, 400, rr.Code)

		var body map[string]any
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "Validation failed", body["message"])
		errs := body["errors"].(map[string]any)
		assert.Contains(t, errs, "ageMonths")
	})

	t.Run("non-numeric age is rejected before the service runs", func(t *testing.T) {
		mockSvc := NewMockListingCreator(ctrl)
		handler := NewCreateListingHandler(mockSvc)

		req := multipartRequest(t, map[string]string{
			"PostType":  "Lost",
			"AgeMonths": "two years",
		}, nil)

		rr := httptest.NewRecorder()
		handler(rr, req)

		assert.Equal(t, 400, rr.Code)

		var body map[string]any
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		errs := body["errors"].(map[string]any)
		assert.Equal(t, "ageMonths must be a number.", errs["ageMonths"])
	})

	t.Run("non-multipart body is rejected", func(t *testing.T) {
		mockSvc := NewMockListingCreator(ctrl)
		handler := NewCreateListingHandler(mockSvc)

		req := httptest.NewRequest(http.MethodPost, "/lost-pets", bytes.NewBufferString("not a form"))
		rr := httptest.NewRecorder()
		handler(rr, req)

		assert.Equal(t, 400, rr.Code)

		var body map[string]any
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "Invalid multipart payload.", body["message"])
	})
}
