package services_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/petcarehub/petcare-api/internal/models"
	"github.com/petcarehub/petcare-api/internal/services"
	"github.com/stretchr/testify/assert"
)

// buildFileHeaders turns named payloads into real multipart file headers.
func buildFileHeaders(t *testing.T, files []struct {
	name    string
	content []byte
}) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := w.CreateFormFile("Images", f.name)
		assert.NoError(t, err)
		_, err = part.Write(f.content)
		assert.NoError(t, err)
	}
	assert.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	assert.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["Images"]
}

func validInput() services.CreateListingInput {
	return services.CreateListingInput{
		PostType:    "Lost",
		TagID:       "TAG-123",
		AgeMonths:   24,
		LastSeen:    "Near the central park fountain",
		PetType:     "Dog",
		Description: "Brown labrador, red collar",
	}
}

func TestListingService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("two images yield two stored urls", func(t *testing.T) {
		mockWriter := services.NewMockLostPetWriter(ctrl)
		mockCache := services.NewMockListingCache(ctrl)
		mockImages := services.NewMockImageSaver(ctrl)
		mockKafka := services.NewMockKafkaWriter(ctrl)

		svc := services.NewListingService(mockWriter, nil, mockCache, mockImages, mockKafka)

		files := buildFileHeaders(t, []struct {
			name    string
			content []byte
		}{
			{"first.jpg", []byte("jpeg-bytes")},
			{"second.png", []byte("png-bytes")},
		})

		gomock.InOrder(
			mockImages.EXPECT().SaveLostPetImage(gomock.Any()).Return("/uploads/lostpets/a.jpg", nil),
			mockImages.EXPECT().SaveLostPetImage(gomock.Any()).Return("/uploads/lostpets/b.png", nil),
		)
		mockWriter.EXPECT().
			Save(gomock.Any(), gomock.Any(), []string{"/uploads/lostpets/a.jpg", "/uploads/lostpets/b.png"}).
			DoAndReturn(func(_ context.Context, post *models.LostPetPostDB, _ []string) error {
				post.ID = 42
				post.CreatedAt = time.Now()
				return nil
			})
		mockCache.EXPECT().DeleteByTagID(gomock.Any(), "TAG-123").Return(nil)
		mockKafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)

		listing, err := svc.Create(context.Background(), validInput(), files)
		assert.NoError(t, err)
		assert.Equal(t, int64(42), listing.ID)
		assert.Equal(t, []string{"/uploads/lostpets/a.jpg", "/uploads/lostpets/b.png"}, listing.ImageURLs)
	})

	t.Run("zero-length attachments are skipped, not rejected", func(t *testing.T) {
		mockWriter := services.NewMockLostPetWriter(ctrl)
		mockImages := services.NewMockImageSaver(ctrl)

		svc := services.NewListingService(mockWriter, nil, nil, mockImages, nil)

		files := buildFileHeaders(t, []struct {
			name    string
			content []byte
		}{
			{"empty.jpg", nil},
			{"real.jpg", []byte("jpeg-bytes")},
		})

		mockImages.EXPECT().SaveLostPetImage(gomock.Any()).Return("/uploads/lostpets/real.jpg", nil)
		mockWriter.EXPECT().
			Save(gomock.Any(), gomock.Any(), []string{"/uploads/lostpets/real.jpg"}).
			Return(nil)

		listing, err := svc.Create(context.Background(), validInput(), files)
		assert.NoError(t, err)
		assert.Equal(t, []string{"/uploads/lostpets/real.jpg"}, listing.ImageURLs)
	})

	t.Run("no images still succeeds with an empty url list", func(t *testing.T) {
		mockWriter := services.NewMockLostPetWriter(ctrl)

		svc := services.NewListingService(mockWriter, nil, nil, nil, nil)

		mockWriter.EXPECT().
			Save(gomock.Any(), gomock.Any(), []string{}).
			Return(nil)

		listing, err := svc.Create(context.Background(), validInput(), nil)
		assert.NoError(t, err)
		assert.NotNil(t, listing.ImageURLs)
		assert.Empty(t, listing.ImageURLs)
	})

	t.Run("blank optional fields are stored as absent", func(t *testing.T) {
		mockWriter := services.NewMockLostPetWriter(ctrl)

		svc := services.NewListingService(mockWriter, nil, nil, nil, nil)

		in := validInput()
		in.Reward = "   "
		in.City = "Springfield"

		mockWriter.EXPECT().
			Save(gomock.Any(), gomock.Any(), []string{}).
			DoAndReturn(func(_ context.Context, post *models.LostPetPostDB, _ []string) error {
				assert.Nil(t, post.Reward)
				assert.NotNil(t, post.City)
				assert.Equal(t, "Springfield", *post.City)
				return nil
			})

		listing, err := svc.Create(context.Background(), in, nil)
		assert.NoError(t, err)
		assert.Nil(t, listing.Reward)
	})

	t.Run("out-of-bound age is rejected before any side effect", func(t *testing.T) {
		// No expectations: neither the image saver nor the writer may be touched.
		svc := services.NewListingService(
			services.NewMockLostPetWriter(ctrl), nil, nil, services.NewMockImageSaver(ctrl), nil,
		)

		in := validInput()
		in.AgeMonths = 700

		files := buildFileHeaders(t, []struct {
			name    string
			content []byte
		}{
			{"photo.jpg", []byte("jpeg-bytes")},
		})

		listing, err := svc.Create(context.Background(), in, files)
		assert.Nil(t, listing)

		var verr *services.ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "ageMonths")
	})

	t.Run("missing required fields are reported per field", func(t *testing.T) {
		svc := services.NewListingService(services.NewMockLostPetWriter(ctrl), nil, nil, nil, nil)

		listing, err := svc.Create(context.Background(), services.CreateListingInput{}, nil)
		assert.Nil(t, listing)

		var verr *services.ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "postType")
		assert.Contains(t, verr.Fields, "tagId")
		assert.Contains(t, verr.Fields, "lastSeen")
		assert.Contains(t, verr.Fields, "petType")
		assert.Contains(t, verr.Fields, "description")
	})

	t.Run("save failure propagates after files were stored", func(t *testing.T) {
		mockWriter := services.NewMockLostPetWriter(ctrl)
		mockImages := services.NewMockImageSaver(ctrl)

		svc := services.NewListingService(mockWriter, nil, nil, mockImages, nil)

		files := buildFileHeaders(t, []struct {
			name    string
			content []byte
		}{
			{"photo.jpg", []byte("jpeg-bytes")},
		})

		mockImages.EXPECT().SaveLostPetImage(gomock.Any()).Return("/uploads/lostpets/photo.jpg", nil)
		mockWriter.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("store down"))

		listing, err := svc.Create(context.Background(), validInput(), files)
		assert.Nil(t, listing)
		assert.EqualError(t, err, "store down")
	})
}

func TestListingService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockLostPetReader(ctrl)
	svc := services.NewListingService(nil, mockReader, nil, nil, nil)

	expected := []models.Listing{
		{ID: 2, TagID: "B"},
		{ID: 1, TagID: "A"},
	}
	mockReader.EXPECT().ListAll(gomock.Any()).Return(expected, nil)

	listings, err := svc.List(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, expected, listings)
}

func TestListingService_FindByTag(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("cache hit skips the store", func(t *testing.T) {
		mockReader := services.NewMockLostPetReader(ctrl)
		mockCache := services.NewMockListingCache(ctrl)
		svc := services.NewListingService(nil, mockReader, mockCache, nil, nil)

		cached := &models.Listing{ID: 9, TagID: "TAG-9"}
		mockCache.EXPECT().GetByTagID(gomock.Any(), "TAG-9").Return(cached, nil)

		listing, err := svc.FindByTag(context.Background(), "TAG-9")
		assert.NoError(t, err)
		assert.Equal(t, cached, listing)
	})

	t.Run("cache miss reads the store and fills the cache", func(t *testing.T) {
		mockReader := services.NewMockLostPetReader(ctrl)
		mockCache := services.NewMockListingCache(ctrl)
		svc := services.NewListingService(nil, mockReader, mockCache, nil, nil)

		stored := &models.Listing{ID: 9, TagID: "TAG-9"}
		mockCache.EXPECT().GetByTagID(gomock.Any(), "TAG-9").Return(nil, nil)
		mockReader.EXPECT().GetLatestByTagID(gomock.Any(), "TAG-9").Return(stored, nil)
		mockCache.EXPECT().SetByTagID(gomock.Any(), "TAG-9", stored).Return(nil)

		listing, err := svc.FindByTag(context.Background(), "TAG-9")
		assert.NoError(t, err)
		assert.Equal(t, stored, listing)
	})

	t.Run("no match reports not found", func(t *testing.T) {
		mockReader := services.NewMockLostPetReader(ctrl)
		svc := services.NewListingService(nil, mockReader, nil, nil, nil)

		mockReader.EXPECT().GetLatestByTagID(gomock.Any(), "missing").Return(nil, nil)

		listing, err := svc.FindByTag(context.Background(), "missing")
		assert.Nil(t, listing)
		assert.ErrorIs(t, err, services.ErrListingNotFound)
	})

	t.Run("store error propagates", func(t *testing.T) {
		mockReader := services.NewMockLostPetReader(ctrl)
		svc := services.NewListingService(nil, mockReader, nil, nil, nil)

		mockReader.EXPECT().GetLatestByTagID(gomock.Any(), "TAG-9").Return(nil, errors.New("db error"))

		_, err := svc.FindByTag(context.Background(), "TAG-9")
		assert.EqualError(t, err, "db error")
	})
}
