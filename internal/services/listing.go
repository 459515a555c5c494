package services

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/petcarehub/petcare-api/internal/logger"
	"github.com/petcarehub/petcare-api/internal/models"
	"github.com/segmentio/kafka-go"
)

var (
	// ErrListingNotFound is returned when no listing matches the queried tag id.
	ErrListingNotFound = errors.New("listing not found")
)

// LostPetWriter persists a listing together with its image rows.
type LostPetWriter interface {
	Save(ctx context.Context, post *models.LostPetPostDB, imageURLs []string) error
}

// LostPetReader reads listing projections.
type LostPetReader interface {
	ListAll(ctx context.Context) ([]models.Listing, error)
	GetLatestByTagID(ctx context.Context, tagID string) (*models.Listing, error)
}

// ListingCache caches tag-id lookups.
type ListingCache interface {
	GetByTagID(ctx context.Context, tagID string) (*models.Listing, error)
	SetByTagID(ctx context.Context, tagID string, listing *models.Listing) error
	DeleteByTagID(ctx context.Context, tagID string) error
}

// ImageSaver writes one uploaded image to the public uploads area.
type ImageSaver interface {
	SaveLostPetImage(fh *multipart.FileHeader) (string, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// CreateListingInput carries the form fields of a listing-creation request.
// Bounds mirror the stored columns; optional fields may be blank.
type CreateListingInput struct {
	PostType     string `json:"postType" validate:"required,max=10"`
	TagID        string `json:"tagId" validate:"required,max=50"`
	AgeMonths    int    `json:"ageMonths" validate:"gte=0,lte=600"`
	LastSeen     string `json:"lastSeen" validate:"required,max=120"`
	PetType      string `json:"petType" validate:"required,max=30"`
	PetName      string `json:"petName" validate:"max=60"`
	Gender       string `json:"gender" validate:"max=15"`
	Color        string `json:"color" validate:"max=30"`
	Description  string `json:"description" validate:"required,max=500"`
	City         string `json:"city" validate:"max=40"`
	Area         string `json:"area" validate:"max=40"`
	ContactPhone string `json:"contactPhone" validate:"max=40"`
	Reward       string `json:"reward" validate:"max=40"`
	LostDate     string `json:"lostDate" validate:"max=25"`
}

// trim trims every field in place before validation.
func (in *CreateListingInput) trim() {
	in.PostType = strings.TrimSpace(in.PostType)
	in.TagID = strings.TrimSpace(in.TagID)
	in.LastSeen = strings.TrimSpace(in.LastSeen)
	in.PetType = strings.TrimSpace(in.PetType)
	in.PetName = strings.TrimSpace(in.PetName)
	in.Gender = strings.TrimSpace(in.Gender)
	in.Color = strings.TrimSpace(in.Color)
	in.Description = strings.TrimSpace(in.Description)
	in.City = strings.TrimSpace(in.City)
	in.Area = strings.TrimSpace(in.Area)
	in.ContactPhone = strings.TrimSpace(in.ContactPhone)
	in.Reward = strings.TrimSpace(in.Reward)
	in.LostDate = strings.TrimSpace(in.LostDate)
}

// optional returns nil for blank values so blank optional fields are stored
// as absent, not as empty strings.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ListingService handles listing creation, queries and event publishing.
type ListingService struct {
	writer      LostPetWriter
	reader      LostPetReader
	cache       ListingCache
	images      ImageSaver
	kafkaWriter KafkaWriter
	validate    *validator.Validate
}

// NewListingService creates a new ListingService. cache and kafkaWriter may
// be nil; both are optional.
func NewListingService(
	writer LostPetWriter,
	reader LostPetReader,
	cache ListingCache,
	images ImageSaver,
	kafkaWriter KafkaWriter,
) *ListingService {
	return &ListingService{
		writer:      writer,
		reader:      reader,
		cache:       cache,
		images:      images,
		kafkaWriter: kafkaWriter,
		validate:    newValidator(),
	}
}

// publishListingCreated publishes a listing-created event to Kafka.
func (s *ListingService) publishListingCreated(ctx context.Context, listing *models.Listing) {
	if s.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "listing_id", listing.ID)
		return
	}

	event := models.ListingEvent{
		EventID:    uuid.NewString(),
		Timestamp:  time.Now().Unix(),
		ListingID:  listing.ID,
		TagID:      listing.TagID,
		PostType:   listing.PostType,
		ImageCount: len(listing.ImageURLs),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal listing event for Kafka", "listing_id", listing.ID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.EventID),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish listing event to Kafka", "listing_id", listing.ID, "error", err)
	} else {
		logger.Log.Infow("Listing event published to Kafka", "listing_id", listing.ID, "tag_id", listing.TagID)
	}
}

// Create validates the input, stores the uploaded images sequentially, saves
// the listing plus its image rows in one transaction and returns the full
// projection. Validation failures happen before any persistence or file I/O.
// Zero-length attachments are skipped, not rejected.
func (s *ListingService) Create(
	ctx context.Context, in CreateListingInput, files []*multipart.FileHeader,
) (*models.Listing, error) {
	in.trim()

	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	imageURLs := make([]string, 0, len(files))
	for _, fh := range files {
		if fh.Size == 0 {
			continue
		}
		url, err := s.images.SaveLostPetImage(fh)
		if err != nil {
			logger.Log.Errorw("failed to store uploaded image", "filename", fh.Filename, "error", err)
			return nil, err
		}
		imageURLs = append(imageURLs, url)
	}

	post := &models.LostPetPostDB{
		PostType:     in.PostType,
		TagID:        in.TagID,
		AgeMonths:    in.AgeMonths,
		LastSeen:     in.LastSeen,
		PetType:      in.PetType,
		PetName:      optional(in.PetName),
		Gender:       optional(in.Gender),
		Color:        optional(in.Color),
		Description:  in.Description,
		City:         optional(in.City),
		Area:         optional(in.Area),
		ContactPhone: optional(in.ContactPhone),
		Reward:       optional(in.Reward),
		LostDate:     optional(in.LostDate),
	}

	// Files already on disk stay there if this fails; orphans are never
	// served because no read path consults the disk.
	if err := s.writer.Save(ctx, post, imageURLs); err != nil {
		logger.Log.Errorw("failed to save listing", "tag_id", post.TagID, "error", err)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.DeleteByTagID(ctx, post.TagID); err != nil {
			logger.Log.Warnw("failed to invalidate listing cache", "tag_id", post.TagID, "error", err)
		}
	}

	listing := models.NewListing(post, imageURLs)
	s.publishListingCreated(ctx, listing)

	return listing, nil
}

// List returns every listing, newest first.
func (s *ListingService) List(ctx context.Context) ([]models.Listing, error) {
	listings, err := s.reader.ListAll(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list listings", "error", err)
		return nil, err
	}
	return listings, nil
}

// FindByTag returns the newest listing with an exactly matching tag id.
func (s *ListingService) FindByTag(ctx context.Context, tagID string) (*models.Listing, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetByTagID(ctx, tagID); err == nil && cached != nil {
			return cached, nil
		}
	}

	listing, err := s.reader.GetLatestByTagID(ctx, tagID)
	if err != nil {
		logger.Log.Errorw("failed to find listing", "tag_id", tagID, "error", err)
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}

	if s.cache != nil {
		if err := s.cache.SetByTagID(ctx, tagID, listing); err != nil {
			logger.Log.Warnw("failed to cache listing", "tag_id", tagID, "error", err)
		}
	}

	return listing, nil
}
