package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/petcarehub/petcare-api/internal/logger"
	"github.com/petcarehub/petcare-api/internal/models"
	"github.com/redis/go-redis/v9"
)

// ListingCacheRepository provides cached tag-id lookups using Redis
type ListingCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration duration for cached listings
}

// NewListingCacheRepository creates a new repository instance with optional TTL
func NewListingCacheRepository(client *redis.Client, expiration time.Duration) *ListingCacheRepository {
	return &ListingCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func tagKey(tagID string) string {
	return fmt.Sprintf("lost_pet:tag:%s", tagID)
}

// GetByTagID fetches the cached listing for a tag id, or nil on a cache miss.
func (r *ListingCacheRepository) GetByTagID(ctx context.Context, tagID string) (*models.Listing, error) {
	key := tagKey(tagID)

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		logger.Log.Infow("listing cache get",
			"key", key,
			"error", err,
		)
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var listing models.Listing
	if err := json.Unmarshal([]byte(val), &listing); err != nil {
		logger.Log.Infow("listing cache get",
			"key", key,
			"value", val,
			"error", err,
		)
		return nil, err
	}

	logger.Log.Infow("listing cache get",
		"key", key,
		"result", listing.ID,
		"error", nil,
	)

	return &listing, nil
}

// SetByTagID caches a listing under its tag id with expiration.
func (r *ListingCacheRepository) SetByTagID(ctx context.Context, tagID string, listing *models.Listing) error {
	key := tagKey(tagID)

	data, err := json.Marshal(listing)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, key, data, r.exp).Err()

	logger.Log.Infow("listing cache set",
		"key", key,
		"listing_id", listing.ID,
		"error", err,
	)

	return err
}

// DeleteByTagID drops the cached listing for a tag id so the next lookup
// sees the newest row.
func (r *ListingCacheRepository) DeleteByTagID(ctx context.Context, tagID string) error {
	key := tagKey(tagID)
	err := r.client.Del(ctx, key).Err()

	logger.Log.Infow("listing cache delete",
		"key", key,
		"error", err,
	)

	return err
}
