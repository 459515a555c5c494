package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/petcarehub/petcare-api/internal/logger"
	"github.com/petcarehub/petcare-api/internal/models"
)

type LostPetWriteRepository struct {
	db *sqlx.DB
}

func NewLostPetWriteRepository(db *sqlx.DB) *LostPetWriteRepository {
	return &LostPetWriteRepository{db: db}
}

// Save persists a listing and its image rows in a single transaction.
// Either every row exists afterwards or none do. On success the post's
// id and created_at are filled in from the database.
func (r *LostPetWriteRepository) Save(ctx context.Context, post *models.LostPetPostDB, imageURLs []string) error {
	const postQuery = `
		INSERT INTO lost_pet_posts
			(post_type, tag_id, age_months, last_seen, pet_type, pet_name, gender, color,
			 description, city, area, contact_phone, reward, lost_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
		RETURNING id, created_at
	`
	const imageQuery = `
		INSERT INTO lost_pet_images (lost_pet_post_id, url)
		VALUES ($1, $2)
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		logger.Log.Errorw("failed to begin transaction", "error", err)
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowxContext(ctx, postQuery,
		post.PostType, post.TagID, post.AgeMonths, post.LastSeen, post.PetType,
		post.PetName, post.Gender, post.Color, post.Description,
		post.City, post.Area, post.ContactPhone, post.Reward, post.LostDate,
	).Scan(&post.ID, &post.CreatedAt)

	logger.Log.Infow("lost pet post save",
		"query", strings.Join(strings.Fields(postQuery), " "),
		"args", []any{post.PostType, post.TagID, post.AgeMonths},
		"result", post.ID,
		"error", err,
	)

	if err != nil {
		return err
	}

	for _, url := range imageURLs {
		if _, err := tx.ExecContext(ctx, imageQuery, post.ID, url); err != nil {
			logger.Log.Errorw("lost pet image save failed",
				"post_id", post.ID,
				"url", url,
				"error", err,
			)
			return err
		}
	}

	return tx.Commit()
}

type LostPetReadRepository struct {
	db *sqlx.DB
}

func NewLostPetReadRepository(db *sqlx.DB) *LostPetReadRepository {
	return &LostPetReadRepository{db: db}
}

// ListAll returns every listing, newest first, with its image URLs resolved.
func (r *LostPetReadRepository) ListAll(ctx context.Context) ([]models.Listing, error) {
	const query = `
		SELECT id, post_type, tag_id, age_months, last_seen, pet_type, pet_name, gender,
		       color, description, city, area, contact_phone, reward, lost_date, created_at
		FROM lost_pet_posts
		ORDER BY created_at DESC, id DESC
	`

	var posts []models.LostPetPostDB
	err := r.db.SelectContext(ctx, &posts, query)

	logger.Log.Infow("lost pet list",
		"query", strings.Join(strings.Fields(query), " "),
		"result", len(posts),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	imagesByPost, err := r.imagesForPosts(ctx, posts)
	if err != nil {
		return nil, err
	}

	listings := make([]models.Listing, 0, len(posts))
	for i := range posts {
		listings = append(listings, *models.NewListing(&posts[i], imagesByPost[posts[i].ID]))
	}

	return listings, nil
}

// GetLatestByTagID returns the newest listing with an exactly matching tag id,
// or nil when none matches. Older listings sharing the tag are ignored.
func (r *LostPetReadRepository) GetLatestByTagID(ctx context.Context, tagID string) (*models.Listing, error) {
	const query = `
		SELECT id, post_type, tag_id, age_months, last_seen, pet_type, pet_name, gender,
		       color, description, city, area, contact_phone, reward, lost_date, created_at
		FROM lost_pet_posts
		WHERE tag_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var post models.LostPetPostDB
	err := r.db.GetContext(ctx, &post, query, tagID)

	logger.Log.Infow("lost pet find by tag",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{tagID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	imagesByPost, err := r.imagesForPosts(ctx, []models.LostPetPostDB{post})
	if err != nil {
		return nil, err
	}

	return models.NewListing(&post, imagesByPost[post.ID]), nil
}

// imagesForPosts fetches image URLs for the given posts grouped by post id.
func (r *LostPetReadRepository) imagesForPosts(
	ctx context.Context, posts []models.LostPetPostDB,
) (map[int64][]string, error) {
	imagesByPost := make(map[int64][]string, len(posts))
	if len(posts) == 0 {
		return imagesByPost, nil
	}

	ids := make([]int64, 0, len(posts))
	for i := range posts {
		ids = append(ids, posts[i].ID)
	}

	query, args, err := sqlx.In(`
		SELECT id, lost_pet_post_id, url
		FROM lost_pet_images
		WHERE lost_pet_post_id IN (?)
		ORDER BY id
	`, ids)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	var images []models.LostPetImageDB
	err = r.db.SelectContext(ctx, &images, query, args...)

	logger.Log.Infow("lost pet images read",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", len(images),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	for _, img := range images {
		imagesByPost[img.LostPetPostID] = append(imagesByPost[img.LostPetPostID], img.URL)
	}

	return imagesByPost, nil
}
