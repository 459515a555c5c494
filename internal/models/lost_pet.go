package models

import "time"

// LostPetPostDB represents a lost-pet listing record in the database.
// Optional fields are nil when the creator left them blank.
type LostPetPostDB struct {
	ID           int64     `db:"id"`
	PostType     string    `db:"post_type"` // "Lost" or "Found" by convention, stored as-is
	TagID        string    `db:"tag_id"`    // Creator-supplied tag, not unique
	AgeMonths    int       `db:"age_months"`
	LastSeen     string    `db:"last_seen"`
	PetType      string    `db:"pet_type"`
	PetName      *string   `db:"pet_name"`
	Gender       *string   `db:"gender"`
	Color        *string   `db:"color"`
	Description  string    `db:"description"`
	City         *string   `db:"city"`
	Area         *string   `db:"area"`
	ContactPhone *string   `db:"contact_phone"`
	Reward       *string   `db:"reward"`
	LostDate     *string   `db:"lost_date"`
	CreatedAt    time.Time `db:"created_at"`
}

// LostPetImageDB represents one stored image attached to a listing.
type LostPetImageDB struct {
	ID            int64  `db:"id"`
	LostPetPostID int64  `db:"lost_pet_post_id"` // FK, cascade-delete with the post
	URL           string `db:"url"`              // Relative path under the public static root
}
