package models

import "time"

// Listing is the denormalized projection returned by every lost-pet read path.
// Optional fields serialize as null when absent.
// swagger:model Listing
type Listing struct {
	ID           int64     `json:"id"`
	PostType     string    `json:"postType"`
	TagID        string    `json:"tagId"`
	AgeMonths    int       `json:"ageMonths"`
	LastSeen     string    `json:"lastSeen"`
	PetType      string    `json:"petType"`
	PetName      *string   `json:"petName"`
	Gender       *string   `json:"gender"`
	Color        *string   `json:"color"`
	Description  string    `json:"description"`
	City         *string   `json:"city"`
	Area         *string   `json:"area"`
	ContactPhone *string   `json:"contactPhone"`
	Reward       *string   `json:"reward"`
	LostDate     *string   `json:"lostDate"`
	CreatedAt    time.Time `json:"createdAt"`
	ImageURLs    []string  `json:"imageUrls"`
}

// NewListing builds the projection for a post and its image URLs.
func NewListing(post *LostPetPostDB, imageURLs []string) *Listing {
	if imageURLs == nil {
		imageURLs = []string{}
	}
	return &Listing{
		ID:           post.ID,
		PostType:     post.PostType,
		TagID:        post.TagID,
		AgeMonths:    post.AgeMonths,
		LastSeen:     post.LastSeen,
		PetType:      post.PetType,
		PetName:      post.PetName,
		Gender:       post.Gender,
		Color:        post.Color,
		Description:  post.Description,
		City:         post.City,
		Area:         post.Area,
		ContactPhone: post.ContactPhone,
		Reward:       post.Reward,
		LostDate:     post.LostDate,
		CreatedAt:    post.CreatedAt,
		ImageURLs:    imageURLs,
	}
}
