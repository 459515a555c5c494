package models

// ListingEvent is the payload published to Kafka when a listing is created.
type ListingEvent struct {
	EventID    string `json:"event_id"`
	Timestamp  int64  `json:"timestamp"`
	ListingID  int64  `json:"listing_id"`
	TagID      string `json:"tag_id"`
	PostType   string `json:"post_type"`
	ImageCount int    `json:"image_count"`
}
