package models

import "time"

// Role values stored on user records.
const (
	RoleUser = "User"
	RoleVet  = "Vet"
)

// UserDB represents a user record in the database
type UserDB struct {
	ID           int64     `json:"id" db:"id"`                     // Primary key
	FullName     string    `json:"fullName" db:"full_name"`        // Display name
	Email        string    `json:"email" db:"email"`               // Lower-cased trimmed email
	PasswordHash string    `json:"-" db:"password_hash"`           // Bcrypt digest, never serialized
	Role         string    `json:"role" db:"role"`                 // RoleUser or RoleVet
	IsApproved   bool      `json:"isApproved" db:"is_approved"`    // Vets start unapproved
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`      // Creation timestamp
}
