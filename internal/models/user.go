package models

import "time"

// User is the backend-side account record (mock API persistence).
type User struct {
	ID           int64
	Cedula       string
	Username     string
	Email        string
	PasswordHash []byte
	FirstName    string
	LastName     string
	Phone        string
	Status       UserStatus
	Department   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthToken is an opaque bearer credential issued by the mock API. Only the
// hash is stored.
type AuthToken struct {
	ID        string
	UserID    int64
	TokenHash []byte
	CreatedAt time.Time
	ExpiresAt time.Time
}
