package domain

import "time"

type ID string

type User struct {
	ID           ID
	Email        string
	Username     string
	PasswordHash string
	FirstName    *string
	LastName     *string
	CreatedAt    time.Time
}

// NewUser is the insert shape; the repository assigns ID and CreatedAt.
type NewUser struct {
	Email        string
	Username     string
	PasswordHash string
	FirstName    *string
	LastName     *string
}
