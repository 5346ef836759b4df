package models

import "time"

// User is a registered account. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}
