package models

import "time"

// User is a registered medical professional. Passwords are stored only as
// bcrypt hashes.
type User struct {
	ID             int64
	PublicID       string
	Username       string
	Email          string
	HashedPassword string
	CreatedAt      time.Time
}
