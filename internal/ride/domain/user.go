package domain

import "time"

// User is the account record the ride core reads for identity and
// display names. Password hashing happens in the account use case.
type User struct {
	ID           string
	Username     string
	Email        string
	Role         string
	PasswordHash string
	Rating       float64
	CreatedAt    time.Time
}
