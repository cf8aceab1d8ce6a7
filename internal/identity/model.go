package identity

import "time"

// User represents a registered account holder. Profile fields are
// immutable after registration.
type User struct {
	ID          string
	Name        string
	Surname     string
	Username    string
	PhoneNumber string
	Email       string
	CreatedAt   time.Time
}

// Profile carries the fields supplied at registration.
type Profile struct {
	Name        string
	Surname     string
	Username    string
	PhoneNumber string
	Email       string
}
