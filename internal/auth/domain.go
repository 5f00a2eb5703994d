package auth

import "time"

// User represents a registered account. HashedPassword is the opaque
// bcrypt output; the plaintext is never stored or logged.
type User struct {
	ID             int64
	Username       string
	Email          string
	FirstName      string
	LastName       string
	PhoneNumber    *string
	AddressID      *int64
	HashedPassword string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PublicUser is the representation returned by the token endpoint. The
// password hash never leaves the server.
type PublicUser struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
	IsActive    bool    `json:"is_active"`
}

// Public strips credential material from a User.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		IsActive:    u.IsActive,
	}
}
