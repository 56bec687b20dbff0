package model

import (
	"errors"
	"time"
)

// Username and password policy
const (
	UsernameMinLength = 3
	UsernameMaxLength = 30
	PasswordMinLength = 6
)

// User represents a user in the system
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	PasswordHashed string    `db:"password_hashed" json:"-"` // "-" hides from JSON output
	FullName       *string   `db:"full_name" json:"full_name"`
	Bio            *string   `db:"bio" json:"bio"`
	ProfileImage   *string   `db:"profile_image" json:"profile_image"`
	FollowerCount  int       `db:"follower_count" json:"follower_count"`
	FollowingCount int       `db:"following_count" json:"following_count"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`

	// Joined fields (not in users table)
	Followers []UserSummary `json:"followers,omitempty"`
	Following []UserSummary `json:"following,omitempty"`
}

// UserSummary is the display-relevant projection of a user used when
// expanding author/liker/follower references.
type UserSummary struct {
	ID           int64   `db:"id" json:"id"`
	Username     string  `db:"username" json:"username"`
	FullName     *string `db:"full_name" json:"full_name"`
	ProfileImage *string `db:"profile_image" json:"profile_image"`
}

// Summary projects the user onto its display fields.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.FullName,
		ProfileImage: u.ProfileImage,
	}
}

// RegisterRequest represents the data needed to register a new user
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// LoginRequest represents the data needed to log in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries the optional profile fields; nil means
// "leave unchanged".
type UpdateProfileRequest struct {
	FullName     *string `json:"fullName"`
	Bio          *string `json:"bio"`
	ProfileImage *string `json:"profileImage"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when attempting to create a user with a taken username
	ErrUsernameExists = errors.New("username already taken")

	// ErrEmailExists is returned when the email is already registered
	ErrEmailExists = errors.New("email already registered")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")
)
