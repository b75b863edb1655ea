package model

import (
	"errors"
	"time"
)

// User represents a user record in the system.
// Followers and Following are each owned by this record; the follow graph
// is kept consistent by dual writes from the follow service, not by a
// shared structure.
type User struct {
	ID             int64     `db:"id" json:"id"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	Email          string    `db:"email" json:"email"`
	PasswordHashed string    `db:"password_hashed" json:"-"` // "-" hides from JSON output
	AvatarURL      *string   `db:"avatar_url" json:"avatar_url"`
	Bio            *string   `db:"bio" json:"bio"`
	Location       *string   `db:"location" json:"location"`
	Website        *string   `db:"website" json:"website"`
	Followers      IDSet     `db:"-" json:"followers"`
	Following      IDSet     `db:"-" json:"following"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// DisplayName composes the name shown in feeds and summaries.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// UserSummary holds the display-safe subset of a user record.
// It never carries the credential.
type UserSummary struct {
	ID        int64   `db:"id" json:"id"`
	FirstName string  `db:"first_name" json:"first_name"`
	LastName  string  `db:"last_name" json:"last_name"`
	AvatarURL *string `db:"avatar_url" json:"avatar_url"`
}

// DisplayName composes the name shown in feeds and comment threads.
func (s UserSummary) DisplayName() string {
	return s.FirstName + " " + s.LastName
}

// ProfileView is a user profile joined with live relationship counts and
// the viewer-relative follow flag.
type ProfileView struct {
	User           *User `json:"user"`
	FollowersCount int   `json:"followers_count"`
	FollowingCount int   `json:"following_count"`
	IsFollowing    bool  `json:"is_following"`
}

// RegisterRequest represents the data needed to register a new user
type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginRequest represents the data needed to log in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest is the request body for updating profile fields.
// Nil pointers leave the current value untouched.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	AvatarURL *string `json:"avatar_url"`
	Bio       *string `json:"bio"`
	Location  *string `json:"location"`
	Website   *string `json:"website"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailExists is returned when attempting to create a user with a taken email
	ErrEmailExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Registration / profile validation errors
	ErrFirstNameRequired = errors.New("first_name is required")
	ErrEmailRequired     = errors.New("email is required")
	ErrPasswordRequired  = errors.New("password is required")
)
