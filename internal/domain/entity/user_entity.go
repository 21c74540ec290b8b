package entity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultImageURL is shown on profiles whose owner has not set an image.
const DefaultImageURL = "https://avatars3.githubusercontent.com/u/10101729?s=460&v=4"

// User is the aggregate root for the account domain. It owns its credential
// material and the set of followed user ids; persistence is always supplied
// by the caller.
//
// A User is not safe for concurrent mutation. Cross-request consistency is
// delegated to the repository (optimistic Version check on save).
type User struct {
	ID       string
	Username string
	Email    string
	Bio      string
	Image    string

	PasswordSalt string
	PasswordHash string
	PasswordKDF  string

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time

	following followSet
}

// UserSaver persists a user record. Follow and Unfollow call it on every invocation.
type UserSaver interface {
	Save(ctx context.Context, u *User) error
}

// NewUser creates a record with a fresh id and normalized username/email.
func NewUser(username, email string) *User {
	return &User{
		ID:        uuid.NewString(),
		Username:  NormalizeUsername(username),
		Email:     NormalizeEmail(email),
		following: followSet{},
	}
}

// NormalizeUsername applies the case-insensitive storage form.
func NormalizeUsername(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// NormalizeEmail applies the case-insensitive storage form.
func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Clone returns a deep copy, including the following set.
func (u *User) Clone() *User {
	c := *u
	c.following = u.following.clone()
	return &c
}
