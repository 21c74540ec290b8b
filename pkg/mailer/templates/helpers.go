package templates

import (
	"strings"
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithFollower(username, bio string) Option {
	return func(d *EmailData) {
		d.FollowerUsername = username
		d.FollowerBio = bio
	}
}

// WithProfileURL points at baseURL + username.
func WithProfileURL(baseURL, username string) Option {
	return func(d *EmailData) {
		if baseURL == "" || username == "" {
			return
		}
		d.ProfileURL = strings.TrimRight(baseURL, "/") + "/" + username
	}
}

// NewBaseEmailData fills the common fields and applies opts in order.
func NewBaseEmailData(appName, typ, username, recipient string, opts ...Option) EmailData {
	d := EmailData{
		Username:       username,
		RecipientEmail: recipient,
		Type:           typ,
		AppName:        appName,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(appName, username, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(appName, Welcome, username, email, opts...))
}

// NewFollowerData is sent to the followed user; the follower's profile is linked.
func NewFollowerData(appName, profileBaseURL, username, email, followerUsername, followerBio string, opts ...Option) map[string]any {
	opts = append([]Option{
		WithFollower(followerUsername, followerBio),
		WithProfileURL(profileBaseURL, followerUsername),
	}, opts...)
	return ToMap(NewBaseEmailData(appName, NewFollower, username, email, opts...))
}
