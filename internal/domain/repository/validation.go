package repository

import (
	"regexp"
	"sort"
	"strings"

	"github.com/oksasatya/go-ddd-social-accounts/internal/domain/entity"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	emailPattern    = regexp.MustCompile(`\S+@\S+\.\S+`)
)

// ValidationError carries per-field messages for a rejected record.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Validate checks the format rules every stored user must satisfy.
func Validate(u *entity.User) error {
	fields := map[string]string{}
	switch {
	case u.Username == "":
		fields["username"] = "can't be blank"
	case !usernamePattern.MatchString(u.Username):
		fields["username"] = "is invalid"
	}
	switch {
	case u.Email == "":
		fields["email"] = "can't be blank"
	case !emailPattern.MatchString(u.Email):
		fields["email"] = "is invalid"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
