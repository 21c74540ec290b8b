package entity

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
)

type followSet map[string]struct{}

// normalizeID maps equivalent identifier spellings onto one key: canonical
// UUID form when parseable, trimmed lowercase otherwise.
func normalizeID(id string) string {
	s := strings.TrimSpace(id)
	if parsed, err := uuid.Parse(s); err == nil {
		return parsed.String()
	}
	return strings.ToLower(s)
}

func (s followSet) clone() followSet {
	out := make(followSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// IsFollowing reports whether targetID is in the following set. Malformed ids
// never match.
func (u *User) IsFollowing(targetID string) bool {
	_, ok := u.following[normalizeID(targetID)]
	return ok
}

// Follow adds targetID to the following set when absent and then saves the
// record. The save happens even when the id was already present; a save
// failure is returned unchanged and the in-memory addition is kept.
// There is no self-follow guard.
func (u *User) Follow(ctx context.Context, saver UserSaver, targetID string) error {
	if u.following == nil {
		u.following = followSet{}
	}
	u.following[normalizeID(targetID)] = struct{}{}
	return saver.Save(ctx, u)
}

// Unfollow removes targetID when present and then saves the record,
// whether or not anything was removed.
func (u *User) Unfollow(ctx context.Context, saver UserSaver, targetID string) error {
	delete(u.following, normalizeID(targetID))
	return saver.Save(ctx, u)
}

// Following returns the followed ids in sorted order.
func (u *User) Following() []string {
	out := make([]string, 0, len(u.following))
	for k := range u.following {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// RestoreFollowing replaces the following set, e.g. when loading from storage.
// Duplicates collapse.
func (u *User) RestoreFollowing(ids []string) {
	u.following = make(followSet, len(ids))
	for _, id := range ids {
		u.following[normalizeID(id)] = struct{}{}
	}
}
