package application

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-social-accounts/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social-accounts/pkg/helpers"
)

var (
	ErrAvatarStorageDisabled = errors.New("avatar storage not configured")
	ErrUnsupportedImage      = errors.New("avatar must be an image")
)

// AvatarStore writes an object and returns its public URL.
type AvatarStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// UploadAvatar stores the image under avatars/<id>/ and sets it as the
// user's image.
func (s *Service) UploadAvatar(ctx context.Context, id string, r io.Reader, filename, contentType string) (*entity.User, error) {
	if s.Avatars == nil {
		return nil, ErrAvatarStorageDisabled
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrUnsupportedImage
	}
	u, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := s.Avatars.Upload(ctx, helpers.AvatarObjectPath(u.ID, uuid.NewString(), filename), contentType, r)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("avatar upload failed")
		}
		return nil, err
	}
	u.Image = url
	if err := s.Repo.Save(ctx, u); err != nil {
		return nil, err
	}
	_ = s.indexUser(ctx, u)
	return u, nil
}
