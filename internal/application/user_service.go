package application

import (
	"context"
	"errors"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-social-accounts/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-social-accounts/internal/domain/repository"
	"github.com/oksasatya/go-ddd-social-accounts/pkg/helpers"
)

var (
	ErrInvalidCredentials = errors.New("email or password is invalid")
	ErrUserNotFound       = errors.New("user not found")
)

type Service struct {
	Repo         repo.UserRepository
	JWT          entity.TokenSigner
	Avatars      AvatarStore
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
	Notifier     *Notifier

	now func() time.Time
}

func NewService(repo repo.UserRepository, jwt entity.TokenSigner, avatars AvatarStore, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string, notifier *Notifier) *Service {
	return &Service{
		Repo:         repo,
		JWT:          jwt,
		Avatars:      avatars,
		Logger:       logger,
		ES:           es,
		ESUsersIndex: esUsersIndex,
		Notifier:     notifier,
		now:          time.Now,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates an account. Format and uniqueness problems come back as
// *repo.ValidationError and repo.ErrDuplicate respectively.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	u := entity.NewUser(in.Username, in.Email)
	u.SetPassword(in.Password)
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	statRegistrations.Add(1)
	s.logInfo("user registered", u)
	_ = s.indexUser(ctx, u)
	s.Notifier.Welcome(ctx, u)
	return u, nil
}

// Login checks email/password. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		statLoginFailures.Add(1)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !u.PasswordIsValid(password) {
		statLoginFailures.Add(1)
		return nil, ErrInvalidCredentials
	}
	statLogins.Add(1)
	return u, nil
}

// View renders the self view with a freshly signed token.
func (s *Service) View(u *entity.User) (entity.UserView, error) {
	return u.FormatAsUserJSON(s.JWT, s.now())
}

func (s *Service) Current(ctx context.Context, id string) (*entity.User, error) {
	return s.findByID(ctx, id)
}

// UpdateUserInput carries the fields to change; nil means unchanged.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Bio      *string
	Image    *string
	Password *string
}

func (s *Service) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*entity.User, error) {
	u, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Username != nil {
		u.Username = entity.NormalizeUsername(*in.Username)
	}
	if in.Email != nil {
		u.Email = entity.NormalizeEmail(*in.Email)
	}
	if in.Bio != nil {
		u.Bio = *in.Bio
	}
	if in.Image != nil {
		u.Image = *in.Image
	}
	if in.Password != nil {
		u.SetPassword(*in.Password)
	}
	if err := s.Repo.Save(ctx, u); err != nil {
		return nil, err
	}
	_ = s.indexUser(ctx, u)
	return u, nil
}

// Profile shows username's profile to viewerID. An empty or unknown viewer
// is anonymous and never sees following=true.
func (s *Service) Profile(ctx context.Context, username, viewerID string) (entity.ProfileView, error) {
	target, err := s.findByUsername(ctx, username)
	if err != nil {
		return entity.ProfileView{}, err
	}
	var viewer *entity.User
	if viewerID != "" {
		viewer, err = s.Repo.FindByID(ctx, viewerID)
		if errors.Is(err, repo.ErrNotFound) {
			viewer = nil
		} else if err != nil {
			return entity.ProfileView{}, err
		}
	}
	return target.FormatAsProfileJSON(viewer), nil
}

// Follow makes viewerID follow username and returns the updated profile.
// A follower email goes out only when the relation is new.
func (s *Service) Follow(ctx context.Context, viewerID, username string) (entity.ProfileView, error) {
	viewer, target, err := s.pair(ctx, viewerID, username)
	if err != nil {
		return entity.ProfileView{}, err
	}
	already := viewer.IsFollowing(target.ID)
	if err := viewer.Follow(ctx, s.Repo, target.ID); err != nil {
		return entity.ProfileView{}, err
	}
	if !already {
		statFollows.Add(1)
		s.Notifier.NewFollower(ctx, target, viewer)
	}
	return target.FormatAsProfileJSON(viewer), nil
}

func (s *Service) Unfollow(ctx context.Context, viewerID, username string) (entity.ProfileView, error) {
	viewer, target, err := s.pair(ctx, viewerID, username)
	if err != nil {
		return entity.ProfileView{}, err
	}
	if err := viewer.Unfollow(ctx, s.Repo, target.ID); err != nil {
		return entity.ProfileView{}, err
	}
	statUnfollows.Add(1)
	return target.FormatAsProfileJSON(viewer), nil
}

func (s *Service) pair(ctx context.Context, viewerID, username string) (*entity.User, *entity.User, error) {
	viewer, err := s.findByID(ctx, viewerID)
	if err != nil {
		return nil, nil, err
	}
	target, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	return viewer, target, nil
}

func (s *Service) findByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Repo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *Service) findByUsername(ctx context.Context, username string) (*entity.User, error) {
	u, err := s.Repo.FindByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *Service) logInfo(msg string, u *entity.User) {
	helpers.LogInfo(s.Logger, msg, logrus.Fields{"user_id": u.ID, "username": u.Username})
}
