package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-social-accounts/config"
	"github.com/oksasatya/go-ddd-social-accounts/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social-accounts/pkg/mailer"
	"github.com/oksasatya/go-ddd-social-accounts/pkg/mailer/templates"
)

// Publisher puts a JSON message on the email queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Notifier enqueues account emails for cmd/email_worker. Publishing is best
// effort: failures are logged and never fail the calling request.
type Notifier struct {
	pub            Publisher
	enabled        bool
	appName        string
	profileBaseURL string
	logger         *logrus.Logger
	now            func() time.Time
}

// NewNotifier returns nil when pub is nil; a nil *Notifier is a no-op.
func NewNotifier(pub Publisher, cfg *config.Config, logger *logrus.Logger) *Notifier {
	if pub == nil {
		return nil
	}
	return &Notifier{
		pub:            pub,
		enabled:        cfg.MailSendEnabled,
		appName:        cfg.AppName,
		profileBaseURL: cfg.ProfileBaseURL,
		logger:         logger,
		now:            time.Now,
	}
}

func (n *Notifier) Welcome(ctx context.Context, u *entity.User) {
	if n == nil || !n.enabled {
		return
	}
	n.enqueue(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: templates.Welcome,
		Data:     templates.NewWelcomeData(n.appName, u.Username, u.Email, templates.WithTime(n.now())),
	})
}

// NewFollower tells followee that follower started following them.
func (n *Notifier) NewFollower(ctx context.Context, followee, follower *entity.User) {
	if n == nil || !n.enabled {
		return
	}
	n.enqueue(ctx, mailer.EmailJob{
		To:       followee.Email,
		Template: templates.NewFollower,
		Data: templates.NewFollowerData(n.appName, n.profileBaseURL, followee.Username, followee.Email,
			follower.Username, follower.Bio, templates.WithTime(n.now())),
	})
}

func (n *Notifier) enqueue(ctx context.Context, job mailer.EmailJob) {
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := n.pub.PublishJSON(c, job); err != nil && n.logger != nil {
		n.logger.WithError(err).WithField("template", job.Template).Warn("enqueue email failed")
	}
}
