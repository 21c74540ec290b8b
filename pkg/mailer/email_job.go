package mailer

import (
	"errors"
	"strings"

	"github.com/oksasatya/go-ddd-social-accounts/pkg/mailer/templates"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (+Data) or Subject with Text/HTML must be set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "welcome" or "new_follower"
	Data     map[string]any `json:"data,omitempty"`
}

var (
	ErrNoRecipient     = errors.New("email job has no recipient")
	ErrUnknownTemplate = errors.New("unknown email template")
	ErrEmptyBody       = errors.New("email job has neither template nor body")
)

func (j EmailJob) Validate() error {
	if strings.TrimSpace(j.To) == "" {
		return ErrNoRecipient
	}
	if j.Template != "" {
		if !templates.Known(j.Template) {
			return ErrUnknownTemplate
		}
		return nil
	}
	if j.Subject == "" || (j.Text == "" && j.HTML == "") {
		return ErrEmptyBody
	}
	return nil
}
