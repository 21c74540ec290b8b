package mailer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/oksasatya/go-ddd-social-accounts/pkg/mailer/templates"
)

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// render resolves the job's template when set. Explicit Subject/Text/HTML
// on a templated job are ignored.
func (j EmailJob) render() (subject, text, html string, err error) {
	if err := j.Validate(); err != nil {
		return "", "", "", err
	}
	if j.Template == "" {
		return j.Subject, j.Text, j.HTML, nil
	}
	return templates.Render(j.Template, j.Data)
}

// Deliver renders job and hands the result to s.
func Deliver(ctx context.Context, s Sender, job EmailJob) error {
	subject, text, html, err := job.render()
	if err != nil {
		return err
	}
	return s.Send(ctx, job.To, subject, text, html)
}

// Handle processes one queue message. requeue reports whether a failure is
// worth retrying: malformed or unrenderable jobs are not, send errors are.
func Handle(ctx context.Context, s Sender, body []byte) (requeue bool, err error) {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return false, fmt.Errorf("decode email job: %w", err)
	}
	subject, text, html, err := job.render()
	if err != nil {
		return false, fmt.Errorf("render %q: %w", job.Template, err)
	}
	if err := s.Send(ctx, job.To, subject, text, html); err != nil {
		return true, fmt.Errorf("send to %s: %w", job.To, err)
	}
	return false, nil
}
