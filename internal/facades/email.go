package facades

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/mkoval7/contacts-api/internal/logger"
)

// EmailConfig holds SMTP settings and the public base URL used in links.
type EmailConfig struct {
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	From     string
	BaseURL  string
}

// EmailFacade sends account emails over SMTP. Delivery runs in the
// background; the caller never waits on the SMTP round trip.
type EmailFacade struct {
	cfg EmailConfig
}

// NewEmailFacade creates a new EmailFacade instance.
func NewEmailFacade(cfg EmailConfig) *EmailFacade {
	return &EmailFacade{cfg: cfg}
}

func (f *EmailFacade) configured() bool {
	return f.cfg.SMTPHost != "" && f.cfg.From != ""
}

func (f *EmailFacade) dispatch(to, subject, body string) {
	m := gomail.NewMessage()
	m.SetHeader("From", f.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(f.cfg.SMTPHost, f.cfg.SMTPPort, f.cfg.SMTPUser, f.cfg.SMTPPass)

	go func() {
		if err := d.DialAndSend(m); err != nil {
			logger.Log.Errorw("failed to send email", "to", to, "subject", subject, "error", err)
			return
		}
		logger.Log.Infow("email sent", "to", to, "subject", subject)
	}()
}

// SendConfirmation sends the email verification message with a confirmation
// link built from the token.
func (f *EmailFacade) SendConfirmation(ctx context.Context, to, username, token string) error {
	if !f.configured() {
		logger.Log.Warnw("email config missing, skipping confirmation email", "to", to)
		return nil
	}

	link := fmt.Sprintf("%s/auth/confirmed_email/%s", f.cfg.BaseURL, token)
	body := fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>Thanks for registering. Please confirm your email address:</p>
<p><a href="%s">Confirm email</a></p>
<p>If you did not register, ignore this message.</p>
</body></html>`, username, link)

	f.dispatch(to, "Confirm your email", body)
	return nil
}

// SendPasswordReset sends the password reset message with a reset link built
// from the token.
func (f *EmailFacade) SendPasswordReset(ctx context.Context, to, token string) error {
	if !f.configured() {
		logger.Log.Warnw("email config missing, skipping reset email", "to", to)
		return nil
	}

	link := fmt.Sprintf("%s/auth/password-reset/confirm?token=%s", f.cfg.BaseURL, token)
	body := fmt.Sprintf(`<html><body>
<p>A password reset was requested for your account.</p>
<p><a href="%s">Reset password</a></p>
<p>If you did not request a reset, ignore this message.</p>
</body></html>`, link)

	f.dispatch(to, "Reset your password", body)
	return nil
}
