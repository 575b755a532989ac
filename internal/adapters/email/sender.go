package email

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/mvalle/auth-api/internal/config"
	"github.com/mvalle/auth-api/internal/core/ports"
	"github.com/sirupsen/logrus"
)

// Sender delivers password recovery mail via SMTP.
type Sender struct {
	cfg *config.Config
	log *logrus.Logger
}

func NewSender(cfg *config.Config, log *logrus.Logger) ports.ResetMailer {
	return &Sender{cfg: cfg, log: log}
}

func (s *Sender) SendPasswordReset(to, fullName, token string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Password Reset Request"

	resetLink := fmt.Sprintf("%s/auth/reset-password?token=%s", s.cfg.FrontendURL, token)
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"We received a request to reset the password for your account.\n"+
			"Use the link below to choose a new password. The link expires in %v.\n\n"+
			"%s\n\n"+
			"If you did not request a password reset, you can ignore this email.\n",
		fullName, s.cfg.ResetTokenTTL, resetLink,
	)
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.log.Errorf("Failed to send password reset email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.Infof("Password reset email sent to %s", to)
	return nil
}
