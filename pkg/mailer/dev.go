package mailer

import (
	"github.com/sirupsen/logrus"
)

// DevMailer logs outgoing mail instead of delivering it.
// Used in development mode so the review flow can be exercised
// without mail gateway credentials.
type DevMailer struct {
	logger *logrus.Logger
}

// NewDevMailer creates a logging-only mail backend
func NewDevMailer(logger *logrus.Logger) *DevMailer {
	return &DevMailer{logger: logger}
}

// SendMail logs the message and reports success
func (d *DevMailer) SendMail(to, subject, body string) error {
	d.logger.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
		"body":    body,
	}).Info("dev mailer: would send email")
	return nil
}

// GetName returns the name of this mail backend
func (d *DevMailer) GetName() string {
	return "Dev Mailer (log only)"
}
