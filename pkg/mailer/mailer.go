// Package mailer provides email delivery for review and feedback notifications.
package mailer

// Mailer sends an email message through a delivery backend
type Mailer interface {
	SendMail(to, subject, body string) error
	GetName() string
}
