package utils

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// EmailService provides email delivery functionality
type EmailService struct {
	smtpHost     string
	smtpPort     int
	smtpUsername string
	smtpPassword string
	fromAddress  string
}

// NewEmailService creates a new EmailService
func NewEmailService(smtpHost string, smtpPort int, smtpUsername, smtpPassword, fromAddress string) *EmailService {
	return &EmailService{
		smtpHost:     smtpHost,
		smtpPort:     smtpPort,
		smtpUsername: smtpUsername,
		smtpPassword: smtpPassword,
		fromAddress:  fromAddress,
	}
}

// SendEmail sends an HTML email.
func (s *EmailService) SendEmail(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.fromAddress, "Duet"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.smtpHost, s.smtpPort, s.smtpUsername, s.smtpPassword)

	return d.DialAndSend(m)
}

// GeneratePartnerInviteHTML builds the partner invitation email body.
func (s *EmailService) GeneratePartnerInviteHTML(inviterName, inviteLink string) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 520px; margin: 0 auto;">
  <h2 style="color: #333;">%s invited you to Duet</h2>
  <p style="color: #555;">Duet is a shared space for two. Accept the invitation to link your accounts and start sharing tasks, notes and lists.</p>
  <p style="margin: 24px 0;">
    <a href="%s" style="background: #5b5fc7; color: #fff; padding: 12px 24px; border-radius: 6px; text-decoration: none;">Accept invitation</a>
  </p>
  <p style="color: #999; font-size: 12px;">If you were not expecting this invitation you can ignore this email.</p>
</div>`, inviterName, inviteLink)
}
