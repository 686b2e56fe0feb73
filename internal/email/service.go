package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/contra-ai/contra-api/internal/logging"
)

type Service struct {
	smtpHost     string
	smtpPort     string
	smtpUser     string
	smtpPassword string
	fromEmail    string
}

func NewService(smtpHost, smtpPort, smtpUser, smtpPassword string) *Service {
	return &Service{
		smtpHost:     smtpHost,
		smtpPort:     smtpPort,
		smtpUser:     smtpUser,
		smtpPassword: smtpPassword,
		fromEmail:    smtpUser,
	}
}

// SendVerificationCode mails the 6-digit sign-up code to the user.
// This method is designed to be called in a goroutine.
func (s *Service) SendVerificationCode(ctx context.Context, toEmail, username, code string) error {
	logger := logging.GetLoggerFromContext(ctx)

	subject := "CONTRA-AI | Verification Code"
	body, err := s.renderVerificationCodeTemplate(username, code)
	if err != nil {
		logger.Error("failed to render email template", "error", err)
		return fmt.Errorf("render template: %w", err)
	}

	if err := s.sendEmail(toEmail, subject, body); err != nil {
		logger.Error("failed to send verification email", "email", toEmail, "error", err)
		return fmt.Errorf("send email: %w", err)
	}

	logger.Info("verification email sent", "email", toEmail)
	return nil
}

func (s *Service) sendEmail(to, subject, body string) error {
	auth := smtp.PlainAuth("", s.smtpUser, s.smtpPassword, s.smtpHost)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.fromEmail, to, subject, body,
	))

	addr := s.smtpHost + ":" + s.smtpPort
	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

var verificationCodeTemplate = template.Must(template.New("verification").Parse(`
<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #222;">
	<h2>Hello {{.Username}},</h2>
	<p>Thanks for signing up. Use the code below to verify your account:</p>
	<p style="font-size: 28px; font-weight: bold; letter-spacing: 6px;">{{.Code}}</p>
	<p>The code expires in one hour. If you did not sign up, you can ignore this email.</p>
</body>
</html>
`))

func (s *Service) renderVerificationCodeTemplate(username, code string) (string, error) {
	var buf bytes.Buffer
	err := verificationCodeTemplate.Execute(&buf, struct {
		Username string
		Code     string
	}{Username: username, Code: code})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
