package email

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"startpage/internal/config"
)

const boundary = "StartpageBoundary7f3a9c"

// Service handles sending email.
type Service struct {
	cfg     *config.Config
	enabled bool
	logger  *slog.Logger

	// send delivers a built message; replaced in tests.
	send func(to []string, msg []byte) error
}

// NewService creates a new email service.
func NewService(cfg *config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		cfg:     cfg,
		enabled: cfg.IsEmailEnabled(),
		logger:  logger,
	}
	s.send = s.deliver

	if s.enabled {
		logger.Info("email: enabled", slog.String("host", cfg.SMTPHost), slog.Int("port", cfg.SMTPPort))
	} else {
		logger.Info("email: disabled, SMTP not configured")
	}

	return s
}

// IsEnabled returns true if email is enabled.
func (s *Service) IsEnabled() bool {
	return s.enabled
}

// SendEmail sends an email to the specified recipients. It is a no-op when
// the service is disabled or there are no recipients.
func (s *Service) SendEmail(to []string, subject, htmlBody, textBody string) error {
	if !s.enabled || len(to) == 0 {
		return nil
	}
	return s.send(to, s.buildMessage(to, subject, htmlBody, textBody))
}

// SendAsync sends an email in the background and logs the outcome.
func (s *Service) SendAsync(to []string, subject, htmlBody, textBody string) {
	if !s.enabled || len(to) == 0 {
		return
	}

	go func() {
		if err := s.SendEmail(to, subject, htmlBody, textBody); err != nil {
			s.logger.Error("email: send failed", slog.Any("to", to), slog.String("error", err.Error()))
		} else {
			s.logger.Info("email: sent", slog.Any("to", to), slog.String("subject", subject))
		}
	}()
}

func (s *Service) fromHeader() string {
	if s.cfg.SMTPFromName != "" {
		return fmt.Sprintf("%s <%s>", headerValue(s.cfg.SMTPFromName), s.cfg.SMTPFrom)
	}
	return s.cfg.SMTPFrom
}

// buildMessage renders a MIME message. Both bodies produce
// multipart/alternative; a single body is sent as is.
func (s *Service) buildMessage(to []string, subject, htmlBody, textBody string) []byte {
	var msg strings.Builder

	fmt.Fprintf(&msg, "From: %s\r\n", s.fromHeader())
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", headerValue(subject))
	msg.WriteString("MIME-Version: 1.0\r\n")

	switch {
	case htmlBody != "" && textBody != "":
		fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary)
		fmt.Fprintf(&msg, "--%s\r\n", boundary)
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		msg.WriteString(textBody)
		msg.WriteString("\r\n")
		fmt.Fprintf(&msg, "--%s\r\n", boundary)
		msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		msg.WriteString(htmlBody)
		msg.WriteString("\r\n")
		fmt.Fprintf(&msg, "--%s--\r\n", boundary)
	case htmlBody != "":
		msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		msg.WriteString(htmlBody)
	default:
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		msg.WriteString(textBody)
	}

	return []byte(msg.String())
}

// headerValue strips line breaks so user text cannot inject headers.
func headerValue(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

func (s *Service) deliver(to []string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" && s.cfg.SMTPPassword != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}

	switch s.cfg.SMTPTLS {
	case config.SMTPTLSImplicit:
		return s.sendWithTLS(addr, auth, to, msg)
	case config.SMTPTLSNone:
		return smtp.SendMail(addr, auth, s.cfg.SMTPFrom, to, msg)
	default:
		return s.sendWithStartTLS(addr, auth, to, msg)
	}
}

// sendWithTLS sends email using implicit TLS (port 465).
func (s *Service) sendWithTLS(addr string, auth smtp.Auth, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{
		ServerName: s.cfg.SMTPHost,
		MinVersion: tls.VersionTLS12,
	})
	if err != nil {
		return fmt.Errorf("TLS dial failed: %w", err)
	}

	client, err := smtp.NewClient(conn, s.cfg.SMTPHost)
	if err != nil {
		conn.Close()
		return fmt.Errorf("SMTP client failed: %w", err)
	}
	defer client.Close()

	return s.transmit(client, auth, to, msg)
}

// sendWithStartTLS sends email upgrading a plain connection (port 587).
func (s *Service) sendWithStartTLS(addr string, auth smtp.Auth, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("SMTP dial failed: %w", err)
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{
		ServerName: s.cfg.SMTPHost,
		MinVersion: tls.VersionTLS12,
	}); err != nil {
		return fmt.Errorf("STARTTLS failed: %w", err)
	}

	return s.transmit(client, auth, to, msg)
}

func (s *Service) transmit(client *smtp.Client, auth smtp.Auth, to []string, msg []byte) error {
	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP auth failed: %w", err)
		}
	}

	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("SMTP MAIL failed: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("SMTP RCPT failed: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA failed: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("SMTP write failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("SMTP close failed: %w", err)
	}

	return client.Quit()
}
