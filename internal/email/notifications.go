package email

import (
	"context"
	"log/slog"

	"startpage/internal/config"
	"startpage/internal/models"
)

// Notifier sends feedback and link check mail to the configured recipients.
type Notifier struct {
	service   *Service
	templates *Templates
	cfg       *config.Config
	logger    *slog.Logger
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		service:   NewService(cfg, logger),
		templates: NewTemplates(cfg),
		cfg:       cfg,
		logger:    logger,
	}
}

// IsEnabled returns true if mail can be delivered to someone.
func (n *Notifier) IsEnabled() bool {
	return n.service.IsEnabled() && len(n.cfg.FeedbackTo) > 0
}

// SendFeedback mails fb and reports whether it was delivered.
func (n *Notifier) SendFeedback(_ context.Context, fb *models.Feedback) (bool, error) {
	if !n.IsEnabled() {
		return false, nil
	}

	subject, htmlBody, textBody := n.templates.Feedback(fb)
	if err := n.service.SendEmail(n.cfg.FeedbackTo, subject, htmlBody, textBody); err != nil {
		return false, err
	}
	return true, nil
}

// NotifyHealthCheckFailures mails the failed link checks in the background.
func (n *Notifier) NotifyHealthCheckFailures(_ context.Context, results []models.LinkHealth) {
	if !n.IsEnabled() || len(results) == 0 {
		return
	}

	subject, htmlBody, textBody := n.templates.HealthCheckFailed(results)
	n.service.SendAsync(n.cfg.FeedbackTo, subject, htmlBody, textBody)
}
