package email

import (
	"fmt"
	"html"
	"strings"

	"startpage/internal/config"
	"startpage/internal/models"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #222; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #1f2430; color: #e6e6e6; padding: 16px; border-radius: 8px 8px 0 0; }
        .header h1 { margin: 0; font-size: 20px; }
        .content { background: #fafafa; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { padding: 12px; font-size: 12px; color: #6b7280; }
        .info-box { background: white; border: 1px solid #e5e7eb; border-radius: 6px; padding: 12px; margin: 12px 0; }
        .label { font-weight: 600; }
        .error { color: #dc2626; }
        pre { white-space: pre-wrap; font-family: inherit; margin: 0; }
        code { background: #e5e7eb; padding: 2px 6px; border-radius: 4px; font-family: monospace; }
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
    </div>
    <div class="content">
        %s
    </div>
    <div class="footer">
        <p>Sent by %s at <a href="%s">%s</a></p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(t.cfg.SiteTitle), content,
		html.EscapeString(t.cfg.SiteTitle), html.EscapeString(t.cfg.BaseURL), html.EscapeString(t.cfg.BaseURL))
}

// Feedback generates the email for a bug report or feature request.
func (t *Templates) Feedback(fb *models.Feedback) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] %s: %s", t.cfg.SiteTitle, feedbackLabel(fb.Kind), firstLine(fb.Message, 60))

	from := fb.Email
	if from == "" {
		from = "anonymous"
	}

	content := fmt.Sprintf(`
        <div class="info-box">
            <p><span class="label">Kind:</span> %s</p>
            <p><span class="label">From:</span> %s</p>
            <p><span class="label">Browser:</span> <code>%s</code></p>
            <p><span class="label">Reference:</span> <code>%s</code></p>
        </div>
        <div class="info-box"><pre>%s</pre></div>
    `,
		html.EscapeString(feedbackLabel(fb.Kind)),
		html.EscapeString(from),
		html.EscapeString(fb.UserAgent),
		fb.ID.String(),
		html.EscapeString(fb.Message),
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`%s

Kind: %s
From: %s
Browser: %s
Reference: %s

--
%s
%s`,
		fb.Message,
		feedbackLabel(fb.Kind),
		from,
		fb.UserAgent,
		fb.ID.String(),
		t.cfg.SiteTitle,
		t.cfg.BaseURL,
	)

	return
}

// HealthCheckFailed generates the email listing shortcuts whose URL failed
// the last link check.
func (t *Templates) HealthCheckFailed(results []models.LinkHealth) (subject, htmlBody, textBody string) {
	count := len(results)
	subject = fmt.Sprintf("[%s] %d shortcut(s) failed link check", t.cfg.SiteTitle, count)

	var linksHTML, linksText strings.Builder
	for _, r := range results {
		errorMsg := r.Error
		if errorMsg == "" {
			errorMsg = "Unknown error"
		}

		fmt.Fprintf(&linksHTML, `
            <div class="info-box">
                <p><span class="label">Key:</span> <code>%s</code></p>
                <p><span class="label">URL:</span> <a href="%s">%s</a></p>
                <p><span class="label">Error:</span> <span class="error">%s</span></p>
            </div>
        `,
			html.EscapeString(r.Key),
			html.EscapeString(r.URL),
			html.EscapeString(r.URL),
			html.EscapeString(errorMsg),
		)
		fmt.Fprintf(&linksText, "\n- %s: %s\n  Error: %s\n", r.Key, r.URL, errorMsg)
	}

	content := fmt.Sprintf(`
        <p>The following %d shortcut(s) point at URLs that did not respond:</p>
        %s
    `, count, linksHTML.String())

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`Link check alert

%d shortcut(s) failed their link check:
%s
--
%s
%s`,
		count,
		linksText.String(),
		t.cfg.SiteTitle,
		t.cfg.BaseURL,
	)

	return
}

func feedbackLabel(kind string) string {
	switch kind {
	case models.FeedbackBug:
		return "Bug report"
	case models.FeedbackFeature:
		return "Feature request"
	default:
		return "Feedback"
	}
}

// firstLine returns the first line of s cut to at most n runes.
func firstLine(s string, n int) string {
	s, _, _ = strings.Cut(strings.TrimSpace(s), "\n")
	if r := []rune(s); len(r) > n {
		return string(r[:n]) + "..."
	}
	return s
}
