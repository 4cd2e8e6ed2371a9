package email

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"startpage/internal/config"
	"startpage/internal/models"
)

func TestTemplates_BaseHTML(t *testing.T) {
	tmpl := NewTemplates(&config.Config{SiteTitle: "TestStart", BaseURL: "https://start.example.com"})

	html := tmpl.baseHTML("Test Title", "<p>Test content</p>")

	checks := []string{
		"<!DOCTYPE html>",
		"<title>Test Title</title>",
		"TestStart",
		"https://start.example.com",
		"<p>Test content</p>",
	}
	for _, check := range checks {
		if !strings.Contains(html, check) {
			t.Errorf("baseHTML missing %q", check)
		}
	}
}

func TestTemplates_BaseHTML_EscapesHTML(t *testing.T) {
	tmpl := NewTemplates(&config.Config{SiteTitle: "<script>alert('xss')</script>", BaseURL: "https://start.example.com"})

	html := tmpl.baseHTML("Test", "Content")

	if strings.Contains(html, "<script>") {
		t.Error("baseHTML should escape HTML in site title")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Error("baseHTML should contain escaped script tag")
	}
}

func TestTemplates_Feedback(t *testing.T) {
	tmpl := NewTemplates(&config.Config{SiteTitle: "Start", BaseURL: "https://start.example.com"})
	fb := &models.Feedback{
		ID:        uuid.New(),
		Kind:      models.FeedbackBug,
		Message:   "Suggestions <b>flicker</b>\nwhen typing fast",
		Email:     "me@example.com",
		UserAgent: "Firefox",
		CreatedAt: time.Now(),
	}

	subject, htmlBody, textBody := tmpl.Feedback(fb)

	if subject != "[Start] Bug report: Suggestions <b>flicker</b>" {
		t.Errorf("subject = %q", subject)
	}
	for _, want := range []string{"&lt;b&gt;flicker&lt;/b&gt;", "me@example.com", fb.ID.String()} {
		if !strings.Contains(htmlBody, want) {
			t.Errorf("html missing %q", want)
		}
	}
	if strings.Contains(htmlBody, "<b>flicker") {
		t.Error("html body not escaped")
	}
	if !strings.Contains(textBody, "when typing fast") || !strings.Contains(textBody, "Kind: Bug report") {
		t.Errorf("text body = %q", textBody)
	}
}

func TestTemplates_Feedback_Anonymous(t *testing.T) {
	tmpl := NewTemplates(&config.Config{SiteTitle: "Start"})
	_, _, textBody := tmpl.Feedback(&models.Feedback{Kind: models.FeedbackOther, Message: "hi"})

	if !strings.Contains(textBody, "From: anonymous") {
		t.Errorf("text body = %q", textBody)
	}
}

func TestTemplates_HealthCheckFailed(t *testing.T) {
	tmpl := NewTemplates(&config.Config{SiteTitle: "Start", BaseURL: "https://start.example.com"})
	results := []models.LinkHealth{
		{Key: "g", URL: "https://mail.google.com", Status: models.HealthUnhealthy, Error: "connection refused"},
		{Key: "m", URL: "https://metabase.example.com", Status: models.HealthUnhealthy},
	}

	subject, htmlBody, textBody := tmpl.HealthCheckFailed(results)

	if !strings.Contains(subject, "2 shortcut(s)") {
		t.Errorf("subject = %q", subject)
	}
	for _, want := range []string{"connection refused", "Unknown error", "https://metabase.example.com"} {
		if !strings.Contains(htmlBody, want) {
			t.Errorf("html missing %q", want)
		}
		if !strings.Contains(textBody, want) {
			t.Errorf("text missing %q", want)
		}
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"  first\nsecond", 10, "first"},
		{"abcdefghij", 4, "abcd..."},
		{"ünïcödé", 3, "ünï..."},
	}
	for _, tt := range tests {
		if got := firstLine(tt.in, tt.n); got != tt.want {
			t.Errorf("firstLine(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
