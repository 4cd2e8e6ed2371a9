package handlers

import (
	"bytes"
	_ "embed"
	"html/template"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"startpage/internal/config"
	"startpage/internal/directory"
	"startpage/internal/middleware"
	"startpage/internal/models"
	"startpage/internal/prefs"
)

//go:embed help.md
var helpMarkdown []byte

// PageHandler renders the start page and the help page.
type PageHandler struct {
	dir    *directory.Store
	prefs  *prefs.Store
	cfg    *config.Config
	help   template.HTML
	logger *slog.Logger
}

// NewPageHandler creates a page handler. The help page is rendered once.
func NewPageHandler(dir *directory.Store, p *prefs.Store, cfg *config.Config, logger *slog.Logger) (*PageHandler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	help, err := renderMarkdown(helpMarkdown)
	if err != nil {
		return nil, err
	}
	return &PageHandler{dir: dir, prefs: p, cfg: cfg, help: help, logger: logger}, nil
}

func renderMarkdown(src []byte) (template.HTML, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return "", err
	}
	// Source is embedded at build time, never user input.
	return template.HTML(buf.String()), nil
}

// Index renders the shortcut grid. The first visit opens the help overlay
// and marks the visit, so it is only shown once.
func (h *PageHandler) Index(c fiber.Ctx) error {
	p := h.prefs.Get()
	showHelp := p.IsFirstVisit()
	if showHelp {
		visited := true
		updated, err := h.prefs.Update(c.Context(), models.PreferencesPatch{
			HasVisitedBefore: &visited,
			HasSeenHelpOnly:  &visited,
		})
		if err != nil {
			h.logger.Warn("page: failed to record first visit", slog.String("error", err.Error()))
		} else {
			p = updated
		}
	}

	return c.Render("index", MergeBranding(fiber.Map{
		"Shortcuts":       h.dir.Displayable(),
		"Preferences":     p,
		"Engines":         h.prefs.Engines(),
		"ShowHelp":        showHelp,
		"HighlightConfig": p.HasSeenHelpOnly,
		"Help":            h.help,
		"Target":          target(p),
		"User":            middleware.CurrentUser(c),
	}, h.cfg))
}

// Help renders the help page on its own.
func (h *PageHandler) Help(c fiber.Ctx) error {
	return c.Render("help", MergeBranding(fiber.Map{
		"Title":       "Help",
		"Help":        h.help,
		"Preferences": h.prefs.Get(),
	}, h.cfg))
}

func target(p models.Preferences) string {
	if p.OpenInNewTab() {
		return "_blank"
	}
	return "_self"
}

var openSearchTemplate = template.Must(template.New("opensearch").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<OpenSearchDescription xmlns="http://a9.com/-/spec/opensearch/1.1/">
  <ShortName>{{ .Title }}</ShortName>
  <Description>{{ .Title }} shortcuts and search</Description>
  <InputEncoding>UTF-8</InputEncoding>
  <Url type="text/html" method="get" template="{{ .Base }}/go?q={searchTerms}"/>
  <Url type="application/x-suggestions+json" method="get" template="{{ .Base }}/opensearch/suggest?q={searchTerms}"/>
</OpenSearchDescription>
`))

// OpenSearch serves the description browsers use to add the page as a
// search engine.
func (h *PageHandler) OpenSearch(c fiber.Ctx) error {
	var buf bytes.Buffer
	err := openSearchTemplate.Execute(&buf, map[string]string{
		"Title": h.cfg.SiteTitle,
		"Base":  strings.TrimSuffix(h.cfg.BaseURL, "/"),
	})
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/opensearchdescription+xml")
	return c.Send(buf.Bytes())
}
