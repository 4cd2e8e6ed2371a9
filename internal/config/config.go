package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"startpage/internal/resolver"
	"startpage/internal/storage"
)

// SMTP TLS modes.
const (
	SMTPTLSNone     = "none"
	SMTPTLSImplicit = "tls"
	SMTPTLSStart    = "starttls"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string
	RateLimit  int // requests per minute per IP, 0 disables
	ViewsDir   string
	StaticDir  string

	// Storage
	StorageDriver string // file, postgres, redis, memory
	StoragePath   string // directory for the file driver
	DatabaseURL   string
	RedisURL      string

	// Resolver
	PathDelimiter   string
	SearchDelimiter string
	SearchEngine    string // default engine name, see prefs.DefaultEngines

	// Suggestions
	SuggestionLimit int
	SuggestEndpoint string
	SuggestTimeout  time.Duration
	SuggestCacheTTL time.Duration // 0 disables the cache

	// Presentation
	OpenLinksInNewTab bool

	// TLS/mTLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string
	TLSCAFile   string // CA for verifying client certs (mTLS)

	// OIDC, optional. When unset the settings API is open.
	OIDCIssuer        string
	OIDCClientID      string
	OIDCClientSecret  string
	OIDCRedirectURL   string
	OIDCAllowedEmails []string // empty allows any authenticated user

	// Session
	SessionSecret string // Used for signing cookies (min 32 chars)

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
	SMTPTLS      string // none, tls, starttls

	// Feedback
	FeedbackTo      []string // recipients of feedback mail
	FeedbackFormURL string   // external form /feedback redirects to

	// Link checker
	LinkCheckInterval time.Duration // 0 disables the checker
	LinkCheckMaxAge   time.Duration // results older than this are re-checked

	// Site Branding
	SiteTitle   string // env: SITE_TITLE, default: "Start"
	SiteTagline string // env: SITE_TAGLINE
	SiteFooter  string // env: SITE_FOOTER
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:        getEnv("ENV", "development"),
		ServerAddr: getEnv("SERVER_ADDR", ":3000"),
		BaseURL:    getEnv("BASE_URL", "http://localhost:3000"),
		RateLimit:  getEnvInt("RATE_LIMIT", 300),
		ViewsDir:   getEnv("VIEWS_DIR", "./views"),
		StaticDir:  getEnv("STATIC_DIR", "./static"),

		StorageDriver: getEnv("STORAGE_DRIVER", storage.DriverFile),
		StoragePath:   getEnv("STORAGE_PATH", "data"),
		DatabaseURL:   getEnv("DATABASE_URL", "postgres://localhost:5432/startpage?sslmode=disable"),
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379/0"),

		PathDelimiter:   getEnvRaw("PATH_DELIMITER", "/"),
		SearchDelimiter: getEnvRaw("SEARCH_DELIMITER", " "),
		SearchEngine:    getEnv("SEARCH_ENGINE", "google"),

		SuggestionLimit: getEnvInt("SUGGESTION_LIMIT", 4),
		SuggestEndpoint: getEnv("SUGGEST_ENDPOINT", "https://duckduckgo.com/ac/?q="),
		SuggestTimeout:  getEnvDuration("SUGGEST_TIMEOUT", 2*time.Second),
		SuggestCacheTTL: getEnvDuration("SUGGEST_CACHE_TTL", 10*time.Minute),

		OpenLinksInNewTab: getEnvBool("OPEN_LINKS_IN_NEW_TAB", true),

		TLSEnabled:  getEnvBool("TLS_ENABLED", false),
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),
		TLSCAFile:   getEnv("TLS_CA_FILE", ""),

		OIDCIssuer:        getEnv("OIDC_ISSUER", ""),
		OIDCClientID:      getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret:  getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:   getEnv("OIDC_REDIRECT_URL", "http://localhost:3000/auth/callback"),
		OIDCAllowedEmails: getEnvList("OIDC_ALLOWED_EMAILS"),

		SessionSecret: getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		CORSOrigins:   getEnv("CORS_ORIGINS", ""),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "Start"),
		SMTPTLS:      getEnv("SMTP_TLS", SMTPTLSStart),

		FeedbackTo:      getEnvList("FEEDBACK_TO"),
		FeedbackFormURL: getEnv("FEEDBACK_FORM_URL", ""),

		LinkCheckInterval: getEnvDuration("LINK_CHECK_INTERVAL", 0),
		LinkCheckMaxAge:   getEnvDuration("LINK_CHECK_MAX_AGE", 24*time.Hour),

		SiteTitle:   getEnv("SITE_TITLE", "Start"),
		SiteTagline: getEnv("SITE_TAGLINE", "Type a shortcut, a URL or anything to search"),
		SiteFooter:  getEnv("SITE_FOOTER", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvRaw falls back only when key is unset, so a lone space or an empty
// delimiter survives.
func getEnvRaw(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvList(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks the loaded values before the server starts.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.ServerAddr, validation.Required),
		validation.Field(&c.RateLimit, validation.Min(0)),
		validation.Field(&c.StorageDriver, validation.Required,
			validation.In(storage.DriverFile, storage.DriverPostgres, storage.DriverRedis, storage.DriverMemory)),
		validation.Field(&c.StoragePath, validation.When(c.StorageDriver == storage.DriverFile, validation.Required)),
		validation.Field(&c.DatabaseURL, validation.When(c.StorageDriver == storage.DriverPostgres, validation.Required)),
		validation.Field(&c.RedisURL, validation.When(c.StorageDriver == storage.DriverRedis, validation.Required)),
		validation.Field(&c.PathDelimiter, validation.RuneLength(0, 1)),
		validation.Field(&c.SearchDelimiter, validation.RuneLength(0, 1)),
		validation.Field(&c.SearchEngine, validation.Required),
		validation.Field(&c.SuggestionLimit, validation.Min(0), validation.Max(20)),
		validation.Field(&c.SuggestTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.SuggestCacheTTL, validation.Min(time.Duration(0))),
		validation.Field(&c.TLSCertFile, validation.When(c.TLSEnabled, validation.Required)),
		validation.Field(&c.TLSKeyFile, validation.When(c.TLSEnabled, validation.Required)),
		validation.Field(&c.OIDCClientID, validation.When(c.OIDCIssuer != "", validation.Required)),
		validation.Field(&c.SessionSecret, validation.When(c.IsOIDCEnabled(), validation.Required, validation.RuneLength(32, 0))),
		validation.Field(&c.SMTPPort, validation.When(c.SMTPHost != "", validation.Min(1), validation.Max(65535))),
		validation.Field(&c.SMTPTLS, validation.In(SMTPTLSNone, SMTPTLSImplicit, SMTPTLSStart)),
		validation.Field(&c.LinkCheckInterval, validation.Min(time.Duration(0))),
	)
	if err != nil {
		return err
	}
	if c.PathDelimiter != "" && c.PathDelimiter == c.SearchDelimiter {
		return fmt.Errorf("config: path and search delimiter are both %q", c.PathDelimiter)
	}
	return nil
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsMTLSEnabled returns true if mTLS is configured with a CA file.
func (c *Config) IsMTLSEnabled() bool {
	return c.TLSEnabled && c.TLSCAFile != ""
}

// IsOIDCEnabled returns true if a settings login is configured.
func (c *Config) IsOIDCEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != ""
}

// IsEmailEnabled returns true if SMTP delivery is configured.
func (c *Config) IsEmailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPPort > 0 && c.SMTPFrom != ""
}

// ResolverConfig returns the delimiters. The default template is filled in
// from the selected search engine by the preferences store.
func (c *Config) ResolverConfig() resolver.Config {
	cfg := resolver.DefaultConfig()
	cfg.PathDelimiter = c.PathDelimiter
	cfg.SearchDelimiter = c.SearchDelimiter
	return cfg
}

// StorageOptions returns the backend selection.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Driver:      c.StorageDriver,
		Path:        c.StoragePath,
		DatabaseURL: c.DatabaseURL,
		RedisURL:    c.RedisURL,
	}
}
