// Package validation checks user-supplied shortcuts, preferences and feedback
// before they reach a store, and guards outbound link checks against SSRF.
package validation

import (
	"errors"
	"fmt"
	"net"
	"net/mail"
	"net/url"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"startpage/internal/models"
)

// Limits for user-supplied values.
const (
	MaxKeyLength        = 32
	MaxNameLength       = 64
	MaxCommandLength    = 256
	MaxSuggestions      = 20
	MaxFeedbackLength   = 5000
	templatePlaceholder = "{}"
)

// Themes accepted by ValidatePreferences.
var Themes = []string{"dark", "light"}

// ValidateKey checks a shortcut key. Keys may not contain whitespace or any
// of the given delimiters, since either would make them unreachable.
func ValidateKey(key string, delimiters ...string) error {
	return validation.Validate(key,
		validation.Required,
		validation.RuneLength(1, MaxKeyLength),
		validation.By(func(value interface{}) error {
			s, _ := value.(string)
			if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
				return errors.New("must not contain whitespace")
			}
			for _, d := range delimiters {
				if d != "" && strings.Contains(s, d) {
					return fmt.Errorf("must not contain %q", d)
				}
			}
			return nil
		}),
	)
}

// NormalizeKey trims surrounding whitespace. Keys are case-sensitive.
func NormalizeKey(key string) string {
	return strings.TrimSpace(key)
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
// This prevents javascript:, data:, vbscript:, and other dangerous URL schemes.
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

// HasScheme reports whether raw starts with a URL scheme.
func HasScheme(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && strings.Contains(raw, "://")
}

// EnsureScheme prefixes https:// when raw has no scheme. changed reports
// whether the prefix was added.
func EnsureScheme(raw string) (fixed string, changed bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || HasScheme(raw) {
		return raw, false
	}
	return "https://" + raw, true
}

// ValidateTemplate checks a search template. Templates are appended to the
// shortcut's origin, so they must start with / or ? and hold exactly one {}.
func ValidateTemplate(tpl string) error {
	if tpl == "" {
		return nil
	}
	if !strings.HasPrefix(tpl, "/") && !strings.HasPrefix(tpl, "?") {
		return errors.New("must start with / or ?")
	}
	if n := strings.Count(tpl, templatePlaceholder); n != 1 {
		return fmt.Errorf("must contain exactly one %s placeholder", templatePlaceholder)
	}
	return nil
}

func urlRule(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if ok, msg := ValidateURL(s); !ok {
		return errors.New(msg)
	}
	return nil
}

func templateRule(value interface{}) error {
	s, _ := value.(string)
	return ValidateTemplate(s)
}

// ValidateShortcut checks key and record together. Aliases need a command;
// every other record needs an http(s) URL.
func ValidateShortcut(key string, sc models.Shortcut, delimiters ...string) error {
	errs := validation.Errors{}
	if err := ValidateKey(key, delimiters...); err != nil {
		errs["key"] = err
	}

	err := validation.ValidateStruct(&sc,
		validation.Field(&sc.Name, validation.RuneLength(0, MaxNameLength)),
		validation.Field(&sc.URL,
			validation.When(sc.Command == "", validation.Required),
			validation.By(urlRule),
		),
		validation.Field(&sc.SearchTemplate, validation.By(templateRule)),
		validation.Field(&sc.Suggestions,
			validation.Length(0, MaxSuggestions),
			validation.Each(validation.Required, validation.RuneLength(1, MaxCommandLength)),
		),
		validation.Field(&sc.Command, validation.RuneLength(0, MaxCommandLength)),
	)
	if err != nil {
		var fieldErrs validation.Errors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for field, fe := range fieldErrs {
			errs[field] = fe
		}
	}

	return errs.Filter()
}

// ValidatePreferences checks a preference set against the configured
// search engines.
func ValidatePreferences(p models.Preferences, engines []string) error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Theme, validation.Required, validation.In(toAny(Themes)...)),
		validation.Field(&p.TabBehavior, validation.Required, validation.In(models.TabNew, models.TabCurrent)),
		validation.Field(&p.SearchEngine, validation.Required, validation.In(toAny(engines)...)),
	)
}

// ValidateFeedback checks a feedback submission.
func ValidateFeedback(fb models.Feedback) error {
	return validation.ValidateStruct(&fb,
		validation.Field(&fb.Kind, validation.Required, validation.In(models.FeedbackBug, models.FeedbackFeature, models.FeedbackOther)),
		validation.Field(&fb.Message, validation.Required, validation.RuneLength(1, MaxFeedbackLength)),
		validation.Field(&fb.Email, validation.By(func(value interface{}) error {
			s, _ := value.(string)
			if s == "" {
				return nil
			}
			if _, err := mail.ParseAddress(s); err != nil {
				return errors.New("must be a valid email address")
			}
			return nil
		})),
	)
}

func toAny(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// lookupIP is replaced in tests.
var lookupIP = net.LookupIP

// IsPrivateIP checks if an IP address is in a private/reserved range.
// Used to prevent SSRF attacks against internal networks.
func IsPrivateIP(ip net.IP) bool {
	if ip == nil {
		return false
	}

	if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}
	if ip.IsPrivate() || ip.IsUnspecified() {
		return true
	}

	// Cloud metadata endpoints (AWS/GCP, Azure)
	for _, blocked := range []string{"169.254.169.254", "168.63.129.16"} {
		if ip.Equal(net.ParseIP(blocked)) {
			return true
		}
	}

	return false
}

// IsPrivateHost checks if a hostname resolves to a private IP address.
// Returns true if the host is private/blocked, false if it's safe to access.
func IsPrivateHost(host string) (bool, error) {
	hostname := host
	if h, _, err := net.SplitHostPort(host); err == nil {
		hostname = h
	}

	ips, err := lookupIP(hostname)
	if err != nil {
		// Unresolvable hosts are blocked
		return true, err
	}

	for _, ip := range ips {
		if IsPrivateIP(ip) {
			return true, nil
		}
	}

	return false, nil
}

// ValidateURLForHealthCheck validates a URL is safe for health checking.
// Blocks private IPs, localhost, and cloud metadata endpoints.
func ValidateURLForHealthCheck(urlStr string) (bool, string) {
	valid, msg := ValidateURL(urlStr)
	if !valid {
		return false, msg
	}

	u, _ := url.Parse(urlStr)

	isPrivate, err := IsPrivateHost(u.Host)
	if err != nil {
		return false, "Cannot resolve hostname"
	}
	if isPrivate {
		return false, "URL points to a private or reserved IP address"
	}

	return true, ""
}
