package logging

import (
	"regexp"
	"strings"
)

// Redactor masks sensitive values in log fields.
type Redactor struct {
	patterns []*redactPattern
}

type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Built-in pattern names.
const (
	PatternAPIKey      = "api_key"
	PatternEmail       = "email"
	PatternBearerToken = "bearer_token"
	PatternPassword    = "password"
)

var defaultPatterns = []struct {
	name, regex, replacement string
}{
	{PatternBearerToken, `Bearer\s+[a-zA-Z0-9\-._~+/]+=*`, "Bearer ***"},
	{PatternAPIKey, `(sk-[a-zA-Z0-9]+|api[-_]?key[-_:]\s*[a-zA-Z0-9]+)`, "sk-***"},
	{PatternEmail, `[a-zA-Z0-9._%+-]+@([a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`, "***@$1"},
	{PatternPassword, `(password|passwd|pwd)[:=]\s*[^\s]+`, "$1: ***"},
}

var sensitiveKeys = []string{
	"password", "passwd", "pwd",
	"secret", "token", "api_key", "apikey",
	"authorization",
}

// NewRedactor creates a redactor with the built-in patterns.
func NewRedactor() *Redactor {
	r := &Redactor{}
	for _, p := range defaultPatterns {
		r.patterns = append(r.patterns, &redactPattern{
			name:        p.name,
			regex:       regexp.MustCompile(p.regex),
			replacement: p.replacement,
		})
	}
	return r
}

// RedactString replaces every pattern match in value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}

	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// RedactField masks the whole value when key names a secret, and applies
// the patterns otherwise.
func (r *Redactor) RedactField(key, value string) string {
	if isSensitiveKey(key) {
		return RedactAPIKey(value)
	}
	return r.RedactString(value)
}

func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}
	return false
}

// RedactAPIKey keeps a four-character prefix for identification.
func RedactAPIKey(apiKey string) string {
	if apiKey == "" {
		return ""
	}
	if len(apiKey) <= 4 {
		return "***"
	}
	return apiKey[:4] + "***"
}
