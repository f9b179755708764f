// Package redact scrubs secrets and infrastructure details from strings
// before they reach logs or error responses. The shop handles GitHub OAuth
// codes, signed tokens, a Gemini API key and a Postgres DSN, and any of
// them can surface inside a wrapped driver or HTTP client error.
package redact

import "regexp"

// Placeholders substituted for redacted fragments.
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
	RedactedHostPlaceholder       = "[REDACTED_HOST]"
)

// rule replaces every match of pattern with replacement, which may refer
// to capture groups.
type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Rules run in order. Provider-specific token shapes come first so the
// generic key=value rule does not swallow their prefix.
var rules = []rule{
	{
		// OAuth parameters in callback and token-exchange URLs.
		regexp.MustCompile(`(?i)([?&#](?:code|state|client_secret|access_token|refresh_token)=)[^&#\s"']+`),
		"${1}" + RedactionPlaceholder,
	},
	{regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{20,}\b`), RedactedKeyPlaceholder},
	{regexp.MustCompile(`\bAIza[0-9A-Za-z_-]{35}\b`), RedactedKeyPlaceholder},
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), RedactedJWTPlaceholder},
	{regexp.MustCompile(`(?i)\b(?:postgres(?:ql)?|db|database)://[^@\s]+@`), RedactedCredentialPlaceholder},
	{regexp.MustCompile(`(?i)\b(?:password|passwd|pwd)[=:\s]?['"]?[^'"&\s]{3,}`), RedactedCredentialPlaceholder},
	{
		regexp.MustCompile(`(?i)\b(?:api[_-]?key|token|secret|key|auth)['"\s:=]+[A-Za-z0-9_\-.~+/]{8,}`),
		RedactedKeyPlaceholder,
	},
	{regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(?:\n\t.*)+`), "[STACK_TRACE_REDACTED]"},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[REDACTED_EMAIL]"},
	{
		regexp.MustCompile(
			`(?i)\b(?:SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP)\b[\s\w,*()$]+\b(?:FROM|INTO|SET|TABLE|INDEX)\b(?:[\s\w,*()='"$.]+)?`,
		),
		"[REDACTED_SQL]",
	},
	{regexp.MustCompile(`(?:/[\w.-]+){2,}`), RedactedPathPlaceholder},
	{
		regexp.MustCompile(`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`),
		RedactedHostPlaceholder,
	},
}

// String returns input with every sensitive fragment replaced.
func String(input string) string {
	if input == "" {
		return input
	}
	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts err.Error(). A nil error yields "".
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
