// Package redact scrubs sensitive fragments from strings before they are
// logged or returned in error responses. It is applied to every error the API
// layer logs, so connection strings, tokens, password hashes, email addresses,
// SQL and filesystem paths never reach log sinks verbatim.
package redact

import "regexp"

// Placeholders substituted for redacted fragments.
const (
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	JWTPlaceholder        = "[REDACTED_JWT]"
	HashPlaceholder       = "[REDACTED_HASH]"
	EmailPlaceholder      = "[REDACTED_EMAIL]"
	SQLPlaceholder        = "[REDACTED_SQL]"
	PathPlaceholder       = "[REDACTED_PATH]"
	HostPlaceholder       = "[REDACTED_HOST]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// rules are applied in order; earlier rules see the raw input.
var rules = []rule{
	{
		pattern:     regexp.MustCompile(`(?i)\b(?:postgres(?:ql)?|rediss?)://[^@\s]+@`),
		placeholder: CredentialPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`eyJ[\w-]+\.eyJ[\w-]+\.[\w-]+`),
		placeholder: JWTPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`\$2[aby]?\$\d{2}\$[./A-Za-z0-9]{53}`),
		placeholder: HashPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?i)(?:password|passwd|secret|token|api[_-]?key)\s*[=:]\s*['"]?[^'"&\s]{3,}`),
		placeholder: CredentialPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
		placeholder: EmailPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`\b(?:SELECT|INSERT|UPDATE|DELETE)\b[^;]*?\b(?:FROM|INTO|SET|WHERE)\b[^;]*`),
		placeholder: SQLPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?:/[\w.-]+){2,}`),
		placeholder: PathPlaceholder,
	},
	{
		pattern: regexp.MustCompile(
			`\b(?:localhost|(?:[a-zA-Z0-9-]+\.)+[a-zA-Z]{2,}|\d{1,3}(?:\.\d{1,3}){3}):\d{1,5}\b`,
		),
		placeholder: HostPlaceholder,
	},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
