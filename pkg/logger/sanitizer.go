package logger

import (
	"regexp"
	"strings"
)

// Session tokens and service-account keys must never reach the logs.
var (
	tokenPattern      = regexp.MustCompile(`(?i)(token|jwt|bearer|__session)([\s:=]+)[^\s&;]+`)
	privateKeyPattern = regexp.MustCompile(`(?i)(private[_-]?key)([\s:=]+)[^\s&;]+`)
	secretPattern     = regexp.MustCompile(`(?i)(secret|password)([\s:=]+)[^\s&;]+`)
	pemPattern        = regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----[\s\S]*?-----END [A-Z ]*PRIVATE KEY-----`)
)

const redactedPlaceholder = "[REDACTED]"

var sensitiveKeys = []string{
	"token", "jwt", "bearer", "session_token", "cookie",
	"private_key", "private-key", "privatekey",
	"secret", "password",
}

// SanitizeLogMessage redacts credentials from free text such as request
// URIs and error strings.
func SanitizeLogMessage(message string) string {
	message = pemPattern.ReplaceAllString(message, redactedPlaceholder)
	message = tokenPattern.ReplaceAllString(message, "${1}${2}"+redactedPlaceholder)
	message = privateKeyPattern.ReplaceAllString(message, "${1}${2}"+redactedPlaceholder)
	message = secretPattern.ReplaceAllString(message, "${1}${2}"+redactedPlaceholder)
	return message
}

// SanitizeMap returns a copy of data with sensitive keys redacted.
func SanitizeMap(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}

	sanitized := make(map[string]any, len(data))
	for k, v := range data {
		if isSensitiveKey(k) {
			sanitized[k] = redactedPlaceholder
			continue
		}
		if s, ok := v.(string); ok {
			v = SanitizeLogMessage(s)
		}
		sanitized[k] = v
	}
	return sanitized
}

func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, sensitiveKey := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitiveKey) {
			return true
		}
	}
	return false
}
