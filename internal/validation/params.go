package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Input length limits to prevent resource exhaustion
const (
	MaxParameterNameLength  = 64
	MaxParameterValueLength = 4096
)

// ParseParameters converts repeated key=value flag values into the credential
// parameter map the API expects.
func ParseParameters(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid parameter %q (expected key=value)", pair)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid parameter %q (empty key)", pair)
		}
		if err := ValidateParameter(key, value); err != nil {
			return nil, err
		}
		params[key] = value
	}
	return params, nil
}

// ValidateParameter validates one credential parameter name/value pair.
func ValidateParameter(name, value string) error {
	if length := utf8.RuneCountInString(name); length > MaxParameterNameLength {
		return fmt.Errorf("parameter name exceeds maximum length of %d characters (got %d)", MaxParameterNameLength, length)
	}
	if length := len(value); length > MaxParameterValueLength {
		return fmt.Errorf("parameter %q value exceeds maximum size of %d bytes (got %d)", name, MaxParameterValueLength, length)
	}
	return nil
}
