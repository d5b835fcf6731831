package lang

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Default represents the fallback language code used when no explicit language
// is configured. The value follows BCP 47 conventions.
const Default = "en"

var errEmptyCode = errors.New("language code cannot be empty")

// Normalize validates the provided language code and returns it in a
// canonicalised form (lowercase language, uppercase region). Supported formats
// follow the common `ll` or `ll-RR` pattern where `l` is an alphabetic
// character and `R` is the region designator.
func Normalize(code string) (string, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "", errEmptyCode
	}

	parts := strings.Split(trimmed, "-")
	if len(parts) > 2 {
		return "", fmt.Errorf("invalid language code %q", code)
	}

	language := strings.ToLower(parts[0])
	if len(language) < 2 || len(language) > 8 {
		return "", fmt.Errorf("invalid language code %q", code)
	}
	for _, r := range language {
		if !unicode.IsLetter(r) {
			return "", fmt.Errorf("invalid language code %q", code)
		}
	}

	if len(parts) == 1 {
		return language, nil
	}

	region := parts[1]
	if len(region) < 2 || len(region) > 3 {
		return "", fmt.Errorf("invalid language region in %q", code)
	}
	for _, r := range region {
		if !unicode.IsLetter(r) {
			return "", fmt.Errorf("invalid language region in %q", code)
		}
	}

	region = strings.ToUpper(region)
	return language + "-" + region, nil
}

// Resolve returns the normalised form of code, falling back to Default when
// the code is empty or malformed.
func Resolve(code string) string {
	normalized, err := Normalize(code)
	if err != nil {
		return Default
	}
	return normalized
}
