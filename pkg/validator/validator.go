package validator

import (
	"html"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
	initOnce  sync.Once

	routePattern = regexp.MustCompile(`^/[A-Za-z0-9\-._~/%]*$`)
	spaces       = regexp.MustCompile(`\s+`)
)

func Init() {
	initOnce.Do(func() {
		validate = validator.New()

		sanitizer = bluemonday.StrictPolicy()

		registerCustomValidations(validate)
	})
}

func registerCustomValidations(v *validator.Validate) {
	v.RegisterValidation("destination", validateDestination)
	v.RegisterValidation("image_path", validateImagePath)
	v.RegisterValidation("no_html", validateNoHTML)
}

func Validate(s interface{}) error {
	Init()
	return validate.Struct(s)
}

// SanitizeString strips every tag from s and collapses whitespace. The result
// is plain text, entities are decoded so it can be escaped again on output.
func SanitizeString(s string) string {
	Init()
	return strings.TrimSpace(NormalizeSpaces(html.UnescapeString(sanitizer.Sanitize(s))))
}

// ValidateDestination accepts a site route ("/otc"), the placeholder "#" or
// an absolute http(s) URL.
func ValidateDestination(value string) bool {
	value = strings.TrimSpace(value)
	switch {
	case value == "#":
		return true
	case strings.HasPrefix(value, "//"):
		return false
	case strings.HasPrefix(value, "/"):
		return routePattern.MatchString(value)
	}
	return ValidateURL(value)
}

func ValidateURL(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}

func ValidateImageExtension(filename string) bool {
	allowedExtensions := []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".ico"}
	filename = strings.ToLower(filename)
	if idx := strings.IndexAny(filename, "?#"); idx >= 0 {
		filename = filename[:idx]
	}

	for _, ext := range allowedExtensions {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}

func NormalizeSpaces(s string) string {
	return spaces.ReplaceAllString(s, " ")
}

func validateDestination(fl validator.FieldLevel) bool {
	return ValidateDestination(fl.Field().String())
}

func validateImagePath(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return false
	}
	if !strings.HasPrefix(value, "/") && !ValidateURL(value) {
		return false
	}
	return ValidateImageExtension(value)
}

func validateNoHTML(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return !strings.Contains(value, "<") && !strings.Contains(value, ">")
}
