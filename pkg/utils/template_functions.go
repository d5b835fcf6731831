package utils

import (
	"html/template"
	"net/url"
	"path"
	"reflect"
	"strings"
)

// AssetVersionFunc returns a cache-busting token for a static asset path, or
// an empty string when none is known.
type AssetVersionFunc func(path string) string

func GetTemplateFuncs(assetVersion AssetVersionFunc) template.FuncMap {
	return template.FuncMap{
		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"trim":      strings.TrimSpace,
		"hasPrefix": strings.HasPrefix,
		"contains":  strings.Contains,

		"pathEquals": func(current, value string) bool {
			value = strings.TrimSpace(value)
			if value == "" || value == "#" {
				return false
			}
			return NormalizePath(current) == NormalizePath(value)
		},

		"default": func(defaultValue, value interface{}) interface{} {
			if isEmpty(value) {
				return defaultValue
			}
			return value
		},

		"asset": func(p string) string {
			if p == "" {
				return ""
			}
			lowerPath := strings.ToLower(p)
			if strings.HasPrefix(lowerPath, "http://") || strings.HasPrefix(lowerPath, "https://") || strings.HasPrefix(p, "//") {
				return p
			}
			version := ""
			if assetVersion != nil {
				version = assetVersion(p)
			}
			if version == "" {
				return p
			}
			separator := "?"
			if strings.Contains(p, "?") {
				separator = "&"
			}
			return p + separator + "v=" + url.QueryEscape(version)
		},
	}
}

func isEmpty(value interface{}) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)

	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Bool:
		return false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Slice, reflect.Array, reflect.Map:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	}

	zero := reflect.Zero(v.Type())
	return reflect.DeepEqual(value, zero.Interface())
}

func NormalizePath(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "/"
	}

	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		if parsed, err := url.Parse(trimmed); err == nil {
			if parsed.Path != "" {
				trimmed = parsed.Path
			} else {
				trimmed = "/"
			}
		}
	}

	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}

	cleaned := path.Clean(trimmed)
	if cleaned == "." || cleaned == "" {
		return "/"
	}

	return cleaned
}
