package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const defaultRobotsDirectives = "noindex, nofollow"

// NoIndexMiddleware asks crawlers to skip every response, used for
// non-production deployments. Empty directives fall back to noindex, nofollow.
func NoIndexMiddleware(directives ...string) gin.HandlerFunc {
	cleaned := make([]string, 0, len(directives))
	for _, directive := range directives {
		if directive = strings.TrimSpace(directive); directive != "" {
			cleaned = append(cleaned, directive)
		}
	}

	value := defaultRobotsDirectives
	if len(cleaned) > 0 {
		value = strings.Join(cleaned, ", ")
	}

	return func(c *gin.Context) {
		c.Header("X-Robots-Tag", value)
		c.Next()
	}
}
