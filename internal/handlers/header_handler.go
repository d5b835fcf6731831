package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"scroll-otc-web/internal/service"
	"scroll-otc-web/pkg/logger"
)

type HeaderHandler struct {
	headerService *service.HeaderService
}

func NewHeaderHandler(headerService *service.HeaderService) *HeaderHandler {
	return &HeaderHandler{headerService: headerService}
}

// Fragment serves the bare header markup for clients that compose pages
// themselves. Responses carry an ETag and honour If-None-Match.
func (h *HeaderHandler) Fragment(c *gin.Context) {
	fragment, err := h.headerService.Fragment(c.Request.Context())
	if err != nil {
		logger.Error(err, "Failed to render header", logger.FieldsFromContext(c.Request.Context()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render header"})
		return
	}

	c.Header("ETag", fragment.ETag)
	c.Header("Cache-Control", "public, max-age=60")

	if etagMatches(c.GetHeader("If-None-Match"), fragment.ETag) {
		c.Status(http.StatusNotModified)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", fragment.HTML)
}

func (h *HeaderHandler) Navigation(c *gin.Context) {
	c.JSON(http.StatusOK, h.headerService.Navigation())
}

func etagMatches(header, etag string) bool {
	header = strings.TrimSpace(header)
	if header == "" {
		return false
	}
	if header == "*" {
		return true
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag {
			return true
		}
	}
	return false
}
