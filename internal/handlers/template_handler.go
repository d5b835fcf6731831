package handlers

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"scroll-otc-web/internal/config"
	"scroll-otc-web/internal/service"
	"scroll-otc-web/pkg/lang"
	"scroll-otc-web/pkg/logger"
	"scroll-otc-web/pkg/navigation"
	"scroll-otc-web/pkg/utils"
)

type TemplateHandler struct {
	headerService *service.HeaderService
	templates     *template.Template
	config        *config.Config
	homePath      string
}

func NewTemplateHandler(headerService *service.HeaderService, cfg *config.Config, templates *template.Template) (*TemplateHandler, error) {
	if headerService == nil {
		return nil, errors.New("header service is required")
	}
	if templates == nil {
		return nil, errors.New("templates are required")
	}
	if cfg == nil {
		cfg = config.New()
	}

	return &TemplateHandler{
		headerService: headerService,
		templates:     templates,
		config:        cfg,
		homePath:      headerService.Navigation().Logo.Href,
	}, nil
}

// RenderRoute serves the page shell for one internal header destination.
func (h *TemplateHandler) RenderRoute(route navigation.Item) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.renderPage(c, http.StatusOK, route.Label, gin.H{
			"Heading": route.Label,
		})
	}
}

func (h *TemplateHandler) RenderNotFound(c *gin.Context) {
	h.renderPage(c, http.StatusNotFound, "404 - Page not found", gin.H{
		"Heading":    "Page not found",
		"Message":    "The requested page could not be found",
		"StatusCode": http.StatusNotFound,
	})
}

func (h *TemplateHandler) renderPage(c *gin.Context, status int, title string, extra gin.H) {
	fragment, err := h.headerService.Fragment(c.Request.Context())
	if err != nil {
		logger.Error(err, "Failed to render header", logger.FieldsFromContext(c.Request.Context()))
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}

	data := h.basePageData(title, extra)
	data["Header"] = template.HTML(fragment.HTML)
	h.setNavigationState(c, data)

	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, "base.html", data); err != nil {
		logger.Error(err, "Failed to execute page template", logger.FieldsFromContext(c.Request.Context()))
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}

	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (h *TemplateHandler) basePageData(title string, extra gin.H) gin.H {
	siteName := strings.TrimSpace(h.config.SiteName)

	fullTitle := siteName
	if title = strings.TrimSpace(title); title != "" && title != siteName {
		fullTitle = title + " - " + siteName
	}

	data := gin.H{
		"Title":    fullTitle,
		"SiteName": siteName,
		"Language": lang.Resolve(h.config.SiteLanguage),
		"HomePath": h.homePath,
	}

	for k, v := range extra {
		data[k] = v
	}

	return data
}

func (h *TemplateHandler) setNavigationState(c *gin.Context, data gin.H) {
	data["ActivePath"] = utils.NormalizePath(c.Request.URL.Path)
}
