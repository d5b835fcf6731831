package app

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"scroll-otc-web/internal/background"
	"scroll-otc-web/internal/config"
	"scroll-otc-web/internal/handlers"
	"scroll-otc-web/internal/header"
	"scroll-otc-web/internal/middleware"
	"scroll-otc-web/internal/service"
	"scroll-otc-web/internal/wallet"
	"scroll-otc-web/pkg/cache"
	"scroll-otc-web/pkg/logger"
	"scroll-otc-web/pkg/utils"
	"scroll-otc-web/web"
)

type Options struct {
	// Templates and Static default to the embedded assets.
	Templates fs.FS
	Static    fs.FS
	// Wallet overrides the widget selected by the configuration.
	Wallet header.WalletWidget
}

type Application struct {
	cfg     *config.Config
	options Options

	cache       *cache.Cache
	rateLimiter *middleware.RateLimitManager
	scheduler   *background.Scheduler

	headerBar     *header.HeaderBar
	headerService *service.HeaderService

	templateHandler *handlers.TemplateHandler
	headerHandler   *handlers.HeaderHandler

	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, opts Options) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	if opts.Templates == nil {
		opts.Templates = web.Templates()
	}
	if opts.Static == nil {
		opts.Static = web.Static()
	}

	app := &Application{
		cfg:     cfg,
		options: opts,
	}

	if err := app.initCache(); err != nil {
		return nil, err
	}

	if err := app.initHeader(); err != nil {
		return nil, err
	}

	app.initWarmup()

	if err := app.initHandlers(); err != nil {
		return nil, err
	}

	if err := app.initRouter(); err != nil {
		_ = app.Shutdown(context.Background())
		return nil, err
	}

	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return app, nil
}

func (a *Application) Run() error {
	logger.Info("Server starting", map[string]interface{}{
		"port":        a.cfg.Port,
		"environment": a.cfg.Environment,
	})

	return a.server.ListenAndServe()
}

func (a *Application) Shutdown(ctx context.Context) error {
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return err
		}
	}

	if a.rateLimiter != nil {
		_ = a.rateLimiter.Shutdown()
	}

	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(ctx); err != nil {
			logger.Error(err, "Failed to stop background scheduler", nil)
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Error(err, "Failed to close cache connection", nil)
		}
	}

	return nil
}

func (a *Application) Router() *gin.Engine {
	return a.router
}

func (a *Application) initCache() error {
	if !a.cfg.EnableCache || !a.cfg.EnableRedis {
		disabled, err := cache.NewCache("", false)
		if err != nil {
			return err
		}
		a.cache = disabled
		return nil
	}

	logger.Info("Connecting to Redis", map[string]interface{}{"addr": a.cfg.RedisURL})

	redisCache, err := cache.NewCache(a.cfg.RedisURL, true)
	if err != nil {
		logger.Error(err, "Redis unavailable, header cache disabled", nil)
		redisCache, _ = cache.NewCache("", false)
	}
	a.cache = redisCache
	return nil
}

func (a *Application) initHeader() error {
	headerCfg := header.DefaultConfig()
	if path := strings.TrimSpace(a.cfg.HeaderConfigFile); path != "" {
		loaded, err := header.LoadConfig(path)
		if err != nil {
			return err
		}
		headerCfg = loaded
		logger.Info("Header configuration loaded", map[string]interface{}{
			"file":  path,
			"links": len(headerCfg.Links),
		})
	}

	widget := a.options.Wallet
	if widget == nil {
		selected, err := wallet.New(wallet.Options{
			Provider:  a.cfg.WalletProvider,
			ScriptURL: a.cfg.WalletScriptURL,
			Theme:     a.cfg.WalletTheme,
			Mode:      a.cfg.WalletMode,
		})
		if err != nil {
			return err
		}
		widget = selected
	}

	bar, err := header.New(headerCfg, widget)
	if err != nil {
		return fmt.Errorf("failed to build header: %w", err)
	}

	headerService, err := service.NewHeaderService(bar, a.cache, time.Duration(a.cfg.CacheTTL)*time.Second)
	if err != nil {
		return fmt.Errorf("failed to initialize header service: %w", err)
	}

	a.headerBar = bar
	a.headerService = headerService
	return nil
}

// initWarmup keeps the shared header cache populated so that requests rarely
// render the header themselves.
func (a *Application) initWarmup() {
	if !a.cache.Enabled() {
		return
	}

	pruneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := a.headerService.Prune(pruneCtx); err != nil {
		logger.Warn("Failed to prune stale header cache entries", map[string]interface{}{"error": err.Error()})
	}
	cancel()

	a.scheduler = background.NewScheduler(1, 4)
	a.scheduler.Start(context.Background())

	job := background.Job{
		Name:    "header-cache-warmup",
		Run:     a.headerService.Warm,
		Timeout: 10 * time.Second,
		Retries: 2,
		Backoff: time.Second,
	}

	ttl := time.Duration(a.cfg.CacheTTL) * time.Second
	var err error
	if ttl > 0 {
		err = a.scheduler.Every(job, ttl/2)
	} else {
		err = a.scheduler.Schedule(job)
	}
	if err != nil {
		logger.Error(err, "Failed to schedule header cache warmup", nil)
	}
}

func (a *Application) initHandlers() error {
	versions, err := utils.AssetVersions(a.options.Static, "/static")
	if err != nil {
		return fmt.Errorf("failed to fingerprint static assets: %w", err)
	}

	templates, err := utils.LoadTemplates(a.options.Templates, utils.GetTemplateFuncs(func(path string) string {
		return versions[path]
	}))
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	logger.Info("Templates loaded successfully", map[string]interface{}{"templates": len(templates.Templates())})

	templateHandler, err := handlers.NewTemplateHandler(a.headerService, a.cfg, templates)
	if err != nil {
		return fmt.Errorf("failed to initialize template handler: %w", err)
	}

	a.templateHandler = templateHandler
	a.headerHandler = handlers.NewHeaderHandler(a.headerService)
	return nil
}

func (a *Application) initRouter() error {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(logger.GinLogger())
	if a.cfg.EnableMetrics {
		router.Use(middleware.MetricsMiddleware())
	}
	router.Use(middleware.SecurityHeadersMiddleware(a.cfg.WalletScriptURL))
	if !a.cfg.IsProduction() {
		router.Use(middleware.NoIndexMiddleware())
	}

	if a.cfg.RateLimitRequests > 0 {
		a.rateLimiter = middleware.NewRateLimitManager(context.Background())
		router.Use(middleware.RateLimitMiddleware(a.cfg, a.rateLimiter))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	if a.cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	if dir := strings.TrimSpace(a.cfg.StaticDir); dir != "" {
		router.Static("/static", dir)
	} else {
		router.StaticFS("/static", http.FS(a.options.Static))
	}

	router.GET("/header", a.headerHandler.Fragment)

	pages := make(map[string]struct{})
	for _, route := range a.headerService.Routes() {
		if isReservedPath(route.Path) {
			return fmt.Errorf("header destination %q collides with a built-in route", route.Path)
		}
		router.GET(route.Path, a.templateHandler.RenderRoute(route))
		pages[route.Path] = struct{}{}
	}
	if _, ok := pages["/"]; !ok {
		home := a.headerService.Navigation().Logo.Href
		router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusFound, home)
		})
	}

	corsConfig := cors.Config{
		AllowOrigins:  a.cfg.CORSOrigins,
		AllowMethods:  []string{"GET", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "If-None-Match"},
		ExposeHeaders: []string{"Content-Length", "ETag"},
		MaxAge:        12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	}

	v1 := router.Group("/api/v1")
	v1.Use(cors.New(corsConfig))
	{
		v1.GET("/navigation", a.headerHandler.Navigation)
		v1.GET("/header", a.headerHandler.Fragment)
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Route not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		a.templateHandler.RenderNotFound(c)
	})

	a.router = router
	return nil
}

// isReservedPath reports whether path belongs to the server itself rather
// than to a header page.
func isReservedPath(path string) bool {
	switch path {
	case "/header", "/health", "/metrics", "/static", "/api":
		return true
	}
	return strings.HasPrefix(path, "/static/") || strings.HasPrefix(path, "/api/")
}
