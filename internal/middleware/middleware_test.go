package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"scroll-otc-web/internal/config"
	"scroll-otc-web/pkg/logger"
)

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen interface{}
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/", func(c *gin.Context) {
		seen = logger.FieldsFromContext(c.Request.Context())["request_id"]
		c.Status(http.StatusOK)
	})

	cases := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "Generated", incoming: "", keep: false},
		{name: "Propagated", incoming: "req-123", keep: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.incoming != "" {
				req.Header.Set("X-Request-ID", tc.incoming)
			}
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			got := recorder.Header().Get("X-Request-ID")
			if got == "" {
				t.Fatalf("expected request id header")
			}
			if tc.keep && got != tc.incoming {
				t.Fatalf("expected %s to be propagated, got %s", tc.incoming, got)
			}
			if seen != got {
				t.Fatalf("expected request id in log context, got %v", seen)
			}
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	manager := NewRateLimitManager(context.Background())
	t.Cleanup(func() { _ = manager.Shutdown() })

	cfg := &config.Config{RateLimitRequests: 2, RateLimitWindow: 60}

	router := gin.New()
	router.Use(RateLimitMiddleware(cfg, manager))
	router.GET("/header", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/static/logo.svg", func(c *gin.Context) { c.Status(http.StatusOK) })

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/header", nil))
		statuses = append(statuses, recorder.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Fatalf("expected first two requests to pass, got %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Fatalf("expected third request to be limited, got %v", statuses)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/static/logo.svg", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected static assets to bypass rate limiting, got %d", recorder.Code)
	}
}

func TestRateLimitManagerCleanup(t *testing.T) {
	manager := NewRateLimitManager(context.Background())
	t.Cleanup(func() { _ = manager.Shutdown() })

	if manager.GetVisitor("10.0.0.1", 0, 60, 0) != nil {
		t.Fatalf("expected no limiter when limiting is disabled")
	}
	if manager.GetVisitor("10.0.0.1", 10, 60, 0) == nil {
		t.Fatalf("expected limiter")
	}

	manager.cleanup(time.Now().Add(visitorIdleTimeout + time.Second))

	manager.visitorsMu.Lock()
	remaining := len(manager.visitors)
	manager.visitorsMu.Unlock()
	if remaining != 0 {
		t.Fatalf("expected idle visitor to be removed, %d remain", remaining)
	}
}

func TestNoIndexMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		directives []string
		expected   string
	}{
		{name: "Default", directives: nil, expected: "noindex, nofollow"},
		{name: "Blank", directives: []string{" ", ""}, expected: "noindex, nofollow"},
		{name: "Custom", directives: []string{"noindex", " noarchive "}, expected: "noindex, noarchive"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.Use(NoIndexMiddleware(tc.directives...))
			router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

			if got := recorder.Header().Get("X-Robots-Tag"); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}
