package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	// Server
	Port        string
	Environment string
	LogLevel    string

	// CORS
	CORSOrigins []string

	// Redis
	EnableRedis bool
	RedisURL    string

	// Rate Limiting
	RateLimitRequests int
	RateLimitWindow   int
	RateLimitBurst    int

	// Features
	EnableCache   bool
	EnableMetrics bool
	CacheTTL      int

	// Site Meta
	SiteName     string
	SiteLanguage string
	StaticDir    string

	// Header
	HeaderConfigFile string

	// Wallet widget
	WalletProvider  string
	WalletScriptURL string
	WalletTheme     string
	WalletMode      string
}

func New() *Config {
	c := &Config{
		// Server
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "debug"),

		// CORS
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080")),

		// Redis
		EnableRedis: getEnvAsBool("ENABLE_REDIS", false),
		RedisURL:    getEnv("REDIS_URL", "localhost:6379"),

		// Rate Limiting
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   getEnvAsInt("RATE_LIMIT_WINDOW", 60),
		RateLimitBurst:    getEnvAsInt("RATE_LIMIT_BURST", 0),

		// Features
		EnableCache:   getEnvAsBool("ENABLE_CACHE", true),
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
		CacheTTL:      getEnvAsInt("CACHE_TTL_SECONDS", 300),

		// Site Meta
		SiteName:     getEnv("SITE_NAME", "Scroll OTC"),
		SiteLanguage: getEnv("SITE_LANGUAGE", "en"),
		StaticDir:    getEnv("STATIC_DIR", ""),

		// Header
		HeaderConfigFile: getEnv("HEADER_CONFIG_FILE", ""),

		// Wallet widget
		WalletProvider:  getEnv("WALLET_PROVIDER", "connectkit"),
		WalletScriptURL: getEnv("WALLET_SCRIPT_URL", ""),
		WalletTheme:     getEnv("WALLET_THEME", "auto"),
		WalletMode:      getEnv("WALLET_MODE", "auto"),
	}

	if c.CacheTTL < 0 {
		c.CacheTTL = 0
	}

	return c
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var value int
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return valueStr == "true" || valueStr == "1"
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
