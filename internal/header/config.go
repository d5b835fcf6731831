package header

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"scroll-otc-web/pkg/navigation"
	"scroll-otc-web/pkg/validator"
)

const (
	DefaultBanner   = "Scroll's Alpha Testnet is now live."
	DefaultLogoSrc  = "/static/images/logo.svg"
	DefaultLogoHref = "/intro"
	DefaultLogoSize = 32
	DefaultLogoAlt  = "Logo"
)

// Logo describes the square image rendered at the start of the navigation row.
type Logo struct {
	Src  string `json:"src" yaml:"src" validate:"required,image_path"`
	Href string `json:"href" yaml:"href" validate:"required,destination"`
	Alt  string `json:"alt" yaml:"alt" validate:"no_html"`
	Size int    `json:"size" yaml:"size" validate:"gt=0,lte=256"`
}

// Config is everything a HeaderBar renders. It is read once and never mutated
// by the bar.
type Config struct {
	Banner string            `json:"banner" yaml:"banner" validate:"required"`
	Logo   Logo              `json:"logo" yaml:"logo"`
	Links  []navigation.Item `json:"links" yaml:"links" validate:"dive"`
}

func DefaultConfig() Config {
	return Config{
		Banner: DefaultBanner,
		Logo: Logo{
			Src:  DefaultLogoSrc,
			Href: DefaultLogoHref,
			Alt:  DefaultLogoAlt,
			Size: DefaultLogoSize,
		},
		Links: navigation.DefaultItems(),
	}
}

// LoadConfig reads a YAML header definition from path. Fields left out of the
// file keep their default values; a links list, when present, replaces the
// default list entirely.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read header config %s: %w", path, err)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (Config, error) {
	var raw struct {
		Banner *string            `yaml:"banner"`
		Logo   *Logo              `yaml:"logo"`
		Links  *[]navigation.Item `yaml:"links"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse header config: %w", err)
	}

	cfg := DefaultConfig()
	if raw.Banner != nil {
		cfg.Banner = *raw.Banner
	}
	if raw.Logo != nil {
		if v := strings.TrimSpace(raw.Logo.Src); v != "" {
			cfg.Logo.Src = v
		}
		if v := strings.TrimSpace(raw.Logo.Href); v != "" {
			cfg.Logo.Href = v
		}
		if v := strings.TrimSpace(raw.Logo.Alt); v != "" {
			cfg.Logo.Alt = v
		}
		if raw.Logo.Size != 0 {
			cfg.Logo.Size = raw.Logo.Size
		}
	}
	if raw.Links != nil {
		cfg.Links = *raw.Links
	}

	cfg = cfg.normalized()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid field of the configuration.
func (c Config) Validate() error {
	if err := validator.Validate(c); err != nil {
		return fmt.Errorf("invalid header config: %w", err)
	}
	return nil
}

func (c Config) normalized() Config {
	c.Banner = validator.SanitizeString(c.Banner)
	c.Logo.Src = strings.TrimSpace(c.Logo.Src)
	c.Logo.Href = strings.TrimSpace(c.Logo.Href)
	c.Logo.Alt = strings.TrimSpace(c.Logo.Alt)

	links := make([]navigation.Item, len(c.Links))
	for i, item := range c.Links {
		item.Label = strings.TrimSpace(item.Label)
		item.Path = strings.TrimSpace(item.Path)
		links[i] = item
	}
	c.Links = links
	return c
}
