package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"scroll-otc-web/internal/header"
	"scroll-otc-web/pkg/cache"
	"scroll-otc-web/pkg/logger"
	"scroll-otc-web/pkg/navigation"
)

var (
	headerRendersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "header_renders_total",
		Help: "Number of times the site header was rendered.",
	})
	headerCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "header_cache_lookups_total",
		Help: "Header fragment cache lookups by result.",
	}, []string{"result"})
)

const headerKeyPrefix = "header:"

// Fragment is a rendered header together with its validator.
type Fragment struct {
	HTML []byte
	ETag string
}

type LinkView struct {
	Label  string          `json:"label"`
	Path   string          `json:"path"`
	Kind   navigation.Kind `json:"kind"`
	Target string          `json:"target,omitempty"`
	Rel    string          `json:"rel,omitempty"`
}

type NavigationView struct {
	Banner string      `json:"banner"`
	Logo   header.Logo `json:"logo"`
	Links  []LinkView  `json:"links"`
}

type HeaderService struct {
	bar         *header.HeaderBar
	cache       *cache.Cache
	ttl         time.Duration
	fingerprint string
}

func NewHeaderService(bar *header.HeaderBar, cacheService *cache.Cache, ttl time.Duration) (*HeaderService, error) {
	if bar == nil {
		return nil, errors.New("header bar is required")
	}

	markup, err := bar.HTML()
	if err != nil {
		return nil, err
	}

	return &HeaderService{
		bar:         bar,
		cache:       cacheService,
		ttl:         ttl,
		fingerprint: fingerprint(markup),
	}, nil
}

// Fingerprint identifies the rendered header. Rendering is deterministic, so
// it only changes with the configuration or the wallet widget.
func (s *HeaderService) Fingerprint() string {
	return s.fingerprint
}

// Fragment returns the rendered header, served from the cache when one is
// configured. Cache failures fall back to a fresh render.
func (s *HeaderService) Fragment(ctx context.Context) (Fragment, error) {
	key := s.cacheKey()
	etag := strconv.Quote(s.fingerprint)

	if s.cache.Enabled() {
		markup, err := s.cache.GetCachedFragment(ctx, key)
		switch {
		case err == nil:
			headerCacheLookups.WithLabelValues("hit").Inc()
			return Fragment{HTML: markup, ETag: etag}, nil
		case errors.Is(err, cache.ErrCacheMiss):
			headerCacheLookups.WithLabelValues("miss").Inc()
		default:
			headerCacheLookups.WithLabelValues("error").Inc()
			logger.WithContext(ctx).WithError(err).Warn("Failed to read cached header")
		}
	}

	markup, err := s.bar.HTML()
	if err != nil {
		return Fragment{}, err
	}
	headerRendersTotal.Inc()

	if s.cache.Enabled() {
		if err := s.cache.CacheFragment(ctx, key, markup, s.ttl); err != nil {
			logger.WithContext(ctx).WithError(err).Warn("Failed to cache header")
		}
	}

	return Fragment{HTML: markup, ETag: etag}, nil
}

// Warm renders the header and stores it in the cache, replacing any entry
// that is about to expire.
func (s *HeaderService) Warm(ctx context.Context) error {
	if !s.cache.Enabled() {
		return nil
	}

	markup, err := s.bar.HTML()
	if err != nil {
		return err
	}
	headerRendersTotal.Inc()

	return s.cache.CacheFragment(ctx, s.cacheKey(), markup, s.ttl)
}

// Prune drops cached headers rendered from an older configuration.
func (s *HeaderService) Prune(ctx context.Context) error {
	return s.cache.InvalidateFragments(ctx, headerKeyPrefix, s.cacheKey())
}

func (s *HeaderService) cacheKey() string {
	return headerKeyPrefix + s.fingerprint
}

func (s *HeaderService) Navigation() NavigationView {
	cfg := s.bar.Config()

	links := make([]LinkView, 0, len(cfg.Links))
	for _, item := range cfg.Links {
		links = append(links, LinkView{
			Label:  item.Label,
			Path:   item.Path,
			Kind:   item.Kind(),
			Target: item.Target(),
			Rel:    item.Rel(),
		})
	}

	return NavigationView{
		Banner: cfg.Banner,
		Logo:   cfg.Logo,
		Links:  links,
	}
}

// Routes lists the distinct internal destinations of the header, logo first.
// The logo route carries no label.
func (s *HeaderService) Routes() []navigation.Item {
	cfg := s.bar.Config()

	seen := make(map[string]struct{}, len(cfg.Links)+1)
	routes := make([]navigation.Item, 0, len(cfg.Links)+1)

	add := func(item navigation.Item) {
		if item.Kind() != navigation.KindInternal {
			return
		}
		if _, ok := seen[item.Path]; ok {
			return
		}
		seen[item.Path] = struct{}{}
		routes = append(routes, item)
	}

	add(navigation.Item{Path: cfg.Logo.Href})
	for _, item := range cfg.Links {
		add(item)
	}
	return routes
}

func fingerprint(markup []byte) string {
	return strconv.FormatUint(xxhash.Sum64(markup), 16)
}
