package header

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseConfigKeepsDefaultsForMissingFields(t *testing.T) {
	cfg, err := ParseConfig([]byte("banner: \"Mainnet soon\"\n"))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	if cfg.Banner != "Mainnet soon" {
		t.Errorf("expected banner override, got %q", cfg.Banner)
	}
	if cfg.Logo.Href != DefaultLogoHref || cfg.Logo.Size != DefaultLogoSize {
		t.Errorf("expected default logo, got %+v", cfg.Logo)
	}
	if len(cfg.Links) != 5 {
		t.Errorf("expected default links, got %d", len(cfg.Links))
	}
}

func TestParseConfigReplacesLinks(t *testing.T) {
	data := []byte(`
logo:
  src: /static/images/mark.png
  size: 40
links:
  - label: Swap
    path: /swap
  - label: Docs
    path: https://docs.example.com
    new_tab: true
`)

	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	if cfg.Banner != DefaultBanner {
		t.Errorf("expected default banner, got %q", cfg.Banner)
	}
	if cfg.Logo.Src != "/static/images/mark.png" || cfg.Logo.Size != 40 || cfg.Logo.Href != DefaultLogoHref {
		t.Errorf("unexpected logo %+v", cfg.Logo)
	}
	if len(cfg.Links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(cfg.Links))
	}
	if cfg.Links[0].Label != "Swap" || cfg.Links[0].OpenInNewTab {
		t.Errorf("unexpected first link %+v", cfg.Links[0])
	}
	if cfg.Links[1].Path != "https://docs.example.com" || !cfg.Links[1].OpenInNewTab {
		t.Errorf("unexpected second link %+v", cfg.Links[1])
	}
}

func TestParseConfigEmptyLinkList(t *testing.T) {
	cfg, err := ParseConfig([]byte("links: []\n"))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if len(cfg.Links) != 0 {
		t.Fatalf("expected explicit empty list to be kept, got %d links", len(cfg.Links))
	}
}

func TestParseConfigRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"malformed yaml":   "links: [",
		"bad destination":  "links:\n  - label: Otc\n    path: otc\n",
		"html in label":    "links:\n  - label: \"<b>Otc</b>\"\n    path: /otc\n",
		"non image logo":   "logo:\n  src: /static/app.js\n",
		"oversized logo":   "logo:\n  size: 1024\n",
		"banner only html": "banner: \"<script>alert(1)</script>\"\n",
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(data)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "header.yaml")
	if err := os.WriteFile(path, []byte("banner: \"From file\"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Banner != "From file" {
		t.Fatalf("expected banner from file, got %q", cfg.Banner)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestParseConfigBannerEntities(t *testing.T) {
	cfg, err := ParseConfig([]byte("banner: \"Fees &lt; 0.1% &amp; rising\"\n"))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Banner != "Fees < 0.1% & rising" {
		t.Fatalf("unexpected banner %q", cfg.Banner)
	}
}
