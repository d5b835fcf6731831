package navigation

import "strings"

// Placeholder is the destination used by links that do not lead anywhere yet.
const Placeholder = "#"

// Kind describes how a destination is resolved by the browser.
type Kind string

const (
	KindInternal    Kind = "internal"
	KindExternal    Kind = "external"
	KindPlaceholder Kind = "placeholder"
)

// Item represents a navigation link rendered in the site header. Items are
// plain values; the order of a slice of items is the display order.
type Item struct {
	Label        string `json:"label" yaml:"label" validate:"required,no_html"`
	Path         string `json:"path" yaml:"path" validate:"required,destination"`
	OpenInNewTab bool   `json:"new_tab" yaml:"new_tab"`
}

func (i Item) Kind() Kind {
	path := strings.TrimSpace(i.Path)
	switch {
	case path == "" || path == Placeholder:
		return KindPlaceholder
	case IsExternal(path):
		return KindExternal
	default:
		return KindInternal
	}
}

// Target returns the anchor target attribute, empty for same-tab links.
func (i Item) Target() string {
	if i.OpenInNewTab {
		return "_blank"
	}
	return ""
}

// Rel returns the anchor rel attribute. Links opened in a new browsing context
// never get a handle on the opener.
func (i Item) Rel() string {
	if i.OpenInNewTab {
		return "noopener noreferrer"
	}
	return ""
}

func IsExternal(path string) bool {
	lower := strings.ToLower(strings.TrimSpace(path))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// DefaultItems returns the header links of the OTC frontend in display order.
// A fresh slice is returned on every call.
func DefaultItems() []Item {
	return []Item{
		{Label: "Otc", Path: "/otc"},
		{Label: "Pool", Path: "/Pools"},
		{Label: "Launch", Path: Placeholder},
		{Label: "Protfolio", Path: Placeholder},
		{Label: "Bridge", Path: "https://scroll.io/alpha/bridge", OpenInNewTab: true},
	}
}

// Clone copies items so callers cannot mutate a shared backing array.
func Clone(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
