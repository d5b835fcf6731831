package navigation

import "testing"

func TestItemKind(t *testing.T) {
	cases := []struct {
		name     string
		path     string
		expected Kind
	}{
		{name: "Route", path: "/otc", expected: KindInternal},
		{name: "Placeholder", path: "#", expected: KindPlaceholder},
		{name: "Empty", path: "  ", expected: KindPlaceholder},
		{name: "HTTPS", path: "https://scroll.io/alpha/bridge", expected: KindExternal},
		{name: "Uppercase scheme", path: "HTTP://example.com", expected: KindExternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := (Item{Label: "x", Path: tc.path}).Kind(); got != tc.expected {
				t.Fatalf("expected kind %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestDefaultItemsOrderAndPolicy(t *testing.T) {
	items := DefaultItems()

	expected := []struct {
		label  string
		path   string
		newTab bool
	}{
		{"Otc", "/otc", false},
		{"Pool", "/Pools", false},
		{"Launch", "#", false},
		{"Protfolio", "#", false},
		{"Bridge", "https://scroll.io/alpha/bridge", true},
	}

	if len(items) != len(expected) {
		t.Fatalf("expected %d items, got %d", len(expected), len(items))
	}

	for i, want := range expected {
		got := items[i]
		if got.Label != want.label || got.Path != want.path || got.OpenInNewTab != want.newTab {
			t.Errorf("item %d: expected %+v, got %+v", i, want, got)
		}
	}
}

func TestTargetAndRel(t *testing.T) {
	external := Item{Label: "Bridge", Path: "https://scroll.io/alpha/bridge", OpenInNewTab: true}
	if external.Target() != "_blank" {
		t.Fatalf("expected _blank target, got %q", external.Target())
	}
	if external.Rel() == "" {
		t.Fatalf("expected rel to be set for new tab links")
	}

	internal := Item{Label: "Otc", Path: "/otc"}
	if internal.Target() != "" || internal.Rel() != "" {
		t.Fatalf("expected same-tab link to have no target or rel, got %q %q", internal.Target(), internal.Rel())
	}
}

func TestDefaultItemsReturnsFreshSlice(t *testing.T) {
	first := DefaultItems()
	first[0].Label = "changed"

	if DefaultItems()[0].Label != "Otc" {
		t.Fatalf("expected DefaultItems to be unaffected by caller mutation")
	}
}

func TestClone(t *testing.T) {
	if Clone(nil) != nil {
		t.Fatalf("expected nil clone of nil slice")
	}

	original := DefaultItems()
	cloned := Clone(original)
	cloned[1].Path = "/elsewhere"

	if original[1].Path != "/Pools" {
		t.Fatalf("expected original to be untouched, got %s", original[1].Path)
	}
}
