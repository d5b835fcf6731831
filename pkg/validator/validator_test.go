package validator

import "testing"

func TestValidateDestination(t *testing.T) {
	cases := []struct {
		value    string
		expected bool
	}{
		{"/intro", true},
		{"/Pools", true},
		{"#", true},
		{"https://scroll.io/alpha/bridge", true},
		{"http://localhost:8080/otc", true},
		{"", false},
		{"otc", false},
		{"//evil.example", false},
		{"javascript:alert(1)", false},
		{"ftp://example.com/file", false},
		{"/with space", false},
		{"/otc?ref=banner", false},
		{"/pools/:id", false},
	}

	for _, tc := range cases {
		if got := ValidateDestination(tc.value); got != tc.expected {
			t.Errorf("ValidateDestination(%q) = %v, expected %v", tc.value, got, tc.expected)
		}
	}
}

func TestValidateImageExtension(t *testing.T) {
	if !ValidateImageExtension("/static/images/logo.svg") {
		t.Errorf("expected svg logo to be accepted")
	}
	if !ValidateImageExtension("/static/images/LOGO.PNG?v=3") {
		t.Errorf("expected png with query to be accepted")
	}
	if ValidateImageExtension("/static/app.js") {
		t.Errorf("expected script path to be rejected")
	}
}

func TestSanitizeString(t *testing.T) {
	got := SanitizeString("  <b>Scroll's</b>   Alpha <script>x()</script>Testnet ")
	if got != "Scroll's Alpha Testnet" {
		t.Fatalf("unexpected sanitized value %q", got)
	}
}

type sample struct {
	Label string `validate:"required,no_html"`
	Path  string `validate:"required,destination"`
	Image string `validate:"image_path"`
}

func TestValidateStruct(t *testing.T) {
	valid := sample{Label: "Otc", Path: "/otc", Image: "/static/images/logo.svg"}
	if err := Validate(valid); err != nil {
		t.Fatalf("expected valid struct, got %v", err)
	}

	invalid := []sample{
		{Label: "<b>Otc</b>", Path: "/otc", Image: "/static/images/logo.svg"},
		{Label: "Otc", Path: "otc", Image: "/static/images/logo.svg"},
		{Label: "Otc", Path: "/otc", Image: "logo.svg"},
		{Label: "", Path: "/otc", Image: "/static/images/logo.svg"},
	}
	for i, s := range invalid {
		if err := Validate(s); err == nil {
			t.Errorf("case %d: expected validation error for %+v", i, s)
		}
	}
}
