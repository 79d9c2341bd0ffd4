package codegen

import (
	"testing"

	"github.com/maboudharam/openbento/internal/codegen/tsx"
	"github.com/maboudharam/openbento/internal/site"
)

func TestFormatFollowers(t *testing.T) {
	cases := map[int64]string{
		-5:            "0",
		0:             "0",
		950:           "950",
		1_000:         "1K",
		1_234:         "1.2K",
		15_000:        "15K",
		999_949:       "999.9K",
		999_950:       "1M",
		3_400_000:     "3.4M",
		1_500_000_000: "1500M",
	}
	for n, want := range cases {
		if got := FormatFollowers(n); got != want {
			t.Fatalf("FormatFollowers(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestCSSURL(t *testing.T) {
	got := CSSURL("https://a.example/x\"y\\z\n")
	want := `url("https://a.example/x\"y\\z\a ")`
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestAvatarStyle(t *testing.T) {
	cases := []struct {
		name  string
		style *site.AvatarStyle
		want  string
	}{
		{
			name: "default frame",
			want: `{ borderRadius: "1.5rem", boxShadow: "0 25px 50px -12px rgba(0,0,0,0.15)", border: "4px solid #ffffff" }`,
		},
		{
			name:  "circle without shadow or border",
			style: &site.AvatarStyle{Shape: site.AvatarCircle, Shadow: site.Bool(false), Border: site.Bool(false)},
			want:  `{ borderRadius: "9999px", boxShadow: "none", border: "none" }`,
		},
		{
			name:  "square with custom border",
			style: &site.AvatarStyle{Shape: site.AvatarSquare, BorderColor: "#000", BorderWidth: 2.5},
			want:  `{ borderRadius: "0", boxShadow: "0 25px 50px -12px rgba(0,0,0,0.15)", border: "2.5px solid #000" }`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tsx.Source(avatarStyle(site.Profile{AvatarStyle: tc.style}))
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestResolveAnalytics(t *testing.T) {
	if resolveAnalytics(site.Profile{}, "x") != nil {
		t.Fatalf("expected nil config without analytics")
	}
	incomplete := site.Profile{Analytics: &site.Analytics{Enabled: true, EndpointURL: "https://a.co"}}
	if resolveAnalytics(incomplete, "x") != nil {
		t.Fatalf("expected nil config without api key")
	}

	ready := site.Profile{Analytics: &site.Analytics{Enabled: true, EndpointURL: "https://a.co/", APIKey: "k"}}
	cfg := resolveAnalytics(ready, "")
	if cfg == nil || cfg.SiteID != "" || cfg.Endpoint != "https://a.co/rest/v1/openbento_analytics_events" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}
