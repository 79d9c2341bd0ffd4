package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/maboudharam/openbento/internal/codegen/tsx"
	"github.com/maboudharam/openbento/internal/site"
)

const (
	defaultBackground  = "#f8fafc"
	defaultBorderColor = "#ffffff"
	defaultBorderWidth = 4
	avatarShadow       = "0 25px 50px -12px rgba(0,0,0,0.15)"

	analyticsTable = "/rest/v1/openbento_analytics_events"
)

// FormatFollowers renders a compact follower count: 950, 1.2K, 3.4M.
func FormatFollowers(n int64) string {
	switch {
	case n < 0:
		return "0"
	case n < 1_000:
		return strconv.FormatInt(n, 10)
	case n < 999_950:
		return compact(float64(n)/1_000) + "K"
	default:
		return compact(float64(n)/1_000_000) + "M"
	}
}

func compact(v float64) string {
	return strings.TrimSuffix(strconv.FormatFloat(v, 'f', 1, 64), ".0")
}

// CSSURL wraps ref in a quoted CSS url() with quotes, backslashes and line
// breaks escaped so the value cannot terminate the declaration.
func CSSURL(ref string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\a `, "\r", "")
	return `url("` + replacer.Replace(ref) + `")`
}

// avatarStyle resolves the avatar frame. Missing style means a rounded,
// shadowed, white bordered frame.
func avatarStyle(profile site.Profile) tsx.Object {
	style := site.AvatarStyle{Shape: site.AvatarRounded}
	if profile.AvatarStyle != nil {
		style = *profile.AvatarStyle
	}

	radius := "1.5rem"
	switch style.Shape {
	case site.AvatarCircle:
		radius = "9999px"
	case site.AvatarSquare:
		radius = "0"
	}

	shadow := avatarShadow
	if style.Shadow != nil && !*style.Shadow {
		shadow = "none"
	}

	border := "none"
	if style.Border == nil || *style.Border {
		width := style.BorderWidth
		if width <= 0 {
			width = defaultBorderWidth
		}
		color := style.BorderColor
		if color == "" {
			color = defaultBorderColor
		}
		border = fmt.Sprintf("%spx solid %s", strconv.FormatFloat(width, 'f', -1, 64), color)
	}

	return tsx.Object{
		{Key: "borderRadius", Value: tsx.Str(radius)},
		{Key: "boxShadow", Value: tsx.Str(shadow)},
		{Key: "border", Value: tsx.Str(border)},
	}
}

// pageStyle is the page background: a fixed cover image when one is set,
// otherwise a flat color.
func pageStyle(profile site.Profile) tsx.Object {
	if profile.BackgroundImage != "" {
		return tsx.Object{
			{Key: "backgroundImage", Value: tsx.Str(CSSURL(profile.BackgroundImage))},
			{Key: "backgroundSize", Value: tsx.Str("cover")},
			{Key: "backgroundPosition", Value: tsx.Str("center")},
			{Key: "backgroundAttachment", Value: tsx.Str("fixed")},
		}
	}
	color := profile.BackgroundColor
	if color == "" {
		color = defaultBackground
	}
	return tsx.Object{{Key: "backgroundColor", Value: tsx.Str(color)}}
}

// backgroundBlur returns the blur radius in pixels, or zero when no blur
// overlay should be drawn.
func backgroundBlur(profile site.Profile) float64 {
	if profile.BackgroundImage == "" || profile.BackgroundBlur == nil || *profile.BackgroundBlur <= 0 {
		return 0
	}
	return *profile.BackgroundBlur
}

// headerLink is one social account rendered next to the profile.
type headerLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Label    string `json:"label,omitempty"`
}

func headerLinks(profile site.Profile) []headerLink {
	if !profile.ShowSocialInHeader {
		return nil
	}
	links := make([]headerLink, 0, len(profile.SocialAccounts))
	for _, account := range profile.SocialAccounts {
		platform, ok := LookupPlatform(account.Platform)
		if !ok || strings.TrimSpace(account.Handle) == "" {
			continue
		}
		link := headerLink{Platform: string(platform.ID), URL: platform.ProfileURL(account.Handle)}
		if profile.ShowFollowerCount && account.FollowerCount != nil {
			link.Label = FormatFollowers(*account.FollowerCount)
		}
		links = append(links, link)
	}
	return links
}

// analyticsConfig is the ingestion target baked into the page.
type analyticsConfig struct {
	Endpoint string `json:"endpoint"`
	APIKey   string `json:"apiKey"`
	SiteID   string `json:"siteId"`
}

// resolveAnalytics returns nil when the page should not track anything. The
// site id prefers the export option over the profile setting.
func resolveAnalytics(profile site.Profile, siteID string) *analyticsConfig {
	if !profile.Analytics.Ready() {
		return nil
	}
	if siteID == "" {
		siteID = profile.Analytics.SiteID
	}
	return &analyticsConfig{
		Endpoint: strings.TrimRight(profile.Analytics.EndpointURL, "/") + analyticsTable,
		APIKey:   profile.Analytics.APIKey,
		SiteID:   siteID,
	}
}
