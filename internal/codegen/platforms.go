package codegen

import (
	"strings"

	"github.com/maboudharam/openbento/internal/codegen/tsx"
	"github.com/maboudharam/openbento/internal/site"
)

const (
	iconPackageSimple = "react-icons/si"
	iconPackageLucide = "lucide-react"

	handleToken = "{handle}"
)

// Platform describes how a social network is drawn and linked.
type Platform struct {
	ID         site.SocialPlatform
	Icon       string
	IconImport string
	// IconPackage is the module the icon is imported from.
	IconPackage string
	BrandColor  string
	// URL is a profile URL template containing {handle}. An empty template
	// uses the handle as the URL.
	URL string
	// PrefixScheme adds https:// to handles that do not already carry one.
	PrefixScheme bool
}

var platforms = []Platform{
	simple("x", "SiX", "#000000", "https://x.com/{handle}"),
	simple("instagram", "SiInstagram", "#E4405F", "https://instagram.com/{handle}"),
	simple("tiktok", "SiTiktok", "#000000", "https://tiktok.com/@{handle}"),
	simple("youtube", "SiYoutube", "#FF0000", "https://youtube.com/@{handle}"),
	simple("github", "SiGithub", "#181717", "https://github.com/{handle}"),
	simple("gitlab", "SiGitlab", "#FC6D26", "https://gitlab.com/{handle}"),
	simple("linkedin", "SiLinkedin", "#0A66C2", "https://linkedin.com/in/{handle}"),
	simple("facebook", "SiFacebook", "#1877F2", "https://facebook.com/{handle}"),
	simple("twitch", "SiTwitch", "#9146FF", "https://twitch.tv/{handle}"),
	simple("dribbble", "SiDribbble", "#EA4C89", "https://dribbble.com/{handle}"),
	simple("medium", "SiMedium", "#000000", "https://medium.com/@{handle}"),
	simple("devto", "SiDevdotto", "#0A0A0A", "https://dev.to/{handle}"),
	simple("reddit", "SiReddit", "#FF4500", "https://reddit.com/user/{handle}"),
	simple("pinterest", "SiPinterest", "#BD081C", "https://pinterest.com/{handle}"),
	simple("threads", "SiThreads", "#000000", "https://threads.net/@{handle}"),
	simple("bluesky", "SiBluesky", "#0085FF", "https://bsky.app/profile/{handle}"),
	simple("mastodon", "SiMastodon", "#6364FF", ""),
	simple("substack", "SiSubstack", "#FF6719", "https://{handle}.substack.com"),
	simple("patreon", "SiPatreon", "#FF424D", "https://patreon.com/{handle}"),
	simple("kofi", "SiKofi", "#FF5E5B", "https://ko-fi.com/{handle}"),
	simple("buymeacoffee", "SiBuymeacoffee", "#FFDD00", "https://buymeacoffee.com/{handle}"),
	simple("snapchat", "SiSnapchat", "#FFFC00", "https://snapchat.com/add/{handle}"),
	simple("discord", "SiDiscord", "#5865F2", ""),
	simple("telegram", "SiTelegram", "#26A5E4", "https://t.me/{handle}"),
	simple("whatsapp", "SiWhatsapp", "#25D366", "https://wa.me/{handle}"),
	{ID: "website", Icon: "Globe", IconImport: "Globe", IconPackage: iconPackageLucide, BrandColor: "#6B7280", URL: "", PrefixScheme: true},
	{ID: "custom", Icon: "LinkIcon", IconImport: "Link as LinkIcon", IconPackage: iconPackageLucide, BrandColor: "#6B7280"},
}

// FallbackPlatform is used for social icons without a known platform.
const FallbackPlatform site.SocialPlatform = "custom"

func simple(id, icon, color, url string) Platform {
	return Platform{
		ID:          site.SocialPlatform(id),
		Icon:        icon,
		IconImport:  icon,
		IconPackage: iconPackageSimple,
		BrandColor:  color,
		URL:         url,
	}
}

// Platforms returns the supported social platforms in display order.
func Platforms() []Platform {
	return append([]Platform(nil), platforms...)
}

// LookupPlatform finds a platform by id.
func LookupPlatform(id site.SocialPlatform) (Platform, bool) {
	for _, platform := range platforms {
		if platform.ID == id {
			return platform, true
		}
	}
	return Platform{}, false
}

// ProfileURL builds the canonical profile URL for handle.
func (p Platform) ProfileURL(handle string) string {
	if p.URL == "" {
		if p.PrefixScheme && !strings.HasPrefix(handle, "http") {
			return "https://" + handle
		}
		return handle
	}
	return strings.ReplaceAll(p.URL, handleToken, handle)
}

// builder renders ProfileURL as a TypeScript arrow over the handle h. Template
// text is emitted as string literals so no template syntax can leak through.
func (p Platform) builder() tsx.Expr {
	if p.URL == "" {
		if p.PrefixScheme {
			return tsx.Arrow{Params: "h: string", Body: tsx.Code(`h.startsWith("http") ? h : "https://" + h`)}
		}
		return tsx.Arrow{Params: "h: string", Body: tsx.Code("h")}
	}
	var parts tsx.Concat
	rest := p.URL
	for {
		idx := strings.Index(rest, handleToken)
		if idx < 0 {
			break
		}
		if idx > 0 {
			parts = append(parts, tsx.Str(rest[:idx]))
		}
		parts = append(parts, tsx.Code("h"))
		rest = rest[idx+len(handleToken):]
	}
	if rest != "" {
		parts = append(parts, tsx.Str(rest))
	}
	return tsx.Arrow{Params: "h: string", Body: parts}
}

// platformImports groups icon imports per package, preserving table order.
func platformImports() []tsx.Import {
	var simpleNames, lucideNames []string
	for _, platform := range platforms {
		switch platform.IconPackage {
		case iconPackageSimple:
			simpleNames = append(simpleNames, platform.IconImport)
		case iconPackageLucide:
			lucideNames = append(lucideNames, platform.IconImport)
		}
	}
	return []tsx.Import{
		{From: iconPackageSimple, Names: simpleNames},
		{From: iconPackageLucide, Names: append([]string{"Youtube", "Play", "Loader2"}, lucideNames...)},
	}
}

// platformTable renders the SOCIAL_PLATFORMS lookup object.
func platformTable() tsx.Stmt {
	table := make(tsx.ObjectBlock, len(platforms))
	for i, platform := range platforms {
		table[i] = tsx.Prop{Key: string(platform.ID), Value: tsx.Object{
			{Key: "icon", Value: tsx.Code(platform.Icon)},
			{Key: "brandColor", Value: tsx.Str(platform.BrandColor)},
			{Key: "buildUrl", Value: platform.builder()},
		}}
	}
	return tsx.Const{Name: "SOCIAL_PLATFORMS", Type: "Record<string, PlatformConfig>", Value: table}
}

func platformIDs() []string {
	ids := make([]string, len(platforms))
	for i, platform := range platforms {
		ids[i] = string(platform.ID)
	}
	return ids
}
