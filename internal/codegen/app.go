package codegen

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/maboudharam/openbento/internal/assets"
	"github.com/maboudharam/openbento/internal/codegen/tsx"
	"github.com/maboudharam/openbento/internal/site"
)

// BrandingURL is the project linked from the attribution footer.
const BrandingURL = "https://github.com/yoanbernabeu/openbento"

const (
	visitorKey     = "_ob_vid"
	engagedSeconds = 10
	engagedScroll  = 25
	maxTiltDegrees = 10
)

// profileView is the subset of the profile the page reads at runtime. Styles
// and header links are precomputed, so nothing else needs to ship.
type profileView struct {
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatarUrl"`
}

// page is the fully resolved view of a site that the renderer is printed from.
type page struct {
	profile    site.Profile
	blocks     []site.Block
	placements []Placement
	order      []int
	header     []headerLink
	analytics  *analyticsConfig
	blur       float64
}

func newPage(data site.SiteData, images assets.ImageMap, ro RenderOptions) page {
	data = data.Clone()

	profile := data.Profile
	profile.AvatarURL = images.Resolve(assets.AvatarKey, profile.AvatarURL)

	blocks := data.Blocks
	if blocks == nil {
		blocks = []site.Block{}
	}
	placements := make([]Placement, len(blocks))
	for i := range blocks {
		if blocks[i].ImageURL != "" {
			blocks[i].ImageURL = images.Resolve(assets.BlockKey(blocks[i].ID), blocks[i].ImageURL)
		}
		placements[i] = PlaceBlock(blocks[i])
	}

	return page{
		profile:    profile,
		blocks:     blocks,
		placements: placements,
		order:      mobileOrder(blocks),
		header:     headerLinks(profile),
		analytics:  resolveAnalytics(profile, ro.SiteID),
		blur:       backgroundBlur(profile),
	}
}

func (g *Generator) file(p page) tsx.File {
	file := tsx.File{
		Header: tsx.Comment{
			"Generated by OpenBento. Re-export the bento instead of editing this file;",
			"changes made here are overwritten by the next export.",
		},
		Imports: g.imports(),
	}

	body := []tsx.Stmt{tsx.Comment{"Types"}}
	body = append(body, typeDecls(p)...)
	body = append(body, tsx.Blank{}, tsx.Comment{"Runtime settings"})
	body = append(body, g.settings(p)...)
	body = append(body,
		tsx.Blank{}, tsx.Comment{"Social platforms"}, platformTable(),
		tsx.Blank{}, tsx.Comment{"Tilt effect"}, runtimeSource("tilt.tsx"),
		tsx.Blank{}, tsx.Comment{"Channel feed"}, runtimeSource("youtube.tsx"),
		tsx.Blank{}, tsx.Comment{"Blocks"}, runtimeSource("block.tsx"),
	)
	if p.analytics != nil {
		body = append(body, tsx.Blank{}, tsx.Comment{"Analytics"}, runtimeSource("analytics.tsx"))
	}
	body = append(body, tsx.Blank{}, tsx.Comment{"Site data"})
	body = append(body, dataDecls(p)...)
	body = append(body, tsx.Blank{}, appComponent(p))

	file.Body = body
	return file
}

func (g *Generator) imports() []tsx.Import {
	imports := []tsx.Import{
		{From: "react", Names: []string{"useState", "useEffect", "useRef", "useCallback"}},
		{From: "react", Names: []string{"CSSProperties", "MouseEvent as ReactMouseEvent"}, TypeOnly: true},
	}
	imports = append(imports, platformImports()...)
	imports = append(imports,
		tsx.Import{From: "react-icons", Names: []string{"IconType"}, TypeOnly: true},
		tsx.Import{From: "lucide-react", Names: []string{"LucideIcon"}, TypeOnly: true},
	)
	return imports
}

func typeDecls(p page) []tsx.Stmt {
	types := make([]string, 0, len(site.BlockTypes()))
	for _, t := range site.BlockTypes() {
		types = append(types, string(t))
	}
	decls := []tsx.Stmt{
		tsx.Enum{Name: "BlockType", Members: types},
		tsx.Blank{},
		tsx.Union{Name: "SocialPlatform", Values: platformIDs()},
		tsx.Blank{},
		tsx.Interface{Name: "Video", Fields: []tsx.Field{
			{Name: "id", Type: "string"},
			{Name: "title", Type: "string"},
			{Name: "thumbnail", Type: "string"},
		}},
		tsx.Blank{},
		tsx.Interface{Name: "BlockData", Fields: blockFields},
		tsx.Blank{},
		tsx.Interface{Name: "Placement", Fields: []tsx.Field{
			{Name: "radius", Type: "string"},
			{Name: "desktop", Type: "CSSProperties"},
			{Name: "mobile", Type: "{ colSpan: number; rowSpan: number }"},
		}},
		tsx.Blank{},
		tsx.Interface{Name: "PlatformConfig", Fields: []tsx.Field{
			{Name: "icon", Type: "IconType | LucideIcon"},
			{Name: "brandColor", Type: "string"},
			{Name: "buildUrl", Type: "(h: string) => string"},
		}},
	}
	if len(p.header) > 0 {
		decls = append(decls, tsx.Blank{}, tsx.Interface{Name: "HeaderLink", Fields: []tsx.Field{
			{Name: "platform", Type: "string"},
			{Name: "url", Type: "string"},
			{Name: "label", Type: "string", Optional: true},
		}})
	}
	if p.analytics != nil {
		decls = append(decls, tsx.Blank{}, tsx.Interface{Name: "AnalyticsConfig", Fields: []tsx.Field{
			{Name: "endpoint", Type: "string"},
			{Name: "apiKey", Type: "string"},
			{Name: "siteId", Type: "string"},
		}})
	}
	return decls
}

var blockFields = []tsx.Field{
	{Name: "id", Type: "string"},
	{Name: "type", Type: "BlockType"},
	{Name: "title", Type: "string", Optional: true},
	{Name: "content", Type: "string", Optional: true},
	{Name: "subtext", Type: "string", Optional: true},
	{Name: "imageUrl", Type: "string", Optional: true},
	{Name: "mediaPosition", Type: "{ x: number; y: number }", Optional: true},
	{Name: "colSpan", Type: "number"},
	{Name: "rowSpan", Type: "number"},
	{Name: "color", Type: "string", Optional: true},
	{Name: "customBackground", Type: "string", Optional: true},
	{Name: "textColor", Type: "string", Optional: true},
	{Name: "gridColumn", Type: "number", Optional: true},
	{Name: "gridRow", Type: "number", Optional: true},
	{Name: "channelId", Type: "string", Optional: true},
	{Name: "youtubeVideoId", Type: "string", Optional: true},
	{Name: "channelTitle", Type: "string", Optional: true},
	{Name: "youtubeMode", Type: `"single" | "grid" | "list"`, Optional: true},
	{Name: "youtubeVideos", Type: "Video[]", Optional: true},
	{Name: "socialPlatform", Type: "SocialPlatform | (string & {})", Optional: true},
	{Name: "socialHandle", Type: "string", Optional: true},
	{Name: "zIndex", Type: "number", Optional: true},
}

func (g *Generator) settings(p page) []tsx.Stmt {
	decls := []tsx.Stmt{
		tsx.Const{Name: "MAX_TILT_DEG", Value: tsx.Literal{Value: maxTiltDegrees}},
		tsx.Const{Name: "FEED_PROXY", Value: tsx.Str(g.cfg.FeedProxy)},
		tsx.Const{Name: "MAX_FEED_VIDEOS", Value: tsx.Literal{Value: g.cfg.MaxFeedVideos}},
		tsx.Const{Name: "DEFAULT_MAP_LOCATION", Value: tsx.Str(g.cfg.DefaultMapLocation)},
		tsx.Const{Name: "VIDEO_FILE", Value: videoPattern(g.cfg.VideoExtensions)},
	}
	if p.analytics != nil {
		decls = append(decls,
			tsx.Const{Name: "VISITOR_KEY", Value: tsx.Str(visitorKey)},
			tsx.Const{Name: "ENGAGED_SECONDS", Value: tsx.Literal{Value: engagedSeconds}},
			tsx.Const{Name: "ENGAGED_SCROLL", Value: tsx.Literal{Value: engagedScroll}},
		)
	}
	return decls
}

var extensionPattern = regexp.MustCompile(`^[a-z0-9]+$`)

// videoPattern builds the case-insensitive extension regex through the
// RegExp constructor so extensions are never spliced into a regex literal.
func videoPattern(exts []string) tsx.Expr {
	safe := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		if extensionPattern.MatchString(ext) {
			safe = append(safe, ext)
		}
	}
	if len(safe) == 0 {
		return tsx.Code("/$^/")
	}
	pattern := `\.(` + strings.Join(safe, "|") + `)$`
	return tsx.Code("new RegExp(" + tsx.Source(tsx.Str(pattern)) + `, "i")`)
}

func dataDecls(p page) []tsx.Stmt {
	decls := []tsx.Stmt{
		tsx.Const{Name: "profile", Value: tsx.Literal{Value: profileView{
			Name:      p.profile.Name,
			Bio:       p.profile.Bio,
			AvatarURL: p.profile.AvatarURL,
		}, Pretty: true}},
		tsx.Const{Name: "blocks", Type: "BlockData[]", Value: tsx.Literal{Value: p.blocks, Pretty: true}},
		tsx.Const{Name: "placements", Type: "Placement[]", Value: tsx.Literal{Value: p.placements, Pretty: true}},
		tsx.Const{Name: "mobileOrder", Type: "number[]", Value: tsx.Literal{Value: p.order}},
		tsx.Const{Name: "PAGE_STYLE", Type: "CSSProperties", Value: pageStyle(p.profile)},
		tsx.Const{Name: "AVATAR_STYLE", Type: "CSSProperties", Value: avatarStyle(p.profile)},
	}
	if len(p.header) > 0 {
		decls = append(decls, tsx.Const{Name: "headerLinks", Type: "HeaderLink[]", Value: tsx.Literal{Value: p.header, Pretty: true}})
	}
	if p.analytics != nil {
		decls = append(decls, tsx.Const{Name: "ANALYTICS", Type: "AnalyticsConfig", Value: tsx.Literal{Value: p.analytics, Pretty: true}})
	}
	return decls
}

func appComponent(p page) tsx.Stmt {
	var body []tsx.Stmt
	if p.analytics != nil {
		body = append(body, tsx.Line("const trackClick = useAnalytics(ANALYTICS)"), tsx.Blank{})
	}

	var children []tsx.Node
	if p.blur > 0 {
		blur := tsx.Str("blur(" + strconv.FormatFloat(p.blur, 'f', -1, 64) + "px)")
		children = append(children, tsx.El("div", tsx.Attrs(
			tsx.A("className", "fixed inset-0 z-0 pointer-events-none"),
			tsx.AX("style", tsx.Object{{Key: "backdropFilter", Value: blur}, {Key: "WebkitBackdropFilter", Value: blur}}),
		)))
	}

	content := []tsx.Node{
		tsx.El("div", tsx.Attrs(tsx.A("className", "hidden lg:flex")),
			tsx.El("div", tsx.Attrs(tsx.A("className", "fixed left-0 top-0 w-[420px] h-screen flex flex-col justify-center items-start px-12")),
				profileHeader(p, desktopHeader)...),
			tsx.El("div", tsx.Attrs(tsx.A("className", "ml-[420px] flex-1 p-12")),
				tsx.El("div", tsx.Attrs(
					tsx.A("className", "grid"),
					tsx.AX("style", gridStyle(DesktopColumns, DesktopRowHeight, DesktopGap)),
				), &tsx.Map{
					Source: tsx.Code("blocks"),
					Param:  "block, i",
					Body:   blockElement(p, "block", "placements[i]", "desktop", "block.id"),
				}),
			),
		),
		tsx.El("div", tsx.Attrs(tsx.A("className", "lg:hidden")),
			tsx.El("div", tsx.Attrs(tsx.A("className", "p-4 pt-8 flex flex-col items-center text-center")),
				profileHeader(p, mobileHeader)...),
			tsx.El("div", tsx.Attrs(tsx.A("className", "p-4")),
				tsx.El("div", tsx.Attrs(
					tsx.A("className", "grid"),
					tsx.AX("style", gridStyle(MobileColumns, MobileRowHeight, MobileGap)),
				), &tsx.Map{
					Source: tsx.Code("mobileOrder"),
					Param:  "i",
					Body: tsx.El("div", tsx.Attrs(
						tsx.AX("key", tsx.Code("blocks[i].id")),
						tsx.AX("style", tsx.Object{
							{Key: "gridColumn", Value: tsx.Code("`span ${placements[i].mobile.colSpan}`")},
							{Key: "gridRow", Value: tsx.Code("`span ${placements[i].mobile.rowSpan}`")},
						}),
					), blockElement(p, "blocks[i]", "placements[i]", "mobile", "")),
				}),
			),
		),
	}
	if p.profile.BrandingEnabled() {
		content = append(content, footer())
	}

	children = append(children, tsx.El("div", tsx.Attrs(tsx.A("className", "relative z-10")), content...))
	root := tsx.El("div", tsx.Attrs(tsx.A("className", "min-h-screen font-sans"), tsx.AX("style", tsx.Code("PAGE_STYLE"))), children...)

	body = append(body, tsx.Return{Value: root})
	return tsx.Func{Name: "App", Export: true, Default: true, Body: body}
}

func gridStyle(columns, rowHeight, gap int) tsx.Object {
	return tsx.Object{
		{Key: "gridTemplateColumns", Value: tsx.Str(gridTemplate(columns))},
		{Key: "gridAutoRows", Value: tsx.Str(px(rowHeight))},
		{Key: "gap", Value: tsx.Str(px(gap))},
	}
}

func blockElement(p page, block, placement, layout, key string) *tsx.Element {
	attrs := []tsx.Attr{}
	if key != "" {
		attrs = append(attrs, tsx.AX("key", tsx.Code(key)))
	}
	attrs = append(attrs,
		tsx.AX("block", tsx.Code(block)),
		tsx.AX("placement", tsx.Code(placement)),
		tsx.A("layout", layout),
	)
	if p.analytics != nil {
		attrs = append(attrs, tsx.AX("onOpen", tsx.Code("trackClick")))
	}
	return tsx.El("Block", attrs)
}

type headerVariant struct {
	avatar  string
	name    string
	bio     string
	socials string
}

var (
	desktopHeader = headerVariant{
		avatar:  "w-40 h-40 overflow-hidden bg-gray-100 mb-8",
		name:    "text-4xl font-bold tracking-tight text-gray-900 mb-3",
		bio:     "text-base text-gray-500 font-medium whitespace-pre-wrap max-w-xs",
		socials: "flex flex-wrap gap-3 mt-4",
	}
	mobileHeader = headerVariant{
		avatar:  "w-24 h-24 mb-4 overflow-hidden bg-gray-100",
		name:    "text-2xl font-extrabold tracking-tight text-gray-900 mb-2",
		bio:     "text-sm text-gray-500 font-medium whitespace-pre-wrap max-w-xs",
		socials: "flex flex-wrap justify-center gap-3 mt-4",
	}
)

func profileHeader(p page, variant headerVariant) []tsx.Node {
	var avatar []tsx.Node
	if p.profile.AvatarURL != "" {
		avatar = append(avatar, tsx.El("img", tsx.Attrs(
			tsx.AX("src", tsx.Code("profile.avatarUrl")),
			tsx.AX("alt", tsx.Code("profile.name")),
			tsx.A("className", "w-full h-full object-cover"),
		)))
	}
	nodes := []tsx.Node{
		tsx.El("div", tsx.Attrs(tsx.A("className", variant.avatar), tsx.AX("style", tsx.Code("AVATAR_STYLE"))), avatar...),
		tsx.El("h1", tsx.Attrs(tsx.A("className", variant.name)), tsx.X("profile.name")),
	}
	if p.profile.Bio != "" {
		nodes = append(nodes, tsx.El("p", tsx.Attrs(tsx.A("className", variant.bio)), tsx.X("profile.bio")))
	}
	if len(p.header) > 0 {
		nodes = append(nodes, tsx.El("div", tsx.Attrs(tsx.A("className", variant.socials)), &tsx.Map{
			Source: tsx.Code("headerLinks"),
			Param:  "link",
			Body:   headerLinkElement(p.header),
		}))
	}
	return nodes
}

func headerLinkElement(links []headerLink) *tsx.Element {
	labelled := false
	for _, link := range links {
		if link.Label != "" {
			labelled = true
			break
		}
	}
	class := "w-10 h-10 bg-white rounded-full shadow-md flex items-center justify-center hover:scale-105 transition-transform"
	children := []tsx.Node{tsx.El("PlatformIcon", tsx.Attrs(tsx.AX("platform", tsx.Code("link.platform")), tsx.AX("size", tsx.Code("20"))))}
	if labelled {
		class = "h-10 px-3 gap-1.5 bg-white rounded-full shadow-md flex items-center justify-center hover:scale-105 transition-transform"
		children = append(children, &tsx.Cond{
			Test: tsx.Code("link.label"),
			Then: tsx.El("span", tsx.Attrs(tsx.A("className", "text-xs font-semibold text-gray-700")), tsx.X("link.label")),
		})
	}
	return tsx.El("a", tsx.Attrs(
		tsx.AX("key", tsx.Code("link.platform")),
		tsx.AX("href", tsx.Code("link.url")),
		tsx.A("target", "_blank"),
		tsx.A("rel", "noopener noreferrer"),
		tsx.A("className", class),
		tsx.AX("style", tsx.Object{{Key: "color", Value: tsx.Code("SOCIAL_PLATFORMS[link.platform]?.brandColor")}}),
	), children...)
}

func footer() tsx.Node {
	return tsx.El("footer", tsx.Attrs(tsx.A("className", "w-full py-10 text-center")),
		tsx.El("p", tsx.Attrs(tsx.A("className", "text-sm text-gray-400 font-medium")),
			tsx.Text("Made with "),
			tsx.El("span", tsx.Attrs(tsx.A("className", "text-red-400")), tsx.Text("♥")),
			tsx.Text(" using "),
			tsx.El("a", tsx.Attrs(
				tsx.A("href", BrandingURL),
				tsx.A("target", "_blank"),
				tsx.A("rel", "noopener noreferrer"),
				tsx.A("className", "font-semibold hover:text-violet-500 transition-colors"),
			), tsx.Text("OpenBento")),
		),
	)
}
