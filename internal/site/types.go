package site

// BlockType enumerates the renderable tile kinds.
type BlockType string

const (
	BlockLink       BlockType = "LINK"
	BlockText       BlockType = "TEXT"
	BlockMedia      BlockType = "MEDIA"
	BlockSocial     BlockType = "SOCIAL"
	BlockSocialIcon BlockType = "SOCIAL_ICON"
	BlockMap        BlockType = "MAP"
	BlockSpacer     BlockType = "SPACER"
)

// BlockTypes lists every block type in declaration order.
func BlockTypes() []BlockType {
	return []BlockType{BlockLink, BlockText, BlockMedia, BlockSocial, BlockSocialIcon, BlockMap, BlockSpacer}
}

// Valid reports whether t is a known block type.
func (t BlockType) Valid() bool {
	for _, known := range BlockTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// SocialPlatform identifies a social network by its short id ("x", "github").
type SocialPlatform string

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type AvatarShape string

const (
	AvatarCircle  AvatarShape = "circle"
	AvatarSquare  AvatarShape = "square"
	AvatarRounded AvatarShape = "rounded"
)

type YouTubeMode string

const (
	YouTubeSingle YouTubeMode = "single"
	YouTubeGrid   YouTubeMode = "grid"
	YouTubeList   YouTubeMode = "list"
)

// SiteData is the root aggregate handed to the exporter.
type SiteData struct {
	Profile Profile `json:"profile"`
	Blocks  []Block `json:"blocks"`
}

type Profile struct {
	Name               string          `json:"name"`
	Bio                string          `json:"bio"`
	AvatarURL          string          `json:"avatarUrl"`
	Theme              Theme           `json:"theme,omitempty"`
	PrimaryColor       string          `json:"primaryColor,omitempty"`
	ShowBranding       *bool           `json:"showBranding,omitempty"`
	ShowSocialInHeader bool            `json:"showSocialInHeader,omitempty"`
	ShowFollowerCount  bool            `json:"showFollowerCount,omitempty"`
	BackgroundColor    string          `json:"backgroundColor,omitempty"`
	BackgroundImage    string          `json:"backgroundImage,omitempty"`
	BackgroundBlur     *float64        `json:"backgroundBlur,omitempty"`
	AvatarStyle        *AvatarStyle    `json:"avatarStyle,omitempty"`
	SocialAccounts     []SocialAccount `json:"socialAccounts,omitempty"`
	Analytics          *Analytics      `json:"analytics,omitempty"`
}

// BrandingEnabled reports whether the attribution footer is shown. The footer
// is on unless explicitly disabled.
func (p Profile) BrandingEnabled() bool {
	return p.ShowBranding == nil || *p.ShowBranding
}

type AvatarStyle struct {
	Shape       AvatarShape `json:"shape,omitempty"`
	Shadow      *bool       `json:"shadow,omitempty"`
	Border      *bool       `json:"border,omitempty"`
	BorderColor string      `json:"borderColor,omitempty"`
	BorderWidth float64     `json:"borderWidth,omitempty"`
}

type SocialAccount struct {
	Platform      SocialPlatform `json:"platform"`
	Handle        string         `json:"handle"`
	FollowerCount *int64         `json:"followerCount,omitempty"`
}

// Analytics configures the ingestion endpoint the generated page posts to.
type Analytics struct {
	Enabled     bool   `json:"enabled"`
	EndpointURL string `json:"supabaseUrl,omitempty"`
	APIKey      string `json:"anonKey,omitempty"`
	SiteID      string `json:"siteId,omitempty"`
}

// Ready reports whether analytics is enabled and fully configured.
func (a *Analytics) Ready() bool {
	return a != nil && a.Enabled && a.EndpointURL != "" && a.APIKey != ""
}

type Block struct {
	ID               string         `json:"id"`
	Type             BlockType      `json:"type"`
	Title            string         `json:"title,omitempty"`
	Content          string         `json:"content,omitempty"`
	Subtext          string         `json:"subtext,omitempty"`
	ImageURL         string         `json:"imageUrl,omitempty"`
	MediaPosition    *FocalPoint    `json:"mediaPosition,omitempty"`
	ColSpan          int            `json:"colSpan"`
	RowSpan          int            `json:"rowSpan"`
	Color            string         `json:"color,omitempty"`
	CustomBackground string         `json:"customBackground,omitempty"`
	TextColor        string         `json:"textColor,omitempty"`
	GridColumn       *int           `json:"gridColumn,omitempty"`
	GridRow          *int           `json:"gridRow,omitempty"`
	ChannelID        string         `json:"channelId,omitempty"`
	YouTubeVideoID   string         `json:"youtubeVideoId,omitempty"`
	ChannelTitle     string         `json:"channelTitle,omitempty"`
	YouTubeMode      YouTubeMode    `json:"youtubeMode,omitempty"`
	YouTubeVideos    []Video        `json:"youtubeVideos,omitempty"`
	SocialPlatform   SocialPlatform `json:"socialPlatform,omitempty"`
	SocialHandle     string         `json:"socialHandle,omitempty"`
	ZIndex           *int           `json:"zIndex,omitempty"`
}

// FocalPoint is a media focal point in percent of width and height.
type FocalPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Video struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
}

// Clone returns a deep copy so exports never share mutable state with the
// caller.
func (d SiteData) Clone() SiteData {
	out := SiteData{Profile: d.Profile.clone()}
	if d.Blocks != nil {
		out.Blocks = make([]Block, len(d.Blocks))
		for i, block := range d.Blocks {
			out.Blocks[i] = block.clone()
		}
	}
	return out
}

func (p Profile) clone() Profile {
	out := p
	out.ShowBranding = clonePtr(p.ShowBranding)
	out.BackgroundBlur = clonePtr(p.BackgroundBlur)
	if p.AvatarStyle != nil {
		style := *p.AvatarStyle
		style.Shadow = clonePtr(p.AvatarStyle.Shadow)
		style.Border = clonePtr(p.AvatarStyle.Border)
		out.AvatarStyle = &style
	}
	if p.SocialAccounts != nil {
		out.SocialAccounts = make([]SocialAccount, len(p.SocialAccounts))
		for i, account := range p.SocialAccounts {
			account.FollowerCount = clonePtr(account.FollowerCount)
			out.SocialAccounts[i] = account
		}
	}
	out.Analytics = clonePtr(p.Analytics)
	return out
}

func (b Block) clone() Block {
	out := b
	out.MediaPosition = clonePtr(b.MediaPosition)
	out.GridColumn = clonePtr(b.GridColumn)
	out.GridRow = clonePtr(b.GridRow)
	out.ZIndex = clonePtr(b.ZIndex)
	if b.YouTubeVideos != nil {
		out.YouTubeVideos = append([]Video(nil), b.YouTubeVideos...)
	}
	return out
}

func clonePtr[T any](value *T) *T {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

// Int returns a pointer to v. Handy for optional grid coordinates.
func Int(v int) *int { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
