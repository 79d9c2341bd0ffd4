package site

import (
	"errors"
	"strings"
	"testing"

	"github.com/maboudharam/openbento/internal/validation"
	"github.com/maboudharam/openbento/pkg/testsupport"
)

const sampleDocument = `{
  "name": "Studio",
  "profile": {"name": "Ada", "bio": "Builder", "avatarUrl": "https://example.com/a.png"},
  "blocks": [
    {"id": "b1", "type": "LINK", "content": "https://x.com", "colSpan": 3, "rowSpan": 3, "gridColumn": 1, "gridRow": 1}
  ]
}`

func TestParseStripsCodeFences(t *testing.T) {
	doc, err := Parse([]byte("```json\n" + sampleDocument + "\n```"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if doc.Name != "Studio" || doc.Profile.Name != "Ada" {
		t.Fatalf("unexpected document %+v", doc)
	}
	if len(doc.Blocks) != 1 || doc.Blocks[0].Type != BlockLink {
		t.Fatalf("unexpected blocks %+v", doc.Blocks)
	}
	if doc.Blocks[0].GridColumn == nil || *doc.Blocks[0].GridColumn != 1 {
		t.Fatalf("expected grid column to be decoded, got %v", doc.Blocks[0].GridColumn)
	}
}

func TestParseUnwrapsDoubleEncodedDocument(t *testing.T) {
	wrapped := `"{\"blocks\": [{\"id\": \"a\", \"type\": \"TEXT\", \"colSpan\": 2, \"rowSpan\": 1}]}"`
	doc, err := Parse([]byte(wrapped))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(doc.Blocks) != 1 || doc.Blocks[0].ID != "a" {
		t.Fatalf("unexpected blocks %+v", doc.Blocks)
	}
}

func TestParseRejectsMissingContent(t *testing.T) {
	if _, err := Parse([]byte(`{"name": "x"}`)); !errors.Is(err, ErrMissingContent) {
		t.Fatalf("expected ErrMissingContent, got %v", err)
	}
	if _, err := Parse([]byte("  ")); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestParseReportsSchemaViolations(t *testing.T) {
	_, err := Parse([]byte(`{"blocks": [{"id": "a", "type": "BANNER", "colSpan": 12, "rowSpan": 1}]}`))
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected schema validation error, got %v", err)
	}
	issues := validation.Issues(err)
	if len(issues) < 2 {
		t.Fatalf("expected type and colSpan issues, got %+v", issues)
	}
}

func TestImportAppliesDefaults(t *testing.T) {
	doc, err := Import([]byte(`{"blocks": [{"title": "Hello"}, {"id": "keep", "type": "LINK", "colSpan": 6}]}`))
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}

	if doc.Profile.Name != DefaultProfileName || doc.Profile.Theme != ThemeLight || doc.Profile.PrimaryColor != "blue" {
		t.Fatalf("unexpected profile defaults %+v", doc.Profile)
	}
	if !doc.Profile.BrandingEnabled() || doc.Profile.ShowBranding == nil {
		t.Fatal("expected branding to default to enabled")
	}

	first := doc.Blocks[0]
	if first.ID != "block_1" || first.Type != BlockText || first.ColSpan != 3 || first.RowSpan != 3 {
		t.Fatalf("unexpected block defaults %+v", first)
	}
	if *first.GridColumn != 1 || *first.GridRow != 1 || first.Color != DefaultBlockColor || first.TextColor != DefaultTextColor {
		t.Fatalf("unexpected placement or colour defaults %+v", first)
	}

	second := doc.Blocks[1]
	if second.ID != "keep" || second.ColSpan != 6 || second.RowSpan != 3 {
		t.Fatalf("expected explicit values to survive, got %+v", second)
	}
}

func TestLoadYAML(t *testing.T) {
	content := strings.Join([]string{
		"profile:",
		"  name: Grace",
		"blocks:",
		"  - id: m1",
		"    type: MAP",
		"    content: Lisbon",
		"    colSpan: 4",
		"    rowSpan: 2",
	}, "\n")
	path := testsupport.WriteFixture(t, "site.yaml", content)

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if doc.Profile.Name != "Grace" || doc.Blocks[0].Content != "Lisbon" || doc.Blocks[0].ColSpan != 4 {
		t.Fatalf("unexpected document %+v", doc)
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := testsupport.WriteFixture(t, "site.xml", "<site/>")
	if _, err := Load(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestValidateDetectsDuplicatesAndOverflow(t *testing.T) {
	data := SiteData{
		Blocks: []Block{
			{ID: "a", Type: BlockText, ColSpan: 3, RowSpan: 1, GridColumn: Int(1)},
			{ID: "a", Type: BlockText, ColSpan: 3, RowSpan: 1},
			{ID: "c", Type: BlockLink, ColSpan: 5, RowSpan: 1, GridColumn: Int(6)},
			{ID: "d", Type: BlockMedia, ColSpan: 0, RowSpan: 1},
		},
	}

	err := Validate(data)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	msg := err.Error()
	for _, want := range []string{"blocks[1]", "blocks[2]", "blocks[3]"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %s in %q", want, msg)
		}
	}
	if strings.Contains(msg, "blocks[0]") {
		t.Fatalf("did not expect blocks[0] in %q", msg)
	}
}

func TestValidateRejectsPathLikeIDs(t *testing.T) {
	for _, id := range []string{"x/../../vercel", `a\b`, "..", "a..b"} {
		data := SiteData{Blocks: []Block{{ID: id, Type: BlockText, ColSpan: 3, RowSpan: 3}}}
		if err := Validate(data); err == nil {
			t.Fatalf("expected id %q to be rejected", id)
		}
	}
}

func TestValidateAcceptsWellFormedSite(t *testing.T) {
	data := SiteData{
		Profile: Profile{Name: "Ada", SocialAccounts: []SocialAccount{{Platform: "github", Handle: "ada"}}},
		Blocks: []Block{
			{ID: "a", Type: BlockSocial, ColSpan: 9, RowSpan: 2, GridColumn: Int(1), GridRow: Int(1), YouTubeMode: YouTubeGrid},
		},
	}
	if err := Validate(data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	original := SiteData{
		Profile: Profile{ShowBranding: Bool(true), AvatarStyle: &AvatarStyle{Shadow: Bool(true)}},
		Blocks:  []Block{{ID: "a", GridRow: Int(2), YouTubeVideos: []Video{{ID: "v"}}}},
	}
	cloned := original.Clone()

	*cloned.Profile.ShowBranding = false
	*cloned.Profile.AvatarStyle.Shadow = false
	*cloned.Blocks[0].GridRow = 9
	cloned.Blocks[0].YouTubeVideos[0].ID = "changed"

	if !*original.Profile.ShowBranding || !*original.Profile.AvatarStyle.Shadow {
		t.Fatal("profile pointers were shared")
	}
	if *original.Blocks[0].GridRow != 2 || original.Blocks[0].YouTubeVideos[0].ID != "v" {
		t.Fatal("block fields were shared")
	}
}
