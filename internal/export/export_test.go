package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/maboudharam/openbento/internal/archive"
	"github.com/maboudharam/openbento/internal/assets"
	"github.com/maboudharam/openbento/internal/deploy"
	"github.com/maboudharam/openbento/internal/logging"
	"github.com/maboudharam/openbento/internal/logging/console"
	"github.com/maboudharam/openbento/internal/site"
	"github.com/maboudharam/openbento/pkg/testsupport"
)

type stubTranscoder struct{}

func (stubTranscoder) Transcode(context.Context, string, float64) ([]byte, bool) {
	return []byte("RIFF-webp"), true
}

type escapingMaterializer struct{}

func (escapingMaterializer) Materialize(_ context.Context, _ site.SiteData, folder assets.Folder) (assets.ImageMap, assets.Report) {
	if folder != nil {
		folder.File("../../../escape.png", []byte("x"))
	}
	return assets.ImageMap{}, assets.Report{}
}

type countingSaver struct {
	calls int
	err   error
}

func (s *countingSaver) Save(_ context.Context, filename string, _ []byte) (string, error) {
	s.calls++
	return filename, s.err
}

func pngDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func linkSite(branding bool) site.SiteData {
	return site.SiteData{
		Profile: site.Profile{Name: "Jane Doe", ShowBranding: site.Bool(branding)},
		Blocks: []site.Block{{
			ID:      "b1",
			Type:    site.BlockLink,
			Title:   "Home",
			Content: "https://x.com",
			ColSpan: 3,
			RowSpan: 3,
		}},
	}
}

func newTestService(saver Saver) Service {
	cfg := DefaultConfig()
	return NewService(cfg, Dependencies{
		Materializer: assets.NewMaterializer(cfg.Assets, assets.WithTranscoder(stubTranscoder{})),
		Saver:        saver,
	})
}

func unzip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	out := make(map[string]string, len(reader.File))
	for _, file := range reader.File {
		rc, err := file.Open()
		if err != nil {
			t.Fatalf("open %s: %v", file.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", file.Name, err)
		}
		out[file.Name] = string(content)
	}
	return out
}

func TestExportLinkSiteWithBranding(t *testing.T) {
	result, err := newTestService(nil).Export(context.Background(), linkSite(true), Options{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	files := unzip(t, result.Archive)

	for _, path := range []string{
		"package.json", "vite.config.ts", "tailwind.config.js", "postcss.config.js",
		"tsconfig.json", "index.html", "DEPLOY.md", "src/main.tsx", "src/index.css",
		"src/App.tsx", "vercel.json",
	} {
		if _, ok := files[path]; !ok {
			t.Fatalf("expected %s in archive, got %v", path, result.Files)
		}
	}
	app := files["src/App.tsx"]
	if !strings.Contains(app, "https://x.com") {
		t.Fatalf("expected link content in App.tsx")
	}
	if !strings.Contains(app, "<footer") {
		t.Fatalf("expected attribution footer")
	}
	if result.Filename != "jane-doe-bento-vercel.zip" {
		t.Fatalf("unexpected filename %q", result.Filename)
	}
	if result.Target != deploy.Vercel {
		t.Fatalf("expected zero target to resolve to vercel, got %s", result.Target)
	}
	if len(result.Files) != len(files) {
		t.Fatalf("expected file listing to match archive: %d vs %d", len(result.Files), len(files))
	}
}

func TestExportWithoutBranding(t *testing.T) {
	result, err := newTestService(nil).Export(context.Background(), linkSite(false), Options{Target: deploy.Docker})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	files := unzip(t, result.Archive)
	if strings.Contains(files["src/App.tsx"], "<footer") {
		t.Fatalf("expected no footer when branding is disabled")
	}
	for _, path := range []string{"Dockerfile", "nginx.conf", ".dockerignore"} {
		if _, ok := files[path]; !ok {
			t.Fatalf("expected docker file %s", path)
		}
	}
	if _, ok := files["vercel.json"]; ok {
		t.Fatalf("expected only docker deployment files")
	}
}

func TestExportMaterializesAvatar(t *testing.T) {
	data := linkSite(true)
	data.Profile.AvatarURL = pngDataURI(t)

	result, err := newTestService(nil).Export(context.Background(), data, Options{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	files := unzip(t, result.Archive)
	if _, ok := files["public/assets/avatar.png"]; !ok {
		t.Fatalf("expected public/assets/avatar.png, got %v", result.Files)
	}
	if _, ok := files["public/assets/avatar.webp"]; !ok {
		t.Fatalf("expected optimized sibling")
	}
	app := files["src/App.tsx"]
	if !strings.Contains(app, `"avatarUrl": "/assets/avatar.png"`) || strings.Contains(app, "data:image/png") {
		t.Fatalf("expected avatar reference to be rewritten")
	}
	if result.Images[assets.AvatarKey] != "/assets/avatar.png" {
		t.Fatalf("unexpected image map %v", result.Images)
	}
	if data.Profile.AvatarURL == "/assets/avatar.png" {
		t.Fatalf("expected input site untouched")
	}

	var category archive.Category
	for _, file := range result.Files {
		if file.Path == "public/assets/avatar.png" {
			category = file.Category
		}
	}
	if category != archive.CategoryAsset {
		t.Fatalf("expected asset category, got %q", category)
	}
}

func TestExportKeepsCraftedImagesInsideAssets(t *testing.T) {
	data := linkSite(true)
	data.Profile.AvatarURL = "data:image/x/../../../.github/workflows/evil.yml;base64,cnVuOiBldmls"
	data.Blocks = append(data.Blocks, site.Block{
		ID:       "x/../../../vercel",
		Type:     site.BlockMedia,
		ImageURL: "data:image/json;base64,e30=",
		ColSpan:  3,
		RowSpan:  3,
	})

	result, err := newTestService(nil).Export(context.Background(), data, Options{Target: deploy.Netlify})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	files := unzip(t, result.Archive)
	for _, forbidden := range []string{".github/workflows/evil.yml", "vercel.json"} {
		if _, ok := files[forbidden]; ok {
			t.Fatalf("crafted image wrote %s", forbidden)
		}
	}
	for _, file := range result.Files {
		if file.Category == archive.CategoryAsset && !strings.HasPrefix(file.Path, "public/assets/") {
			t.Fatalf("asset %s outside public/assets", file.Path)
		}
	}
	if result.Images[assets.AvatarKey] != "/assets/avatar.png" {
		t.Fatalf("unexpected avatar mapping %q", result.Images[assets.AvatarKey])
	}
	if _, ok := result.Images[assets.BlockKey("x/../../../vercel")]; ok {
		t.Fatalf("expected unsafe block id to stay unmapped, got %v", result.Images)
	}
}

func TestExportAssetWarningsCarryExportContext(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf})
	cfg := DefaultConfig()
	svc := NewService(cfg, Dependencies{
		Materializer: assets.NewMaterializer(cfg.Assets,
			assets.WithTranscoder(stubTranscoder{}),
			assets.WithLogger(logging.AssetsLogger(provider)),
		),
	})

	data := linkSite(true)
	data.Profile.AvatarURL = "data:image/png;base64"
	if _, err := svc.Export(context.Background(), data, Options{Target: deploy.Netlify}); err != nil {
		t.Fatalf("export: %v", err)
	}

	var warning string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "asset.decode_failed") {
			warning = line
		}
	}
	if warning == "" {
		t.Fatalf("expected decode warning, got %q", buf.String())
	}
	for _, want := range []string{"asset_key=profile_avatar", "target=netlify", "filename=jane-doe-bento-netlify.zip"} {
		if !strings.Contains(warning, want) {
			t.Fatalf("expected %s in %q", want, warning)
		}
	}
}

func TestExportArchiveFailureIsAtomic(t *testing.T) {
	saver := &countingSaver{}
	svc := NewService(DefaultConfig(), Dependencies{Materializer: escapingMaterializer{}, Saver: saver})

	result, err := svc.Export(context.Background(), linkSite(true), Options{})
	if !errors.Is(err, ErrArchiveFailed) || !errors.Is(err, archive.ErrInvalidPath) {
		t.Fatalf("expected archive failure, got %v", err)
	}
	if result != nil {
		t.Fatalf("expected no result on failure")
	}
	if saver.calls != 0 {
		t.Fatalf("expected saver not to be called")
	}
}

func TestExportSaverFailure(t *testing.T) {
	saver := &countingSaver{err: errors.New("disk full")}
	_, err := newTestService(saver).Export(context.Background(), linkSite(true), Options{})
	if !errors.Is(err, ErrSaveFailed) {
		t.Fatalf("expected save failure, got %v", err)
	}
}

func TestExportDryRun(t *testing.T) {
	saver := &countingSaver{}
	data := linkSite(true)
	data.Profile.AvatarURL = pngDataURI(t)

	result, err := newTestService(saver).Export(context.Background(), data, Options{DryRun: true})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if result.Archive != nil || saver.calls != 0 {
		t.Fatalf("expected dry run to skip serialization and saving")
	}
	if result.Images[assets.AvatarKey] != "/assets/avatar.png" {
		t.Fatalf("expected dry run to map embedded images")
	}
	for _, file := range result.Files {
		if file.Category == archive.CategoryAsset {
			t.Fatalf("expected no asset files in dry run, got %s", file.Path)
		}
	}
}

func TestExportIDIsContentAddressed(t *testing.T) {
	svc := newTestService(nil)
	first, err := svc.Export(context.Background(), linkSite(true), Options{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	second, err := svc.Export(context.Background(), linkSite(true), Options{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if first.ID != second.ID || !bytes.Equal(first.Archive, second.Archive) {
		t.Fatalf("expected identical exports for identical input")
	}

	other, err := svc.Export(context.Background(), linkSite(false), Options{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if other.ID == first.ID {
		t.Fatalf("expected different content to change the id")
	}
}

func TestExportSiteIDOption(t *testing.T) {
	data := linkSite(true)
	data.Profile.Analytics = &site.Analytics{Enabled: true, EndpointURL: "https://a.supabase.co", APIKey: "k"}

	result, err := newTestService(nil).Export(context.Background(), data, Options{SiteID: "site-42"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if app := unzip(t, result.Archive)["src/App.tsx"]; !strings.Contains(app, `"siteId": "site-42"`) {
		t.Fatalf("expected site id to reach the analytics config")
	}
}

func TestExportCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newTestService(nil).Export(ctx, linkSite(true), Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled context error, got %v", err)
	}
}

func TestFilename(t *testing.T) {
	cases := []struct {
		name   string
		target deploy.Target
		want   string
	}{
		{name: "Jane  Doe", target: deploy.Netlify, want: "jane-doe-bento-netlify.zip"},
		{name: "  ", target: deploy.Target{}, want: "my-bento-bento-vercel.zip"},
		{name: "a/b\\c", target: deploy.GitHubPages, want: "a-b-c-bento-github-pages.zip"},
		{name: "Café Bar", target: deploy.Heroku, want: "café-bar-bento-heroku.zip"},
	}
	for _, tc := range cases {
		if got := Filename(tc.name, tc.target); got != tc.want {
			t.Fatalf("Filename(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestDirSaverWritesAtomically(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	saver := NewDirSaver(dir)

	path, err := saver.Save(context.Background(), "nested/site.zip", []byte("zip"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if path != filepath.Join(dir, "site.zip") {
		t.Fatalf("expected file in saver dir, got %s", path)
	}
	if content := testsupport.ReadFixture(t, path); string(content) != "zip" {
		t.Fatalf("unexpected content %q", content)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected no leftover temp files, got %d entries", len(entries))
	}
}

func TestMemorySaver(t *testing.T) {
	saver := &MemorySaver{}
	if _, err := saver.Save(context.Background(), "", nil); err == nil {
		t.Fatalf("expected error for empty filename")
	}
	if _, err := saver.Save(context.Background(), "a.zip", []byte("z")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if string(saver.Files["a.zip"]) != "z" {
		t.Fatalf("expected stored archive")
	}
}
