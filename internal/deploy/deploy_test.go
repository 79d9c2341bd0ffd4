package deploy

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

func paths(files []File) []string {
	out := make([]string, 0, len(files))
	for _, file := range files {
		out = append(out, file.Path)
	}
	return out
}

func TestFilesPerTarget(t *testing.T) {
	cases := map[Target][]string{
		Vercel:      {"vercel.json"},
		Netlify:     {"netlify.toml"},
		GitHubPages: {".github/workflows/deploy.yml"},
		Docker:      {"Dockerfile", "nginx.conf", ".dockerignore"},
		VPS:         {"nginx.conf"},
		Heroku:      {"static.json"},
		{}:          {"vercel.json"},
	}
	for target, want := range cases {
		got := paths(Files(target))
		if strings.Join(got, ",") != strings.Join(want, ",") {
			t.Fatalf("Files(%s) = %v, want %v", target, got, want)
		}
	}
}

func TestParseTarget(t *testing.T) {
	for _, target := range Targets() {
		parsed, err := ParseTarget(" " + strings.ToUpper(target.String()) + " ")
		if err != nil || parsed != target {
			t.Fatalf("ParseTarget(%s) = %v, %v", target, parsed, err)
		}
	}
	if parsed, err := ParseTarget(""); err != nil || parsed != Vercel {
		t.Fatalf("expected empty target to default to vercel, got %v %v", parsed, err)
	}
	if _, err := ParseTarget("fly"); !errors.Is(err, ErrUnknownTarget) {
		t.Fatalf("expected ErrUnknownTarget, got %v", err)
	}
}

func TestTargetTextRoundTrip(t *testing.T) {
	var holder struct {
		Target Target `json:"target"`
	}
	if err := json.Unmarshal([]byte(`{"target":"github-pages"}`), &holder); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if holder.Target != GitHubPages {
		t.Fatalf("expected github-pages, got %v", holder.Target)
	}
	out, _ := json.Marshal(holder)
	if string(out) != `{"target":"github-pages"}` {
		t.Fatalf("unexpected encoding %s", out)
	}
	if err := json.Unmarshal([]byte(`{"target":"mars"}`), &holder); err == nil {
		t.Fatal("expected unknown target to be rejected")
	}
}

func TestManifestsParse(t *testing.T) {
	var vercel map[string]string
	if err := json.Unmarshal([]byte(Files(Vercel)[0].Content), &vercel); err != nil {
		t.Fatalf("vercel.json: %v", err)
	}
	if vercel["outputDirectory"] != "dist" {
		t.Fatalf("unexpected vercel.json %v", vercel)
	}

	var netlify struct {
		Build struct {
			Command string `toml:"command"`
			Publish string `toml:"publish"`
		} `toml:"build"`
		Redirects []struct {
			From   string `toml:"from"`
			To     string `toml:"to"`
			Status int    `toml:"status"`
		} `toml:"redirects"`
	}
	if err := toml.Unmarshal([]byte(Files(Netlify)[0].Content), &netlify); err != nil {
		t.Fatalf("netlify.toml: %v", err)
	}
	if netlify.Build.Publish != "dist" || len(netlify.Redirects) != 1 || netlify.Redirects[0].Status != 200 {
		t.Fatalf("unexpected netlify.toml %+v", netlify)
	}

	var workflow struct {
		Name string `yaml:"name"`
		Jobs map[string]struct {
			Steps []struct {
				Name string `yaml:"name"`
				Uses string `yaml:"uses"`
			} `yaml:"steps"`
		} `yaml:"jobs"`
	}
	if err := yaml.Unmarshal([]byte(Files(GitHubPages)[0].Content), &workflow); err != nil {
		t.Fatalf("deploy.yml: %v", err)
	}
	steps := workflow.Jobs["deploy"].Steps
	if len(steps) == 0 || steps[len(steps)-1].Uses != "actions/deploy-pages@v4" {
		t.Fatalf("unexpected workflow %+v", workflow)
	}

	var heroku map[string]any
	if err := json.Unmarshal([]byte(Files(Heroku)[0].Content), &heroku); err != nil {
		t.Fatalf("static.json: %v", err)
	}
}

func TestNginxRoots(t *testing.T) {
	docker := Files(Docker)
	if !strings.Contains(docker[1].Content, "root /usr/share/nginx/html;") {
		t.Fatalf("unexpected docker nginx.conf:\n%s", docker[1].Content)
	}
	if !strings.Contains(docker[0].Content, "COPY nginx.conf /etc/nginx/conf.d/default.conf") {
		t.Fatal("Dockerfile must install nginx.conf")
	}
	vps := Files(VPS)[0].Content
	if !strings.Contains(vps, "root /var/www/bento/dist;") {
		t.Fatalf("unexpected vps nginx.conf:\n%s", vps)
	}
}

func TestGuide(t *testing.T) {
	guide := Guide("Jane Doe", Docker)
	for _, want := range []string{"# Deploy Jane Doe", "### Docker", "docker build -t jane-doe .", "- `Dockerfile`"} {
		if !strings.Contains(guide, want) {
			t.Fatalf("expected %q in guide:\n%s", want, guide)
		}
	}
	if strings.Contains(guide, "Import in Vercel") {
		t.Fatal("guide must only describe the selected target")
	}

	pages := Guide("x", GitHubPages)
	if !strings.Contains(pages, "### GitHub Pages") || !strings.Contains(pages, "Source: GitHub Actions") {
		t.Fatalf("unexpected github pages guide:\n%s", pages)
	}
}

func TestImageNameFallback(t *testing.T) {
	if got := ImageName(""); got != defaultImage {
		t.Fatalf("expected fallback image, got %q", got)
	}
}
