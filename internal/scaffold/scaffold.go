package scaffold

import (
	"bytes"
	"embed"
	"encoding/json"
	"regexp"
	"strings"
	"text/template"
)

// DefaultProjectName replaces names that sanitize to nothing.
const DefaultProjectName = "my-bento"

//go:embed templates/*
var templateFS embed.FS

var (
	indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))
	invalidName   = regexp.MustCompile(`(?i)[^a-z0-9-]`)
	htmlEscaper   = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
)

// File is one generated project file.
type File struct {
	Path    string
	Content string
}

// SanitizeProjectName turns a display name into an npm package name. Every
// character outside [a-z0-9-] becomes a hyphen and the result is lowercased.
func SanitizeProjectName(name string) string {
	safe := strings.ToLower(invalidName.ReplaceAllString(name, "-"))
	if safe == "" {
		return DefaultProjectName
	}
	return safe
}

// EscapeHTML escapes &, <, >, " and ' for safe interpolation into markup.
func EscapeHTML(value string) string {
	return htmlEscaper.Replace(value)
}

type packageManifest struct {
	Name            string            `json:"name"`
	Private         bool              `json:"private"`
	Version         string            `json:"version"`
	Type            string            `json:"type"`
	Scripts         packageScripts    `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

type packageScripts struct {
	Dev     string `json:"dev"`
	Build   string `json:"build"`
	Preview string `json:"preview"`
}

// PackageJSON renders the npm manifest for a project called name.
func PackageJSON(name string) string {
	manifest := packageManifest{
		Name:    SanitizeProjectName(name),
		Private: true,
		Version: "1.0.0",
		Type:    "module",
		Scripts: packageScripts{
			Dev:     "vite",
			Build:   "vite build",
			Preview: "vite preview",
		},
		Dependencies: map[string]string{
			"react":        "^18.3.1",
			"react-dom":    "^18.3.1",
			"lucide-react": "^0.460.0",
			"react-icons":  "^5.3.0",
		},
		DevDependencies: map[string]string{
			"@types/react":            "^18.3.12",
			"@types/react-dom":        "^18.3.1",
			"@vitejs/plugin-react":    "^4.3.3",
			"autoprefixer":            "^10.4.20",
			"postcss":                 "^8.4.49",
			"tailwindcss":             "^3.4.15",
			"terser":                  "^5.36.0",
			"typescript":              "^5.6.3",
			"vite":                    "^5.4.11",
			"vite-plugin-compression": "^0.5.1",
		},
	}
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	// Encoding a struct of strings and maps cannot fail.
	_ = encoder.Encode(manifest)
	return buf.String()
}

// IndexHTML renders the entry document with title escaped.
func IndexHTML(title string) string {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, struct{ Title string }{EscapeHTML(title)}); err != nil {
		panic(err)
	}
	return buf.String()
}

func ViteConfig() string     { return mustRead("vite.config.ts") }
func TailwindConfig() string { return mustRead("tailwind.config.js") }
func PostCSSConfig() string  { return mustRead("postcss.config.js") }
func TSConfig() string       { return mustRead("tsconfig.json") }
func MainTSX() string        { return mustRead("main.tsx") }
func IndexCSS() string       { return mustRead("index.css") }

// Files returns every data-independent project file at its archive path.
// src/App.tsx and the deployment files are produced elsewhere.
func Files(name string) []File {
	return []File{
		{Path: "package.json", Content: PackageJSON(name)},
		{Path: "vite.config.ts", Content: ViteConfig()},
		{Path: "tailwind.config.js", Content: TailwindConfig()},
		{Path: "postcss.config.js", Content: PostCSSConfig()},
		{Path: "tsconfig.json", Content: TSConfig()},
		{Path: "index.html", Content: IndexHTML(name)},
		{Path: "src/main.tsx", Content: MainTSX()},
		{Path: "src/index.css", Content: IndexCSS()},
	}
}

func mustRead(name string) string {
	content, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		panic(err)
	}
	return string(content)
}
