package deploy

import (
	"bytes"
	"embed"
	"text/template"

	"github.com/goliatone/go-slug"
)

//go:embed templates/*
var templateFS embed.FS

var (
	nginxTemplate = template.Must(template.ParseFS(templateFS, "templates/nginx.conf.tmpl"))
	guideTemplate = template.Must(template.ParseFS(templateFS, "templates/DEPLOY.md.tmpl"))
)

const (
	containerRoot = "/usr/share/nginx/html"
	vpsRoot       = "/var/www/bento/dist"
	defaultImage  = "my-bento"
)

// File is one deployment file at its archive path.
type File struct {
	Path    string
	Content string
}

// Files returns the platform files for target. Every target yields at least
// one file.
func Files(target Target) []File {
	switch target.resolved() {
	case Netlify:
		return []File{{Path: "netlify.toml", Content: mustRead("netlify.toml")}}
	case GitHubPages:
		return []File{{Path: ".github/workflows/deploy.yml", Content: mustRead("deploy.yml")}}
	case Docker:
		return []File{
			{Path: "Dockerfile", Content: mustRead("Dockerfile")},
			{Path: "nginx.conf", Content: nginxConf(containerRoot)},
			{Path: ".dockerignore", Content: mustRead("dockerignore")},
		}
	case VPS:
		return []File{{Path: "nginx.conf", Content: nginxConf(vpsRoot)}}
	case Heroku:
		return []File{{Path: "static.json", Content: mustRead("static.json")}}
	default:
		return []File{{Path: "vercel.json", Content: mustRead("vercel.json")}}
	}
}

// Guide renders DEPLOY.md for a site called name.
func Guide(name string, target Target) string {
	target = target.resolved()
	files := Files(target)
	paths := make([]string, 0, len(files))
	for _, file := range files {
		paths = append(paths, file.Path)
	}

	var buf bytes.Buffer
	err := guideTemplate.Execute(&buf, map[string]any{
		"Name":   name,
		"Title":  target.DisplayName(),
		"Target": target.String(),
		"Image":  ImageName(name),
		"Files":  paths,
	})
	if err != nil {
		panic(err)
	}
	return buf.String()
}

// ImageName derives a container image tag from the site name.
func ImageName(name string) string {
	normalized, err := slug.Normalize(name)
	if err != nil || normalized == "" {
		return defaultImage
	}
	return normalized
}

func nginxConf(root string) string {
	var buf bytes.Buffer
	if err := nginxTemplate.Execute(&buf, struct{ Root string }{root}); err != nil {
		panic(err)
	}
	return buf.String()
}

func mustRead(name string) string {
	content, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		panic(err)
	}
	return string(content)
}
