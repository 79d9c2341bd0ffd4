package deploy

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownTarget = errors.New("deploy: unknown deployment target")

// Target selects the hosting platform an export is prepared for. The set is
// closed: values can only come from the exported variables or ParseTarget.
// The zero Target behaves as Vercel.
type Target struct {
	name string
}

var (
	Vercel      = Target{name: "vercel"}
	Netlify     = Target{name: "netlify"}
	GitHubPages = Target{name: "github-pages"}
	Docker      = Target{name: "docker"}
	VPS         = Target{name: "vps"}
	Heroku      = Target{name: "heroku"}
)

// Default is the target used when none is chosen.
var Default = Vercel

// Targets lists every supported target.
func Targets() []Target {
	return []Target{Vercel, Netlify, GitHubPages, Docker, VPS, Heroku}
}

// ParseTarget resolves a target name. An empty name yields Default.
func ParseTarget(value string) (Target, error) {
	name := strings.ToLower(strings.TrimSpace(value))
	if name == "" {
		return Default, nil
	}
	for _, target := range Targets() {
		if target.name == name {
			return target, nil
		}
	}
	return Target{}, fmt.Errorf("%w: %q", ErrUnknownTarget, value)
}

func (t Target) resolved() Target {
	if t.name == "" {
		return Default
	}
	return t
}

// String returns the canonical target name used in filenames.
func (t Target) String() string {
	return t.resolved().name
}

// DisplayName is the human label used in DEPLOY.md.
func (t Target) DisplayName() string {
	switch t.resolved() {
	case Netlify:
		return "Netlify"
	case GitHubPages:
		return "GitHub Pages"
	case Docker:
		return "Docker"
	case VPS:
		return "VPS"
	case Heroku:
		return "Heroku"
	default:
		return "Vercel"
	}
}

func (t Target) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Target) UnmarshalText(text []byte) error {
	parsed, err := ParseTarget(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
