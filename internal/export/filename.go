package export

import (
	"regexp"
	"strings"

	"github.com/maboudharam/openbento/internal/deploy"
	"github.com/maboudharam/openbento/internal/scaffold"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	pathSeparator = strings.NewReplacer("/", "-", "\\", "-")
)

// Filename names the archive for a site called name: whitespace runs become
// hyphens, the result is lowercased and suffixed with the target, as in
// "jane-doe-bento-vercel.zip". Path separators are replaced so the name is
// always a single path element.
func Filename(name string, target deploy.Target) string {
	base := strings.TrimSpace(name)
	if base == "" {
		base = scaffold.DefaultProjectName
	}
	base = strings.ToLower(whitespaceRun.ReplaceAllString(base, "-"))
	base = pathSeparator.Replace(base)
	return base + "-bento-" + target.String() + ".zip"
}
