package orchestration

import (
	"strings"

	"github.com/Saikiran1923/Aura-x/pkg/text"
)

const (
	projectNameWords = 6
	fallbackName     = "project"
)

// ProjectName returns name when set, otherwise a slug of the request's first
// words.
func ProjectName(request, name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	if slug := text.Slugify(request, projectNameWords); slug != "" {
		return slug
	}
	return fallbackName
}
