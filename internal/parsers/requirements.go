package parsers

import (
	"path/filepath"
	"strings"

	"github.com/depman-cli/depman/internal/models"
)

// RequirementsParser parses requirements.txt-style files line by line.
type RequirementsParser struct{}

// CanParse matches requirements.txt and its requirements-*.txt variants.
func (p *RequirementsParser) CanParse(filename string) bool {
	return strings.HasPrefix(filename, "requirements") && strings.HasSuffix(filename, ".txt")
}

// Parse extracts one declaration per dependency line. Blank lines, comments,
// and flag lines (-r, -e, --index-url, ...) are skipped.
func (p *RequirementsParser) Parse(path string, content []byte) ([]models.Declaration, error) {
	label := filepath.Base(path)
	var decls []models.Declaration

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		if idx := strings.Index(line, " #"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		name, spec, ok := parseDepString(line)
		if !ok {
			continue
		}
		decls = append(decls, models.Declaration{
			Name:      name,
			Specifier: spec,
			Group:     models.GroupMain,
			File:      label,
		})
	}
	return decls, nil
}
