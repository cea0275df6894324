package parsers

import (
	"strings"

	"github.com/depman-cli/depman/internal/models"
)

// SetupCfgParser parses the install_requires key of the [options] section
// in setup.cfg. The value is either on the key line or an indented block of
// continuation lines, one requirement per line.
type SetupCfgParser struct{}

// CanParse matches setup.cfg.
func (p *SetupCfgParser) CanParse(filename string) bool {
	return filename == "setup.cfg"
}

// Parse extracts install_requires entries from [options].
func (p *SetupCfgParser) Parse(path string, content []byte) ([]models.Declaration, error) {
	var decls []models.Declaration
	for _, raw := range iniMultiValue(string(content), "options", "install_requires") {
		name, spec, ok := parseDepString(raw)
		if !ok {
			continue
		}
		decls = append(decls, models.Declaration{
			Name:      name,
			Specifier: spec,
			Group:     models.GroupMain,
			File:      "setup.cfg",
		})
	}
	return decls, nil
}

// iniMultiValue returns the value lines of section.key in an INI-style
// document, including indented continuation lines.
func iniMultiValue(src, section, key string) []string {
	var values []string
	inSection := false
	collecting := false

	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			inSection = strings.EqualFold(trimmed, "["+section+"]")
			collecting = false
			continue
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, ";") {
			continue
		}

		indented := line != "" && (line[0] == ' ' || line[0] == '\t')
		if collecting {
			if indented {
				values = append(values, trimmed)
				continue
			}
			collecting = false
		}
		if !inSection || indented {
			continue
		}

		k, v, found := cutKeyValue(trimmed)
		if !found || !strings.EqualFold(k, key) {
			continue
		}
		if v != "" {
			values = append(values, v)
		}
		collecting = true
	}
	return values
}

// cutKeyValue splits "key = value" or "key: value".
func cutKeyValue(line string) (key, value string, found bool) {
	eq := strings.IndexAny(line, "=:")
	if eq < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:eq]), strings.TrimSpace(line[eq+1:]), true
}
