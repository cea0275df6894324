package parsers

import (
	"github.com/BurntSushi/toml"
	"github.com/depman-cli/depman/internal/models"
)

// PipfileParser parses the [packages] and [dev-packages] tables of a
// Pipfile.
type PipfileParser struct{}

// CanParse matches Pipfile.
func (p *PipfileParser) CanParse(filename string) bool {
	return filename == "Pipfile"
}

type pipfile struct {
	Packages    map[string]any `toml:"packages"`
	DevPackages map[string]any `toml:"dev-packages"`
}

// Parse extracts declarations from both package tables; dev-packages carry
// the "dev" group.
func (p *PipfileParser) Parse(path string, content []byte) ([]models.Declaration, error) {
	var pf pipfile
	if err := toml.Unmarshal(content, &pf); err != nil {
		return nil, err
	}

	var decls []models.Declaration
	appendTable := func(pkgs map[string]any, group string) {
		for _, name := range sortedKeys(pkgs) {
			spec := "*"
			switch v := pkgs[name].(type) {
			case string:
				if v != "" {
					spec = v
				}
			case map[string]any:
				if ver, ok := v["version"].(string); ok && ver != "" {
					spec = ver
				}
			}
			decls = append(decls, models.Declaration{
				Name:      name,
				Specifier: spec,
				Group:     group,
				File:      "Pipfile",
			})
		}
	}
	appendTable(pf.Packages, models.GroupMain)
	appendTable(pf.DevPackages, "dev")
	return decls, nil
}
