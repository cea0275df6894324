package parsers

import (
	"encoding/json"

	"github.com/depman-cli/depman/internal/models"
)

// PackageJSONParser parses the dependency tables of package.json. Version
// ranges are kept exactly as written ("^1.0.0", "~2.3.0", "*").
type PackageJSONParser struct{}

// CanParse matches package.json.
func (p *PackageJSONParser) CanParse(filename string) bool {
	return filename == "package.json"
}

type packageJSON struct {
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
}

// Parse extracts declarations from dependencies, devDependencies, and
// optionalDependencies, carrying the table name as the group.
func (p *PackageJSONParser) Parse(path string, content []byte) ([]models.Declaration, error) {
	var pkg packageJSON
	if err := json.Unmarshal(content, &pkg); err != nil {
		return nil, err
	}

	var decls []models.Declaration
	appendTable := func(deps map[string]string, group string) {
		for _, name := range sortedKeys(deps) {
			spec := deps[name]
			if spec == "" {
				spec = "*"
			}
			decls = append(decls, models.Declaration{
				Name:      name,
				Specifier: spec,
				Group:     group,
				File:      "package.json",
			})
		}
	}
	appendTable(pkg.Dependencies, models.GroupMain)
	appendTable(pkg.DevDependencies, "dev")
	appendTable(pkg.OptionalDependencies, "optional")
	return decls, nil
}
