package parsers

import (
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/depman-cli/depman/internal/models"
)

// PyProjectParser parses pyproject.toml: PEP 621 [project] dependencies,
// per-group optional-dependencies, PEP 735 [dependency-groups], and the
// legacy Poetry tables.
type PyProjectParser struct{}

// CanParse matches pyproject.toml.
func (p *PyProjectParser) CanParse(filename string) bool {
	return filename == "pyproject.toml"
}

type pyproject struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	DependencyGroups map[string][]any `toml:"dependency-groups"`
	Tool             struct {
		Poetry struct {
			Dependencies    map[string]any `toml:"dependencies"`
			DevDependencies map[string]any `toml:"dev-dependencies"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// Parse extracts all declared dependency groups from pyproject.toml.
func (p *PyProjectParser) Parse(path string, content []byte) ([]models.Declaration, error) {
	var proj pyproject
	if err := toml.Unmarshal(content, &proj); err != nil {
		return nil, err
	}

	label := filepath.Base(path)
	var decls []models.Declaration

	add := func(raw, group string) {
		name, spec, ok := parseDepString(raw)
		if !ok {
			return
		}
		decls = append(decls, models.Declaration{
			Name:      name,
			Specifier: spec,
			Group:     group,
			File:      label,
		})
	}

	for _, raw := range proj.Project.Dependencies {
		add(raw, models.GroupMain)
	}
	// Map iteration is randomized; walk groups and tables in sorted order so
	// merges are reproducible across runs.
	for _, group := range sortedKeys(proj.Project.OptionalDependencies) {
		for _, raw := range proj.Project.OptionalDependencies[group] {
			add(raw, group)
		}
	}
	// PEP 735 group entries may also be include-group tables; only the
	// plain string form declares a package.
	for _, group := range sortedKeys(proj.DependencyGroups) {
		for _, entry := range proj.DependencyGroups[group] {
			if raw, ok := entry.(string); ok {
				add(raw, group)
			}
		}
	}
	for _, name := range sortedKeys(proj.Tool.Poetry.Dependencies) {
		if name == "python" {
			continue
		}
		decls = append(decls, models.Declaration{
			Name:      name,
			Specifier: poetrySpecifier(proj.Tool.Poetry.Dependencies[name]),
			Group:     models.GroupMain,
			File:      label,
		})
	}
	for _, name := range sortedKeys(proj.Tool.Poetry.DevDependencies) {
		decls = append(decls, models.Declaration{
			Name:      name,
			Specifier: poetrySpecifier(proj.Tool.Poetry.DevDependencies[name]),
			Group:     "dev",
			File:      label,
		})
	}

	return decls, nil
}

// poetrySpecifier extracts the constraint from a Poetry dependency value,
// which is either a bare string or a table with a "version" key.
func poetrySpecifier(val any) string {
	switch v := val.(type) {
	case string:
		if v != "" {
			return v
		}
	case map[string]any:
		if ver, ok := v["version"].(string); ok && ver != "" {
			return ver
		}
	}
	return "*"
}
