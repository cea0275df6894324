package parsers

import (
	"github.com/depman-cli/depman/internal/models"
	"golang.org/x/mod/modfile"
)

// GoModParser parses the require block of go.mod via x/mod. Only direct
// requirements are declarations; indirect ones are resolver output, not
// something the user wrote.
type GoModParser struct {
	IncludeIndirect bool
}

// CanParse matches go.mod.
func (p *GoModParser) CanParse(filename string) bool {
	return filename == "go.mod"
}

// Parse extracts direct module requirements with their pinned versions.
func (p *GoModParser) Parse(path string, content []byte) ([]models.Declaration, error) {
	mod, err := modfile.Parse(path, content, nil)
	if err != nil {
		return nil, err
	}

	var decls []models.Declaration
	for _, req := range mod.Require {
		if req.Indirect && !p.IncludeIndirect {
			continue
		}
		decls = append(decls, models.Declaration{
			Name:      req.Mod.Path,
			Specifier: req.Mod.Version,
			Group:     models.GroupMain,
			File:      "go.mod",
		})
	}
	return decls, nil
}
