// Package parsers extracts dependency declarations from manifest files.
//
// Every parser is a pure function over file content: it returns zero or more
// declarations, or an error for malformed input. Callers (the loader)
// collapse parse errors to an empty result so one broken manifest never
// blocks aggregation of the rest.
package parsers

import "github.com/depman-cli/depman/internal/models"

// Parser handles one manifest format.
type Parser interface {
	// CanParse reports whether this parser handles the given base filename.
	CanParse(filename string) bool

	// Parse extracts declarations from the file content. The path is used
	// only to derive the source label.
	Parse(path string, content []byte) ([]models.Declaration, error)
}

// ForEcosystem returns the parsers for an ecosystem, in the fixed order that
// determines which raw spelling wins as a merged package's display name.
func ForEcosystem(eco models.Ecosystem) []Parser {
	switch eco {
	case models.EcosystemPython:
		return []Parser{
			&PyProjectParser{},
			&RequirementsParser{},
			&SetupPyParser{},
			&SetupCfgParser{},
			&PipfileParser{},
		}
	case models.EcosystemJavaScript:
		return []Parser{&PackageJSONParser{}}
	case models.EcosystemGo:
		return []Parser{&GoModParser{}}
	default:
		return nil
	}
}

// Match finds the parser responsible for filename, or nil.
func Match(parsers []Parser, filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}
