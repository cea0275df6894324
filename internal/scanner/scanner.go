// Package scanner loads a project's dependency state: it walks the
// ecosystem's manifest files, parses each with the matching parser, resolves
// installed versions, and merges everything into one package list.
package scanner

import (
	"context"
	"os"
	"path/filepath"

	"github.com/depman-cli/depman/internal/aggregate"
	"github.com/depman-cli/depman/internal/ecosystems"
	"github.com/depman-cli/depman/internal/log"
	"github.com/depman-cli/depman/internal/models"
	"github.com/depman-cli/depman/internal/normalize"
	"github.com/depman-cli/depman/internal/parsers"
)

// Loader scans one project directory through one ecosystem adapter.
type Loader struct {
	eco ecosystems.Ecosystem
	dir string
}

// New creates a loader for the given ecosystem and directory.
func New(eco ecosystems.Ecosystem, dir string) *Loader {
	return &Loader{eco: eco, dir: dir}
}

// Declarations parses every manifest file. A file that is missing or
// unparsable contributes nothing; one bad manifest never blocks the rest.
func (l *Loader) Declarations() []models.Declaration {
	ps := l.eco.Parsers()
	var decls []models.Declaration
	for _, path := range l.eco.ManifestPaths(l.dir) {
		base := filepath.Base(path)
		parser := parsers.Match(ps, base)
		if parser == nil {
			log.Debug("no parser for %s", base)
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			log.Debug("read %s: %v", base, err)
			continue
		}
		fileDecls, err := parser.Parse(base, content)
		if err != nil {
			log.Debug("parse %s: %v", base, err)
			continue
		}
		decls = append(decls, fileDecls...)
	}
	return decls
}

// Load scans manifests and the environment and merges them into the
// deduplicated package list.
func (l *Loader) Load(ctx context.Context) []models.Package {
	decls := l.Declarations()
	installed := l.eco.InstalledVersions(ctx, l.dir)
	return aggregate.Merge(decls, installed)
}

// Find looks up one package by normalized name match.
func Find(pkgs []models.Package, name string) (models.Package, bool) {
	target := normalize.Normalize(name)
	for _, p := range pkgs {
		if p.NormalizedName == target {
			return p, true
		}
	}
	return models.Package{}, false
}
