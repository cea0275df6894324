// Package aggregate merges parser declarations and installed versions into
// canonical packages, one per normalized name.
package aggregate

import (
	"sort"
	"strings"

	"github.com/depman-cli/depman/internal/models"
	"github.com/depman-cli/depman/internal/normalize"
)

// Merge folds declarations into one Package per normalized name.
//
// Declarations must arrive in the fixed parser-invocation order: the first
// raw spelling seen becomes the display name, so the ordering decides merges
// reproducibly. A (file, group, specifier) triple is recorded once; the same
// file may contribute several sources only when it declares the package in
// distinct groups. Installed versions are attached by normalized name, and
// installed-but-undeclared packages are appended with zero sources. The
// result is sorted case-insensitively by display name.
func Merge(decls []models.Declaration, installed []models.Installed) []models.Package {
	merged := make(map[string]*models.Package)
	var order []string

	for _, d := range decls {
		key := normalize.Normalize(d.Name)
		if key == "" {
			continue
		}
		pkg, ok := merged[key]
		if !ok {
			pkg = &models.Package{Name: d.Name, NormalizedName: key}
			merged[key] = pkg
			order = append(order, key)
		}
		src := models.DepSource{File: d.File, Group: d.Group, Specifier: d.Specifier}
		if !hasSource(pkg.Sources, src) {
			pkg.Sources = append(pkg.Sources, src)
		}
	}

	for _, inst := range installed {
		key := normalize.Normalize(inst.Name)
		if key == "" {
			continue
		}
		pkg, ok := merged[key]
		if !ok {
			// Present in the environment but declared nowhere: surfaced as
			// a distinct zero-source package.
			pkg = &models.Package{Name: inst.Name, NormalizedName: key}
			merged[key] = pkg
			order = append(order, key)
		}
		if pkg.InstalledVersion == "" {
			pkg.InstalledVersion = inst.Version
		}
	}

	result := make([]models.Package, 0, len(order))
	for _, key := range order {
		result = append(result, *merged[key])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result
}

func hasSource(sources []models.DepSource, s models.DepSource) bool {
	for _, have := range sources {
		if have == s {
			return true
		}
	}
	return false
}
