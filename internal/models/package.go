package models

// Ecosystem identifies a language/package-manager pairing.
type Ecosystem string

const (
	EcosystemPython     Ecosystem = "python"
	EcosystemJavaScript Ecosystem = "javascript"
	EcosystemGo         Ecosystem = "go"
)

// Declaration is one raw dependency entry as emitted by a manifest parser,
// before any merging.
type Declaration struct {
	Name      string // as written in the manifest
	Specifier string // raw constraint string, "*" when absent
	Group     string // "main" unless the format declares named groups
	File      string // manifest identity, e.g. "pyproject.toml"
}

// GroupMain is the implicit group for formats without named groups.
const GroupMain = "main"

// DepSource is one place where a dependency was declared.
type DepSource struct {
	File      string `json:"file"`
	Group     string `json:"group,omitempty"`
	Specifier string `json:"specifier"`
}

// Label renders the source for display, folding a non-main group into the
// file name the way manifests present it, e.g. "pyproject.toml [dev]".
func (s DepSource) Label() string {
	if s.Group == "" || s.Group == GroupMain {
		return s.File
	}
	return s.File + " [" + s.Group + "]"
}

// Package is a dependency aggregated across all discovered sources.
// Sources is empty only for installed-but-undeclared packages.
type Package struct {
	Name             string      `json:"name"`
	NormalizedName   string      `json:"normalized_name"`
	Sources          []DepSource `json:"sources"`
	InstalledVersion string      `json:"installed_version,omitempty"`
}

// Declared reports whether any manifest declares this package.
func (p Package) Declared() bool {
	return len(p.Sources) > 0
}

// Installed holds one entry from the installed-version resolver. Name keeps
// the spelling the tool reported, for display of undeclared packages.
type Installed struct {
	Name    string
	Version string
}
