// Package reporter renders command output in terminal or JSON form.
package reporter

import "github.com/depman-cli/depman/internal/models"

// PackageRow is one line of the package listing, with everything already
// resolved: sources joined, versions fetched, status decided.
type PackageRow struct {
	Name      string   `json:"name"`
	Sources   []string `json:"sources,omitempty"`
	Specifier string   `json:"specifier,omitempty"`
	Installed string   `json:"installed,omitempty"`
	Latest    string   `json:"latest,omitempty"`
	Status    string   `json:"status"`
}

// Package statuses.
const (
	StatusUpToDate     = "up-to-date"
	StatusOutdated     = "outdated"
	StatusInstalled    = "installed"
	StatusNotInstalled = "not installed"
	StatusUndeclared   = "undeclared"
	StatusUnknown      = "unknown"
)

// Reporter is the interface for output formatters.
type Reporter interface {
	// Packages renders the merged dependency listing.
	Packages(rows []PackageRow) ([]byte, error)

	// Search renders registry search results.
	Search(results []models.RegistryPackageInfo) ([]byte, error)

	// Info renders one package's registry metadata plus local state.
	Info(fields []Field) ([]byte, error)

	// Env renders environment diagnostics.
	Env(info models.EnvInfo) ([]byte, error)
}

// Field is one ordered key/value pair of the info view.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Get returns a reporter for the specified format.
func Get(format string) Reporter {
	switch format {
	case "json":
		return &JSONReporter{}
	default:
		return NewTerminalReporter()
	}
}
