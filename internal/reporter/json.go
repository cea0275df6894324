package reporter

import (
	"encoding/json"

	"github.com/depman-cli/depman/internal/models"
)

// JSONReporter outputs machine-readable JSON.
type JSONReporter struct{}

func marshal(v any) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// Packages generates JSON output for the package listing.
func (r *JSONReporter) Packages(rows []PackageRow) ([]byte, error) {
	if rows == nil {
		rows = []PackageRow{}
	}
	return marshal(struct {
		Total    int          `json:"total"`
		Packages []PackageRow `json:"packages"`
	}{len(rows), rows})
}

// Search generates JSON output for search results.
func (r *JSONReporter) Search(results []models.RegistryPackageInfo) ([]byte, error) {
	if results == nil {
		results = []models.RegistryPackageInfo{}
	}
	return marshal(struct {
		Total   int                          `json:"total"`
		Results []models.RegistryPackageInfo `json:"results"`
	}{len(results), results})
}

// Info generates JSON output for the package detail view.
func (r *JSONReporter) Info(fields []Field) ([]byte, error) {
	obj := make(map[string]string, len(fields))
	for _, f := range fields {
		obj[f.Key] = f.Value
	}
	return marshal(obj)
}

// Env generates JSON output for environment diagnostics.
func (r *JSONReporter) Env(info models.EnvInfo) ([]byte, error) {
	return marshal(info)
}
