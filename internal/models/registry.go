package models

// RegistryPackageInfo is the ephemeral result of a registry query. It is
// never persisted; it annotates one display cycle or validation decision.
type RegistryPackageInfo struct {
	Name          string `json:"name"`
	LatestVersion string `json:"latest_version"`
	Description   string `json:"description"`
	License       string `json:"license,omitempty"`
	Homepage      string `json:"homepage,omitempty"`
	Author        string `json:"author,omitempty"`
	Requires      string `json:"requires,omitempty"`
}
