package models

// EnvInfo is a snapshot of the local toolchain state for one ecosystem.
// Recomputed on demand, never cached across refreshes.
type EnvInfo struct {
	LanguageName    string `json:"language_name"`
	LanguageVersion string `json:"language_version"`
	ToolName        string `json:"tool_name"`
	ToolVersion     string `json:"tool_version"`
	EnvLabel        string `json:"env_label"` // ".venv", "node_modules", "GOPATH"
	EnvExists       bool   `json:"env_exists"`
}
