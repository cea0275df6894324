// Package ecosystems implements the per-ecosystem adapters that map a
// uniform capability interface onto each package manager and registry.
package ecosystems

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/depman-cli/depman/internal/cache"
	"github.com/depman-cli/depman/internal/execx"
	"github.com/depman-cli/depman/internal/models"
	"github.com/depman-cli/depman/internal/parsers"
	"github.com/depman-cli/depman/internal/registry"
)

// ErrNoEcosystem reports that the target directory contains no recognizable
// project. Surfaced distinctly so the CLI can offer initialization instead
// of operating on an undefined state.
var ErrNoEcosystem = errors.New("no ecosystem detected in this directory")

// Ecosystem is the flat capability interface implemented once per
// language/package-manager pairing. Implementations are selected at runtime
// by directory detection; none of them hold state across calls.
type Ecosystem interface {
	Name() models.Ecosystem
	DisplayName() string

	// Detect reports whether this ecosystem's manifest files exist in dir.
	Detect(dir string) bool

	// ManifestPaths returns the existing manifest files in dir, in the
	// fixed order that parsers run. The order decides first-seen display
	// names during merging.
	ManifestPaths(dir string) []string

	Parsers() []parsers.Parser

	// InstalledVersions resolves concrete installed versions from the local
	// environment. Tool-not-found and command failure degrade to an empty
	// result.
	InstalledVersions(ctx context.Context, dir string) []models.Installed

	Registry() registry.Client
	EnvInfo(ctx context.Context, dir string) models.EnvInfo
	DocsURL(name string) string

	InitProject(ctx context.Context, dir string) (bool, string)
	CreateEnv(ctx context.Context, dir string) (bool, string)
	Add(ctx context.Context, dir string, spec AddSpec) (bool, string)
	Remove(ctx context.Context, dir, name string, source models.DepSource) (bool, string)
	Sync(ctx context.Context, dir string) (bool, string)
	Lock(ctx context.Context, dir string) (bool, string)
}

// AddSpec describes one add/update request.
type AddSpec struct {
	Name       string
	Version    string // empty means latest
	Constraint string // "==", ">=", ... defaults to "=="
	Group      string // empty or "main" for the default group
}

// Spec renders the package argument handed to the tool.
func (s AddSpec) Spec() string {
	if s.Version == "" {
		return s.Name
	}
	constraint := s.Constraint
	if constraint == "" {
		constraint = "=="
	}
	return s.Name + constraint + s.Version
}

// Config carries the shared registry settings plus the per-ecosystem base
// URLs; empty URLs fall back to the public registries.
type Config struct {
	PyPIURL     string
	NpmURL      string
	GoProxyURL  string
	Timeout     time.Duration
	Concurrency int
	Cache       *cache.Cache
}

func (c Config) registryOptions(baseURL string) registry.Options {
	return registry.Options{
		BaseURL:     baseURL,
		Timeout:     c.Timeout,
		Concurrency: c.Concurrency,
		Cache:       c.Cache,
	}
}

// All returns every known ecosystem, in the fixed detection order.
func All(cfg Config) []Ecosystem {
	return []Ecosystem{
		NewPython(cfg.registryOptions(cfg.PyPIURL)),
		NewJavaScript(cfg.registryOptions(cfg.NpmURL)),
		NewGo(cfg.registryOptions(cfg.GoProxyURL)),
	}
}

// Detect returns the ecosystems whose files are present in dir, or
// ErrNoEcosystem when none match.
func Detect(dir string, all []Ecosystem) ([]Ecosystem, error) {
	var found []Ecosystem
	for _, eco := range all {
		if eco.Detect(dir) {
			found = append(found, eco)
		}
	}
	if len(found) == 0 {
		return nil, ErrNoEcosystem
	}
	return found, nil
}

// ByName finds an ecosystem by its name.
func ByName(name string, all []Ecosystem) (Ecosystem, bool) {
	for _, eco := range all {
		if string(eco.Name()) == name {
			return eco, true
		}
	}
	return nil, false
}

// runTool invokes a package-manager command and folds the result into the
// (success, message) mutation contract. The message is the tool's combined
// output, passed through verbatim.
func runTool(ctx context.Context, dir, tool string, args ...string) (bool, string) {
	if _, err := execx.LookTool(tool); err != nil {
		return false, fmt.Sprintf("'%s' is not installed or not on your PATH", tool)
	}
	res, err := execx.Run(ctx, tool, args, dir)
	if err != nil {
		return false, err.Error()
	}
	return res.ExitCode == 0, res.Combined()
}

// versionFromOutput pulls the version field out of "tool x.y.z"-style
// version banners.
func versionFromOutput(out string, field int) string {
	parts := strings.Fields(strings.TrimSpace(out))
	if len(parts) > field {
		return parts[field]
	}
	return strings.TrimSpace(out)
}
