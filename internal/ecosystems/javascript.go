package ecosystems

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/depman-cli/depman/internal/execx"
	"github.com/depman-cli/depman/internal/log"
	"github.com/depman-cli/depman/internal/models"
	"github.com/depman-cli/depman/internal/parsers"
	"github.com/depman-cli/depman/internal/registry"
)

const npmTool = "npm"

// JavaScript manages dependencies through npm.
type JavaScript struct {
	registry registry.Client
}

// NewJavaScript creates the JavaScript adapter.
func NewJavaScript(opts registry.Options) *JavaScript {
	return &JavaScript{registry: registry.NewNpm(opts)}
}

func (j *JavaScript) Name() models.Ecosystem { return models.EcosystemJavaScript }
func (j *JavaScript) DisplayName() string    { return "JavaScript" }

func (j *JavaScript) Detect(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "package.json"))
	return err == nil
}

func (j *JavaScript) ManifestPaths(dir string) []string {
	path := filepath.Join(dir, "package.json")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return []string{path}
}

func (j *JavaScript) Parsers() []parsers.Parser {
	return parsers.ForEcosystem(models.EcosystemJavaScript)
}

func (j *JavaScript) Registry() registry.Client { return j.registry }

// InstalledVersions asks npm for the top-level install tree and falls back
// to package-lock.json when npm is unavailable.
func (j *JavaScript) InstalledVersions(ctx context.Context, dir string) []models.Installed {
	if _, err := execx.LookTool(npmTool); err == nil {
		// npm ls exits non-zero for peer-dep problems but still prints the
		// tree, so only the output shape matters.
		res, runErr := execx.Run(ctx, npmTool, []string{"ls", "--json", "--depth=0"}, dir)
		if runErr == nil && res.Stdout != "" {
			var tree struct {
				Dependencies map[string]struct {
					Version string `json:"version"`
				} `json:"dependencies"`
			}
			if err := json.Unmarshal([]byte(res.Stdout), &tree); err == nil && len(tree.Dependencies) > 0 {
				names := make([]string, 0, len(tree.Dependencies))
				for name := range tree.Dependencies {
					names = append(names, name)
				}
				sort.Strings(names)
				installed := make([]models.Installed, 0, len(names))
				for _, name := range names {
					if v := tree.Dependencies[name].Version; v != "" {
						installed = append(installed, models.Installed{Name: name, Version: v})
					}
				}
				return installed
			}
		}
	}
	return parsePackageLock(filepath.Join(dir, "package-lock.json"))
}

// packageLock covers the v1 and v2/v3 lockfile shapes.
type packageLock struct {
	Packages map[string]struct {
		Version string `json:"version"`
	} `json:"packages"`
	Dependencies map[string]struct {
		Version string `json:"version"`
	} `json:"dependencies"`
}

// parsePackageLock reads top-level installed versions from
// package-lock.json; any problem yields an empty list.
func parsePackageLock(path string) []models.Installed {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var lock packageLock
	if err := json.Unmarshal(data, &lock); err != nil {
		log.Debug("package-lock.json unparsable: %v", err)
		return nil
	}

	versions := make(map[string]string)
	for path, pkg := range lock.Packages {
		name, ok := strings.CutPrefix(path, "node_modules/")
		// Only direct entries; nested node_modules are transitive copies.
		if !ok || strings.Contains(name, "node_modules/") || pkg.Version == "" {
			continue
		}
		versions[name] = pkg.Version
	}
	if len(versions) == 0 {
		for name, pkg := range lock.Dependencies {
			if pkg.Version != "" {
				versions[name] = pkg.Version
			}
		}
	}

	names := make([]string, 0, len(versions))
	for name := range versions {
		names = append(names, name)
	}
	sort.Strings(names)
	installed := make([]models.Installed, 0, len(names))
	for _, name := range names {
		installed = append(installed, models.Installed{Name: name, Version: versions[name]})
	}
	return installed
}

func (j *JavaScript) EnvInfo(ctx context.Context, dir string) models.EnvInfo {
	info := models.EnvInfo{
		LanguageName: "Node.js",
		ToolName:     npmTool,
		EnvLabel:     "node_modules",
	}
	if res, err := execx.Run(ctx, "node", []string{"--version"}, dir); err == nil && res.ExitCode == 0 {
		info.LanguageVersion = strings.TrimPrefix(strings.TrimSpace(res.Combined()), "v")
	}
	if res, err := execx.Run(ctx, npmTool, []string{"--version"}, dir); err == nil && res.ExitCode == 0 {
		info.ToolVersion = strings.TrimSpace(res.Combined())
	}
	if st, err := os.Stat(filepath.Join(dir, "node_modules")); err == nil && st.IsDir() {
		info.EnvExists = true
	}
	return info
}

func (j *JavaScript) DocsURL(name string) string {
	return fmt.Sprintf("https://www.npmjs.com/package/%s", name)
}

func (j *JavaScript) InitProject(ctx context.Context, dir string) (bool, string) {
	return runTool(ctx, dir, npmTool, "init", "-y")
}

// CreateEnv installs the declared tree, which materializes node_modules.
func (j *JavaScript) CreateEnv(ctx context.Context, dir string) (bool, string) {
	return runTool(ctx, dir, npmTool, "install")
}

// Add installs name@version; npm's group flags route it to the right table.
func (j *JavaScript) Add(ctx context.Context, dir string, spec AddSpec) (bool, string) {
	pkg := spec.Name
	if spec.Version != "" {
		pkg = spec.Name + "@" + spec.Version
	}
	args := []string{"install"}
	switch spec.Group {
	case "dev":
		args = append(args, "--save-dev")
	case "optional":
		args = append(args, "--save-optional")
	}
	args = append(args, pkg)
	return runTool(ctx, dir, npmTool, args...)
}

// Remove uninstalls through npm, which edits package.json and the lockfile
// together; the group decides the save flag.
func (j *JavaScript) Remove(ctx context.Context, dir, name string, source models.DepSource) (bool, string) {
	args := []string{"uninstall"}
	switch source.Group {
	case "dev":
		args = append(args, "--save-dev")
	case "optional":
		args = append(args, "--save-optional")
	}
	args = append(args, name)
	return runTool(ctx, dir, npmTool, args...)
}

func (j *JavaScript) Sync(ctx context.Context, dir string) (bool, string) {
	return runTool(ctx, dir, npmTool, "install")
}

func (j *JavaScript) Lock(ctx context.Context, dir string) (bool, string) {
	return runTool(ctx, dir, npmTool, "install", "--package-lock-only")
}
