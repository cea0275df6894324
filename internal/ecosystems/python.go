package ecosystems

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/depman-cli/depman/internal/execx"
	"github.com/depman-cli/depman/internal/log"
	"github.com/depman-cli/depman/internal/models"
	"github.com/depman-cli/depman/internal/parsers"
	"github.com/depman-cli/depman/internal/registry"
)

const uvTool = "uv"

// pythonManifests are checked for detection and parsed in this order;
// requirements files are expanded by glob in ManifestPaths.
var pythonManifests = []string{"pyproject.toml", "requirements.txt", "setup.py", "setup.cfg", "Pipfile"}

// Python manages dependencies through uv, with byte-level edits for the
// legacy formats uv cannot touch.
type Python struct {
	registry registry.Client
}

// NewPython creates the Python adapter.
func NewPython(opts registry.Options) *Python {
	return &Python{registry: registry.NewPyPI(opts)}
}

func (p *Python) Name() models.Ecosystem { return models.EcosystemPython }
func (p *Python) DisplayName() string    { return "Python" }

// Detect reports true when any Python manifest exists in dir.
func (p *Python) Detect(dir string) bool {
	for _, f := range pythonManifests {
		if _, err := os.Stat(filepath.Join(dir, f)); err == nil {
			return true
		}
	}
	return false
}

// ManifestPaths lists existing manifests: pyproject.toml first, then the
// requirements*.txt glob sorted, then setup.py, setup.cfg, Pipfile.
func (p *Python) ManifestPaths(dir string) []string {
	var paths []string
	add := func(path string) {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			paths = append(paths, path)
		}
	}
	add(filepath.Join(dir, "pyproject.toml"))
	reqs, _ := filepath.Glob(filepath.Join(dir, "requirements*.txt"))
	sort.Strings(reqs)
	for _, r := range reqs {
		add(r)
	}
	add(filepath.Join(dir, "setup.py"))
	add(filepath.Join(dir, "setup.cfg"))
	add(filepath.Join(dir, "Pipfile"))
	return paths
}

func (p *Python) Parsers() []parsers.Parser {
	return parsers.ForEcosystem(models.EcosystemPython)
}

func (p *Python) Registry() registry.Client { return p.registry }

// InstalledVersions overlays uv.lock resolved versions with the live
// environment listing. Lock entries come first so a locked version wins for
// packages present in both.
func (p *Python) InstalledVersions(ctx context.Context, dir string) []models.Installed {
	installed := parseUvLock(filepath.Join(dir, "uv.lock"))

	if _, err := execx.LookTool(uvTool); err != nil {
		return installed
	}
	res, err := execx.Run(ctx, uvTool, []string{"pip", "list", "--format", "json"}, dir)
	if err != nil || res.ExitCode != 0 {
		log.Debug("uv pip list failed: exit %d", res.ExitCode)
		return installed
	}

	var listed []struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal([]byte(res.Stdout), &listed); err != nil {
		log.Debug("uv pip list output unparsable: %v", err)
		return installed
	}
	for _, pkg := range listed {
		if pkg.Name != "" && pkg.Version != "" {
			installed = append(installed, models.Installed{Name: pkg.Name, Version: pkg.Version})
		}
	}
	return installed
}

// uvLock mirrors the repeated [[package]] tables of uv.lock.
type uvLock struct {
	Package []struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
}

// parseUvLock reads resolved versions from uv.lock; any problem yields an
// empty list.
func parseUvLock(path string) []models.Installed {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var lock uvLock
	if err := toml.Unmarshal(data, &lock); err != nil {
		log.Debug("uv.lock unparsable: %v", err)
		return nil
	}
	var installed []models.Installed
	for _, pkg := range lock.Package {
		if pkg.Name != "" && pkg.Version != "" {
			installed = append(installed, models.Installed{Name: pkg.Name, Version: pkg.Version})
		}
	}
	return installed
}

// EnvInfo reports interpreter, tool, and virtualenv state.
func (p *Python) EnvInfo(ctx context.Context, dir string) models.EnvInfo {
	info := models.EnvInfo{
		LanguageName: "Python",
		ToolName:     uvTool,
		EnvLabel:     ".venv",
	}
	if res, err := execx.Run(ctx, "python3", []string{"--version"}, dir); err == nil && res.ExitCode == 0 {
		info.LanguageVersion = versionFromOutput(res.Combined(), 1)
	}
	if res, err := execx.Run(ctx, uvTool, []string{"--version"}, dir); err == nil && res.ExitCode == 0 {
		info.ToolVersion = versionFromOutput(res.Combined(), 1)
	}
	if st, err := os.Stat(filepath.Join(dir, ".venv")); err == nil && st.IsDir() {
		info.EnvExists = true
	}
	return info
}

func (p *Python) DocsURL(name string) string {
	return fmt.Sprintf("https://pypi.org/project/%s/", name)
}

// InitProject bootstraps a minimal pyproject.toml.
func (p *Python) InitProject(ctx context.Context, dir string) (bool, string) {
	return runTool(ctx, dir, uvTool, "init", "--bare")
}

// CreateEnv creates the .venv virtual environment.
func (p *Python) CreateEnv(ctx context.Context, dir string) (bool, string) {
	return runTool(ctx, dir, uvTool, "venv")
}

// Add writes the dependency through uv, which updates pyproject.toml,
// uv.lock, and the environment in one step.
func (p *Python) Add(ctx context.Context, dir string, spec AddSpec) (bool, string) {
	args := []string{"add"}
	if spec.Group != "" && spec.Group != models.GroupMain {
		args = append(args, "--group", spec.Group)
	}
	args = append(args, spec.Spec())
	return runTool(ctx, dir, uvTool, args...)
}

// Remove routes to the right removal strategy for the declaring source.
// uv owns pyproject.toml; requirements files, setup.cfg, and Pipfile have
// no CLI removal support and are edited in place; setup.py is never edited.
func (p *Python) Remove(ctx context.Context, dir, name string, source models.DepSource) (bool, string) {
	switch {
	case source.File == "":
		// Environment-only install: no manifest declares it.
		return runTool(ctx, dir, uvTool, "pip", "uninstall", name)
	case source.File == "pyproject.toml":
		if source.Group != "" && source.Group != models.GroupMain {
			return runTool(ctx, dir, uvTool, "remove", "--group", source.Group, name)
		}
		return runTool(ctx, dir, uvTool, "remove", name)
	case strings.HasPrefix(source.File, "requirements"):
		return removeFromRequirements(filepath.Join(dir, source.File), name)
	case source.File == "setup.cfg":
		return removeFromSetupCfg(filepath.Join(dir, "setup.cfg"), name)
	case source.File == "Pipfile":
		return removeFromPipfile(filepath.Join(dir, "Pipfile"), name)
	case source.File == "setup.py":
		return false, fmt.Sprintf("cannot auto-edit setup.py; please remove '%s' manually", name)
	default:
		return false, fmt.Sprintf("unknown source: %s", source.File)
	}
}

// Sync runs uv sync.
func (p *Python) Sync(ctx context.Context, dir string) (bool, string) {
	return runTool(ctx, dir, uvTool, "sync")
}

// Lock runs uv lock.
func (p *Python) Lock(ctx context.Context, dir string) (bool, string) {
	return runTool(ctx, dir, uvTool, "lock")
}
