package ecosystems

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/depman-cli/depman/internal/execx"
	"github.com/depman-cli/depman/internal/models"
	"github.com/depman-cli/depman/internal/parsers"
	"github.com/depman-cli/depman/internal/registry"
)

const goTool = "go"

// Go manages dependencies through the go tool and the module proxy.
type Go struct {
	registry registry.Client
}

// NewGo creates the Go adapter.
func NewGo(opts registry.Options) *Go {
	return &Go{registry: registry.NewGoProxy(opts)}
}

func (g *Go) Name() models.Ecosystem { return models.EcosystemGo }
func (g *Go) DisplayName() string    { return "Go" }

func (g *Go) Detect(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "go.mod"))
	return err == nil
}

func (g *Go) ManifestPaths(dir string) []string {
	path := filepath.Join(dir, "go.mod")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return []string{path}
}

func (g *Go) Parsers() []parsers.Parser {
	return parsers.ForEcosystem(models.EcosystemGo)
}

func (g *Go) Registry() registry.Client { return g.registry }

// InstalledVersions reads the resolved module list. The first line is the
// main module and carries no version.
func (g *Go) InstalledVersions(ctx context.Context, dir string) []models.Installed {
	if _, err := execx.LookTool(goTool); err != nil {
		return nil
	}
	res, err := execx.Run(ctx, goTool, []string{"list", "-m", "all"}, dir)
	if err != nil || res.ExitCode != 0 {
		return nil
	}

	var installed []models.Installed
	for _, line := range strings.Split(res.Stdout, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		installed = append(installed, models.Installed{Name: fields[0], Version: fields[1]})
	}
	return installed
}

func (g *Go) EnvInfo(ctx context.Context, dir string) models.EnvInfo {
	info := models.EnvInfo{
		LanguageName: "Go",
		ToolName:     goTool,
		EnvLabel:     "GOPATH",
	}
	if res, err := execx.Run(ctx, goTool, []string{"version"}, dir); err == nil && res.ExitCode == 0 {
		// "go version go1.24.2 linux/amd64"
		v := versionFromOutput(res.Combined(), 2)
		info.LanguageVersion = strings.TrimPrefix(v, "go")
		info.ToolVersion = info.LanguageVersion
	}
	if res, err := execx.Run(ctx, goTool, []string{"env", "GOPATH"}, dir); err == nil && res.ExitCode == 0 {
		gopath := strings.TrimSpace(res.Stdout)
		if st, statErr := os.Stat(gopath); statErr == nil && st.IsDir() {
			info.EnvExists = true
		}
	}
	return info
}

func (g *Go) DocsURL(name string) string {
	return fmt.Sprintf("https://pkg.go.dev/%s", name)
}

// InitProject creates go.mod named after the directory.
func (g *Go) InitProject(ctx context.Context, dir string) (bool, string) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return false, err.Error()
	}
	return runTool(ctx, dir, goTool, "mod", "init", filepath.Base(abs))
}

// CreateEnv has no Go equivalent: the toolchain manages the module cache.
func (g *Go) CreateEnv(ctx context.Context, dir string) (bool, string) {
	return false, "not applicable: the Go toolchain manages the module cache itself"
}

// Add fetches name@version into the module graph.
func (g *Go) Add(ctx context.Context, dir string, spec AddSpec) (bool, string) {
	target := spec.Name + "@latest"
	if spec.Version != "" {
		v := spec.Version
		if !strings.HasPrefix(v, "v") {
			v = "v" + v
		}
		target = spec.Name + "@" + v
	}
	return runTool(ctx, dir, goTool, "get", target)
}

// Remove drops the requirement via the @none selector.
func (g *Go) Remove(ctx context.Context, dir, name string, source models.DepSource) (bool, string) {
	return runTool(ctx, dir, goTool, "get", name+"@none")
}

func (g *Go) Sync(ctx context.Context, dir string) (bool, string) {
	return runTool(ctx, dir, goTool, "mod", "tidy")
}

func (g *Go) Lock(ctx context.Context, dir string) (bool, string) {
	return runTool(ctx, dir, goTool, "mod", "download")
}
