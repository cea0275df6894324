package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/depman-cli/depman/internal/cache"
	"github.com/depman-cli/depman/internal/config"
	"github.com/depman-cli/depman/internal/ecosystems"
	"github.com/depman-cli/depman/internal/log"
	"github.com/depman-cli/depman/internal/models"
	"github.com/depman-cli/depman/internal/reporter"
)

var (
	flagDir       string
	flagEcosystem string
	flagFormat    string
	flagConfig    string
	flagNoCache   bool
	flagVerbose   bool
	flagTimeout   int
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "depman",
	Short: "Manage project dependencies across Python, JavaScript, and Go",
	Long: `depman reads every dependency manifest in a project, merges the
declarations with the installed environment, and drives the native package
manager for changes.

It supports multiple ecosystems:
  - Python: pyproject.toml, requirements*.txt, setup.py, setup.cfg, Pipfile (via uv)
  - JavaScript: package.json (via npm)
  - Go: go.mod (via the go tool)

Examples:
  # List all dependencies of the current directory
  depman list

  # Show packages with a newer release on the registry
  depman outdated

  # Install a package into the dev group
  depman add pytest --group dev

  # Remove a package, picking the declaring file when ambiguous
  depman remove requests --source requirements.txt

  # Search the registry
  depman search "http client"

  # Output as JSON
  depman list --format json`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagDir, "dir", "d", ".", "Project directory to operate on")
	pf.StringVarP(&flagEcosystem, "ecosystem", "e", "", "Ecosystem to use: python, javascript, go (default: detected)")
	pf.StringVarP(&flagFormat, "format", "f", "", "Output format: table, json")
	pf.StringVar(&flagConfig, "config", "", "Config file path (default: <dir>/depman.yaml if present)")
	pf.BoolVar(&flagNoCache, "no-cache", false, "Disable the registry response cache")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	pf.IntVar(&flagTimeout, "timeout", 0, "Registry request timeout in seconds")
}

// app bundles everything a command needs after flags and config are merged.
type app struct {
	cfg   *config.Config
	cache *cache.Cache
	all   []ecosystems.Ecosystem
}

// newApp loads configuration, applies flag overrides, and builds the
// ecosystem set.
func newApp() (*app, error) {
	cfg, err := config.NewLoader().Load(configPath())
	if err != nil {
		return nil, err
	}
	if flagTimeout > 0 {
		cfg.Registries.Timeout = time.Duration(flagTimeout) * time.Second
	}
	if flagFormat != "" {
		cfg.Output.Format = flagFormat
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	log.SetVerbose(flagVerbose || cfg.Output.Verbose)

	var store *cache.Cache
	if cfg.Cache.Enabled && !flagNoCache {
		store, err = cache.New("depman", cfg.Cache.TTL)
		if err != nil {
			log.Warn("cache unavailable: %v", err)
			store = nil
		}
	}

	a := &app{cfg: cfg, cache: store}
	a.all = ecosystems.All(ecosystems.Config{
		PyPIURL:     cfg.Registries.PyPIURL,
		NpmURL:      cfg.Registries.NpmURL,
		GoProxyURL:  cfg.Registries.GoProxyURL,
		Timeout:     cfg.Registries.Timeout,
		Concurrency: cfg.Registries.Concurrency,
		Cache:       store,
	})
	return a, nil
}

// configPath resolves the effective config file: the explicit flag, then
// <dir>/depman.yaml, then the user config dir, otherwise nothing.
func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	implicit := filepath.Join(flagDir, config.DefaultConfigName)
	if _, err := os.Stat(implicit); err == nil {
		return implicit
	}
	if base, err := os.UserConfigDir(); err == nil {
		user := filepath.Join(base, "depman", "config.yaml")
		if _, err := os.Stat(user); err == nil {
			return user
		}
	}
	return ""
}

// ecosystem picks the adapter: the one named by --ecosystem, otherwise the
// first detected in the project directory.
func (a *app) ecosystem() (ecosystems.Ecosystem, error) {
	if flagEcosystem != "" {
		eco, ok := ecosystems.ByName(flagEcosystem, a.all)
		if !ok {
			return nil, fmt.Errorf("unknown ecosystem %q (want python, javascript, or go)", flagEcosystem)
		}
		return eco, nil
	}
	found, err := ecosystems.Detect(flagDir, a.all)
	if err != nil {
		return nil, fmt.Errorf("%w; run 'depman init --ecosystem <name>' to start a project", err)
	}
	if len(found) > 1 {
		names := make([]string, 0, len(found))
		for _, eco := range found {
			names = append(names, string(eco.Name()))
		}
		log.Debug("multiple ecosystems detected (%s), using %s", strings.Join(names, ", "), found[0].Name())
	}
	return found[0], nil
}

func (a *app) reporter() reporter.Reporter {
	return reporter.Get(a.cfg.Output.Format)
}

// registryCtx bounds read-only registry traffic; mutations run without a
// deadline because package managers legitimately take minutes.
func (a *app) registryCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.cfg.Registries.Timeout*4)
}

func emit(out []byte) {
	os.Stdout.Write(out)
}

// packageStatus classifies one package against the registry's latest version.
func packageStatus(pkg models.Package, latest string) string {
	switch {
	case !pkg.Declared():
		return reporter.StatusUndeclared
	case pkg.InstalledVersion == "":
		return reporter.StatusNotInstalled
	case latest == "":
		return reporter.StatusUnknown
	case strings.TrimPrefix(pkg.InstalledVersion, "v") != strings.TrimPrefix(latest, "v"):
		return reporter.StatusOutdated
	default:
		return reporter.StatusUpToDate
	}
}

// packageRow flattens one merged package for rendering.
func packageRow(pkg models.Package, latest string) reporter.PackageRow {
	row := reporter.PackageRow{
		Name:      pkg.Name,
		Installed: pkg.InstalledVersion,
		Latest:    latest,
		Status:    packageStatus(pkg, latest),
	}
	for _, src := range pkg.Sources {
		row.Sources = append(row.Sources, src.Label())
		if row.Specifier == "" && src.Specifier != "" && src.Specifier != "*" {
			row.Specifier = src.Specifier
		}
	}
	return row
}
