package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/depman-cli/depman/internal/manager"
	"github.com/depman-cli/depman/internal/models"
	"github.com/depman-cli/depman/internal/scanner"
)

var (
	flagRemoveSource string
	flagRemoveGroup  string
)

var removeCmd = &cobra.Command{
	Use:     "remove <package>",
	Aliases: []string{"rm"},
	Short:   "Uninstall a package and delete its declaration",
	Long: `Remove deletes the package from the manifest that declares it and
uninstalls it from the environment. When several files declare the same
package, --source (and --group for grouped formats) picks which declaration
to delete; removal never guesses between candidates.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().StringVar(&flagRemoveSource, "source", "", "Manifest file declaring the package, e.g. requirements.txt")
	removeCmd.Flags().StringVar(&flagRemoveGroup, "group", "", "Dependency group of the declaration, e.g. dev")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	eco, err := a.ecosystem()
	if err != nil {
		return err
	}
	name := args[0]

	ctx, cancel := a.registryCtx()
	pkgs := scanner.New(eco, flagDir).Load(ctx)
	cancel()

	pkg, found := scanner.Find(pkgs, name)
	if !found {
		return fmt.Errorf("%q is neither declared nor installed in this project", name)
	}

	source, err := chooseSource(pkg)
	if err != nil {
		return err
	}

	res := manager.New(eco, flagDir).Remove(cmd.Context(), pkg.Name, source)
	return report(res, fmt.Sprintf("Removed %s", pkg.Name))
}

// chooseSource resolves which declaration to delete. Zero sources means an
// environment-only removal; one source needs no disambiguation; more than
// one requires the flags to name exactly one candidate.
func chooseSource(pkg models.Package) (models.DepSource, error) {
	sources := pkg.Sources
	if flagRemoveSource != "" || flagRemoveGroup != "" {
		var matched []models.DepSource
		for _, src := range sources {
			if flagRemoveSource != "" && src.File != flagRemoveSource {
				continue
			}
			if flagRemoveGroup != "" && src.Group != flagRemoveGroup {
				continue
			}
			matched = append(matched, src)
		}
		sources = matched
	}

	switch len(sources) {
	case 0:
		if flagRemoveSource != "" || flagRemoveGroup != "" {
			return models.DepSource{}, fmt.Errorf("no declaration of %q matches --source/--group; declared in: %s",
				pkg.Name, sourceLabels(pkg.Sources))
		}
		// Installed but undeclared: uninstall from the environment only.
		return models.DepSource{}, nil
	case 1:
		return sources[0], nil
	default:
		return models.DepSource{}, fmt.Errorf("%q is declared in multiple places (%s); pick one with --source and --group",
			pkg.Name, sourceLabels(sources))
	}
}

func sourceLabels(sources []models.DepSource) string {
	labels := make([]string, 0, len(sources))
	for _, src := range sources {
		labels = append(labels, src.Label())
	}
	return strings.Join(labels, ", ")
}
