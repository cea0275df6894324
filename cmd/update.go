package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/depman-cli/depman/internal/ecosystems"
	"github.com/depman-cli/depman/internal/manager"
	"github.com/depman-cli/depman/internal/models"
	"github.com/depman-cli/depman/internal/reporter"
	"github.com/depman-cli/depman/internal/scanner"
)

var flagUpdateAll bool

var updateCmd = &cobra.Command{
	Use:     "update [package...]",
	Aliases: []string{"upgrade"},
	Short:   "Reinstall packages at their latest registry version",
	Long: `Update reinstalls the named packages at the latest version the
registry publishes, preserving each declaration's group. With --all it
updates every outdated declared package.`,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&flagUpdateAll, "all", false, "Update every outdated package")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !flagUpdateAll {
		return fmt.Errorf("name packages to update, or pass --all")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	eco, err := a.ecosystem()
	if err != nil {
		return err
	}

	ctx, cancel := a.registryCtx()
	pkgs := scanner.New(eco, flagDir).Load(ctx)

	var targets []models.Package
	if flagUpdateAll {
		latest := eco.Registry().LatestVersions(ctx, packageNames(pkgs))
		for _, pkg := range pkgs {
			if packageStatus(pkg, latest[pkg.Name]) == reporter.StatusOutdated {
				targets = append(targets, pkg)
			}
		}
	} else {
		for _, name := range args {
			pkg, found := scanner.Find(pkgs, name)
			if !found {
				cancel()
				return fmt.Errorf("%q is not a dependency of this project", name)
			}
			if !pkg.Declared() {
				cancel()
				return fmt.Errorf("%q is installed but not declared; use 'depman add' to adopt it", name)
			}
			targets = append(targets, pkg)
		}
	}
	cancel()

	if len(targets) == 0 {
		fmt.Println("Nothing to update.")
		return nil
	}

	d := manager.New(eco, flagDir)
	for _, pkg := range targets {
		spec := ecosystems.AddSpec{Name: pkg.Name, Group: updateGroup(pkg)}
		res := d.Update(cmd.Context(), spec)
		if !res.OK {
			return fmt.Errorf("update %s: %s", pkg.Name, res.Message)
		}
		fmt.Printf("Updated %s\n", pkg.Name)
	}
	return nil
}

// updateGroup keeps the package in its declared group; the first source
// decides when a package belongs to several.
func updateGroup(pkg models.Package) string {
	if len(pkg.Sources) > 0 {
		return pkg.Sources[0].Group
	}
	return ""
}
