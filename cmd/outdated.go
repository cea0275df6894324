package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/depman-cli/depman/internal/reporter"
	"github.com/depman-cli/depman/internal/scanner"
)

var flagOutdatedAll bool

var outdatedCmd = &cobra.Command{
	Use:   "outdated",
	Short: "Show packages with a newer version on the registry",
	Long: `Outdated fetches the latest release of every project dependency and
reports the ones whose installed version lags behind. Lookups run
concurrently with a bounded in-flight cap; packages whose lookup fails are
reported with unknown status only under --all.`,
	Args: cobra.NoArgs,
	RunE: runOutdated,
}

func init() {
	outdatedCmd.Flags().BoolVar(&flagOutdatedAll, "all", false, "Show every package, not just outdated ones")
	rootCmd.AddCommand(outdatedCmd)
}

func runOutdated(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	eco, err := a.ecosystem()
	if err != nil {
		return err
	}

	ctx, cancel := a.registryCtx()
	defer cancel()

	pkgs := scanner.New(eco, flagDir).Load(ctx)
	latest := eco.Registry().LatestVersions(ctx, packageNames(pkgs))

	var rows []reporter.PackageRow
	for _, pkg := range pkgs {
		row := packageRow(pkg, latest[pkg.Name])
		if row.Status != reporter.StatusOutdated && !flagOutdatedAll {
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 && a.cfg.Output.Format != "json" {
		fmt.Println("All packages are up to date.")
		return nil
	}
	out, err := a.reporter().Packages(rows)
	if err != nil {
		return err
	}
	emit(out)
	return nil
}
