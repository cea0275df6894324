package cmd

import (
	"github.com/spf13/cobra"

	"github.com/depman-cli/depman/internal/models"
	"github.com/depman-cli/depman/internal/reporter"
	"github.com/depman-cli/depman/internal/scanner"
)

var flagListLatest bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every dependency with its sources and installed version",
	Long: `List merges all manifest declarations with the installed environment.
Packages declared in several files appear once, with every declaring source.
Installed packages no manifest declares are listed as undeclared.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&flagListLatest, "latest", false, "Also fetch the latest registry version per package")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
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

	latest := map[string]string{}
	if flagListLatest {
		latest = eco.Registry().LatestVersions(ctx, packageNames(pkgs))
	}

	rows := make([]reporter.PackageRow, 0, len(pkgs))
	for _, pkg := range pkgs {
		row := packageRow(pkg, latest[pkg.Name])
		if !flagListLatest && row.Status == reporter.StatusUnknown {
			row.Status = reporter.StatusInstalled
		}
		rows = append(rows, row)
	}

	out, err := a.reporter().Packages(rows)
	if err != nil {
		return err
	}
	emit(out)
	return nil
}

func packageNames(pkgs []models.Package) []string {
	names := make([]string, 0, len(pkgs))
	for _, pkg := range pkgs {
		names = append(names, pkg.Name)
	}
	return names
}
