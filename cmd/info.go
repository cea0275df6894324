package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/depman-cli/depman/internal/reporter"
	"github.com/depman-cli/depman/internal/scanner"
)

var infoCmd = &cobra.Command{
	Use:   "info <package>",
	Short: "Show registry metadata and local state for one package",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
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
	defer cancel()

	meta := eco.Registry().Metadata(ctx, name)

	fields := []reporter.Field{
		{Key: "Name", Value: name},
		{Key: "Latest", Value: meta["latest_version"]},
		{Key: "Description", Value: meta["description"]},
		{Key: "License", Value: meta["license"]},
		{Key: "Author", Value: meta["author"]},
		{Key: "Homepage", Value: meta["homepage"]},
		{Key: "Requires", Value: meta["requires"]},
	}

	// Local state, when the package is part of this project.
	pkgs := scanner.New(eco, flagDir).Load(ctx)
	if pkg, found := scanner.Find(pkgs, name); found {
		fields[0].Value = pkg.Name
		fields = append(fields,
			reporter.Field{Key: "Installed", Value: pkg.InstalledVersion},
			reporter.Field{Key: "Declared in", Value: sourceLabels(pkg.Sources)},
		)
	}
	fields = append(fields, reporter.Field{Key: "Docs", Value: eco.DocsURL(name)})

	if allEmpty(fields[1 : len(fields)-1]) {
		fields = append(fields, reporter.Field{Key: "Note", Value: "no registry metadata found"})
	}

	out, err := a.reporter().Info(fields)
	if err != nil {
		return err
	}
	emit(out)
	return nil
}

func allEmpty(fields []reporter.Field) bool {
	for _, f := range fields {
		if strings.TrimSpace(f.Value) != "" {
			return false
		}
	}
	return true
}
