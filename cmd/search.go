package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/depman-cli/depman/internal/models"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the registry for packages",
	Long: `Search queries the ecosystem's registry and prints ranked matches.
PyPI has no search API, so the Python backend fuzzy-matches against the full
package name index, which is cached locally for a day.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
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

	query := strings.Join(args, " ")
	results := eco.Registry().Search(ctx, query)
	if results == nil && eco.Name() == models.EcosystemGo {
		return fmt.Errorf("the Go module proxy has no search endpoint; try https://pkg.go.dev/search?q=%s", query)
	}

	out, err := a.reporter().Search(results)
	if err != nil {
		return err
	}
	emit(out)
	return nil
}
