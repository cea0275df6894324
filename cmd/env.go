package cmd

import (
	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show toolchain and environment diagnostics",
	Long: `Env reports, for every ecosystem detected in the project directory,
the language version, the package manager version, and whether the local
environment exists.`,
	Args: cobra.NoArgs,
	RunE: runEnv,
}

func init() {
	rootCmd.AddCommand(envCmd)
}

func runEnv(cmd *cobra.Command, args []string) error {
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

	out, err := a.reporter().Env(eco.EnvInfo(ctx, flagDir))
	if err != nil {
		return err
	}
	emit(out)
	return nil
}
