package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/depman-cli/depman/internal/manager"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the environment with the lockfile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := dispatcher()
		if err != nil {
			return err
		}
		return report(d.Sync(cmd.Context()), "Environment synchronized")
	},
}

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Regenerate the lockfile from the manifest",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := dispatcher()
		if err != nil {
			return err
		}
		return report(d.Lock(cmd.Context()), "Lockfile written")
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new project manifest in the directory",
	Long: `Init bootstraps a minimal manifest for the chosen ecosystem. In an
empty directory --ecosystem is required since there is nothing to detect.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if flagEcosystem == "" {
			return fmt.Errorf("init needs --ecosystem (python, javascript, or go)")
		}
		eco, err := a.ecosystem()
		if err != nil {
			return err
		}
		res := manager.New(eco, flagDir).Init(cmd.Context())
		return report(res, fmt.Sprintf("Initialized %s project", eco.DisplayName()))
	},
}

var createEnvCmd = &cobra.Command{
	Use:   "create-env",
	Short: "Create the local environment (.venv, node_modules)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := dispatcher()
		if err != nil {
			return err
		}
		return report(d.CreateEnv(cmd.Context()), "Environment created")
	},
}

func init() {
	rootCmd.AddCommand(syncCmd, lockCmd, initCmd, createEnvCmd)
}

// dispatcher builds the serialized mutation runner for the selected
// ecosystem.
func dispatcher() (*manager.Dispatcher, error) {
	a, err := newApp()
	if err != nil {
		return nil, err
	}
	eco, err := a.ecosystem()
	if err != nil {
		return nil, err
	}
	return manager.New(eco, flagDir), nil
}
