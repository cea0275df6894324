package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/depman-cli/depman/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage depman configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter depman.yaml into the project directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(flagDir, config.DefaultConfigName)
		if err := config.WriteStarter(path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
