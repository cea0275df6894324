package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/depman-cli/depman/internal/ecosystems"
	"github.com/depman-cli/depman/internal/log"
	"github.com/depman-cli/depman/internal/manager"
)

var (
	flagAddVersion    string
	flagAddConstraint string
	flagAddGroup      string
	flagAddNoVerify   bool
)

var addCmd = &cobra.Command{
	Use:   "add <package>[@version]",
	Short: "Install a package and record it in the manifest",
	Long: `Add validates the package against the registry, then hands the install
to the native package manager, which updates the manifest, the lockfile, and
the environment together.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&flagAddVersion, "version", "", "Exact version to install (default: latest)")
	addCmd.Flags().StringVar(&flagAddConstraint, "constraint", "", "Version constraint operator, e.g. '>='")
	addCmd.Flags().StringVarP(&flagAddGroup, "group", "g", "", "Dependency group, e.g. dev")
	addCmd.Flags().BoolVar(&flagAddNoVerify, "no-verify", false, "Skip the registry existence check")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	eco, err := a.ecosystem()
	if err != nil {
		return err
	}

	name, version := splitNameVersion(args[0])
	if flagAddVersion != "" {
		version = flagAddVersion
	}
	spec := ecosystems.AddSpec{
		Name:       name,
		Version:    version,
		Constraint: flagAddConstraint,
		Group:      flagAddGroup,
	}

	if !flagAddNoVerify {
		ctx, cancel := a.registryCtx()
		valid, reason, resolved := eco.Registry().Resolve(ctx, name, version)
		cancel()
		if !valid {
			return fmt.Errorf("cannot add %q: %s", name, reason)
		}
		if version == "" && resolved != "" {
			log.Debug("latest version of %s is %s", name, resolved)
		}
	}

	res := manager.New(eco, flagDir).Add(cmd.Context(), spec)
	return report(res, fmt.Sprintf("Added %s", spec.Spec()))
}

// splitNameVersion splits "name@version". The last @ is the separator so
// scoped npm names like @types/node survive.
func splitNameVersion(arg string) (name, version string) {
	if idx := strings.LastIndex(arg, "@"); idx > 0 {
		return arg[:idx], arg[idx+1:]
	}
	return arg, ""
}

// report prints the mutation outcome and folds failure into the exit code.
func report(res manager.Result, success string) error {
	if !res.OK {
		return fmt.Errorf("%s", strings.TrimSpace(res.Message))
	}
	if msg := strings.TrimSpace(res.Message); msg != "" {
		fmt.Println(msg)
	} else {
		fmt.Println(success)
	}
	return nil
}
