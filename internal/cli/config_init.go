package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/smartcarbon/internal/config"
)

// newConfigInitCmd creates the config init command for initializing configuration.
// With --local it creates a project .smartcarbon/ directory with config.yaml
// and .gitignore; otherwise it creates the global ~/.smartcarbon/config.yaml.
func newConfigInitCmd() *cobra.Command {
	var (
		force bool
		local bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

Use --local to create a project overlay at ./.smartcarbon/config.yaml with a
.gitignore that keeps session and log files out of version control.`,
		Example: `  # Create global configuration
  smartcarbon config init

  # Create project-local configuration
  smartcarbon config init --local

  # Create configuration, overwriting existing
  smartcarbon config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if local {
				workDir, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("resolving working directory: %w", err)
				}
				return initProjectConfig(cmd, filepath.Join(workDir, config.DirName), force)
			}
			return initGlobalConfig(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&local, "local", false, "create a project overlay in ./.smartcarbon")

	return cmd
}

// initProjectConfig creates project-local config at projectDir/config.yaml with .gitignore.
func initProjectConfig(cmd *cobra.Command, projectDir string, force bool) error {
	configPath := filepath.Join(projectDir, "config.yaml")

	if err := checkExisting(configPath, force); err != nil {
		return err
	}

	cfg := config.Default()
	cfg.SetConfigPath(configPath)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	// Never overwrites an existing .gitignore.
	created, err := config.EnsureGitignore(projectDir)
	if err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration initialized at %s\n", configPath)
	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "Created .gitignore to keep session data out of version control\n")
	}

	return nil
}

// initGlobalConfig creates global config at ~/.smartcarbon/config.yaml.
func initGlobalConfig(cmd *cobra.Command, force bool) error {
	cfg := config.Default()

	if err := checkExisting(cfg.ConfigPath(), force); err != nil {
		return err
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration initialized successfully\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration file: %s\n", cfg.ConfigPath())

	return nil
}

func checkExisting(path string, force bool) error {
	if force {
		return nil
	}
	_, err := os.Stat(path)
	if err == nil {
		return errors.New("configuration file already exists, use --force to overwrite")
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("cannot access config path %s: %w", path, err)
	}
	return nil
}
