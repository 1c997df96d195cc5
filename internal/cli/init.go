package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"vsm/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to .vsm/config.yaml",
	Long: `Create .vsm/ within --dir and write the configuration currently in effect
(defaults, vsm.yaml, .env and VSM_* overrides) to .vsm/config.yaml.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := GetRootDir()
	path := config.ConfigPath(dir)

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.EnsureVSMDir(dir); err != nil {
		return fmt.Errorf("failed to create .vsm directory: %w", err)
	}
	if err := GetConfig().Save(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
