package cmd

import (
	"fmt"

	"github.com/Saikiran1923/Aura-x/pkg/filesystem"
	"github.com/spf13/cobra"
)

var initForceFlag bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if filesystem.FileExists(configPathFlag) && !initForceFlag {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configPathFlag)
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.Save(configPathFlag); err != nil {
			return fmt.Errorf("failed to write %s: %w", configPathFlag, err)
		}
		fmt.Printf("Wrote %s (model %s, projects under %s)\n", configPathFlag, cfg.Model, cfg.ProjectsRoot)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForceFlag, "force", false, "overwrite an existing config file")
}
