package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Cordylus1/Calculadora-OpenProject/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config.toml",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgInfo.FileFound && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfgInfo.Path)
		}
		// defaults only: credentials picked up from the environment stay out of the file
		if err := config.SaveConfig(config.DefaultConfig(), cfgInfo.Path); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "config written to %s\n", cfgInfo.Path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}
