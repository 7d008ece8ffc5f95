package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Cordylus1/Calculadora-OpenProject/internal/config"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/logger"
)

var (
	// Global flags
	configPath string
	logLevel   string

	cfg     *config.AppConfig
	cfgInfo config.LoadConfigInfo
	log     zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "calculadora",
	Short: "Calculadora OpenProject - horas por rol",
	Long: `Calculadora reads the time entries of an OpenProject project, assigns every
user to one of the fixed roles and writes the per-role hours into an Excel report.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, cfgInfo, err = config.LoadConfigWithInfo(configPath)
		if err != nil {
			return fmt.Errorf("load config %s: %w", cfgInfo.Path, err)
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		log = logger.New(cfg.Log.Level, cfg.Log.Format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config.toml path (default: next to the executable)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(reportsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
