package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Cordylus1/Calculadora-OpenProject/internal/config"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/logger"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/server"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/service/excel"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/store"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/tui"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/util"
)

var (
	assignProject string
	assignOpen    bool
)

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign roles interactively and write the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, err := config.EnsureDataDir(cfg)
		if err != nil {
			return err
		}

		// The terminal belongs to the UI; logs go to a file.
		logFile, err := os.OpenFile(filepath.Join(dataDir, "calculadora.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		defer logFile.Close()
		fileLog := logger.NewWithWriter(logFile, cfg.Log.Level, "json")

		source, err := newSource(cfg, fileLog)
		if err != nil {
			return err
		}
		st, err := store.New(filepath.Join(dataDir, server.DBFileName))
		if err != nil {
			return err
		}
		defer st.Close()

		app := tui.NewApp(cmd.Context(), tui.Options{
			Source:    source,
			Emitter:   excel.NewReportEmitter(cfg.Excel.EmitterOptions()),
			ExportDir: filepath.Join(dataDir, "exports"),
			History:   st,
			ProjectID: assignProject,
			Log:       fileLog,
		})
		if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
			return err
		}
		path := app.LastReport()
		if path == "" {
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Informe: %s\n", path)
		if assignOpen {
			if err := util.OpenWithFallback(path); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "No se pudo abrir el informe: %v\n", err)
			}
		}
		return nil
	},
}

func init() {
	assignCmd.Flags().StringVarP(&assignProject, "project", "p", "", "project id or identifier to open directly")
	assignCmd.Flags().BoolVar(&assignOpen, "open", false, "open the last generated report on exit")
}
