package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Cordylus1/Calculadora-OpenProject/internal/config"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/server"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/store"
)

var reportsLimit int

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Show the history of generated reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, err := config.EnsureDataDir(cfg)
		if err != nil {
			return err
		}
		st, err := store.New(filepath.Join(dataDir, server.DBFileName))
		if err != nil {
			return err
		}
		defer st.Close()

		logs, err := st.ListReportLogs(cmd.Context(), reportsLimit)
		if err != nil {
			return err
		}

		t := newTable("#", "Fecha", "Proyecto", "Horas", "Archivo")
		for _, r := range logs {
			t.Row(
				strconv.FormatInt(r.ID, 10),
				r.CreatedAt.Local().Format("2006-01-02 15:04"),
				r.ProjectName,
				strconv.FormatFloat(r.TotalHours, 'f', 2, 64),
				r.FileName,
			)
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		fmt.Fprintf(cmd.OutOrStdout(), "%d report(s)\n", len(logs))
		return nil
	},
}

func init() {
	reportsCmd.Flags().IntVarP(&reportsLimit, "limit", "n", 20, "maximum number of reports")
}
