package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Show, clear, summarise or export the workbook of the selected format",
}

var showLimit int

var dataShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the workbook rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := deps.Store.Read()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(rows) == 0 {
			fmt.Fprintf(out, "No data in %s\n", deps.Store.Path())
			return nil
		}
		if showLimit > 0 && len(rows) > showLimit {
			rows = rows[len(rows)-showLimit:]
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(deps.Store.Layout().Headers, "\t"))
		for _, row := range rows {
			cells := make([]string, len(row))
			for i, c := range row {
				cells[i] = strings.ReplaceAll(c, "\n", " ")
			}
			fmt.Fprintln(tw, strings.Join(cells, "\t"))
		}
		return tw.Flush()
	},
}

var dataClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every data row, keeping the header",
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := deps.Store.Clear()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d row(s) from %s\n", removed, deps.Store.Path())
		return nil
	},
}

var dataStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise the workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := deps.Store.Stats()
		if err != nil {
			return err
		}
		success, failed := deps.Journal.Counts()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Workbook:     %s\n", deps.Store.Path())
		if !stats.Exists {
			fmt.Fprintln(out, "              (not created yet)")
		}
		fmt.Fprintf(out, "Rows:         %d\n", stats.Rows)
		fmt.Fprintf(out, "Files:        %d\n", stats.Files)
		fmt.Fprintf(out, "Orders:       %d\n", stats.Identifiers)
		fmt.Fprintf(out, "Total value:  %s\n", stats.Value.Display())
		fmt.Fprintf(out, "Journal:      %d succeeded, %d failed\n", success, failed)
		return nil
	},
}

var exportCSV string

var dataExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the workbook rows as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportCSV == "" || exportCSV == "-" {
			return deps.Store.WriteCSV(cmd.OutOrStdout())
		}

		f, err := os.Create(exportCSV)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportCSV, err)
		}
		if err := deps.Store.WriteCSV(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", exportCSV)
		return nil
	},
}

func init() {
	dataShowCmd.Flags().IntVarP(&showLimit, "limit", "n", 0, "show only the last n rows")
	dataExportCmd.Flags().StringVar(&exportCSV, "csv", "-", "output file, - for stdout")

	dataCmd.AddCommand(dataShowCmd, dataClearCmd, dataStatsCmd, dataExportCmd)
	rootCmd.AddCommand(dataCmd)
}
