package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/po-extractor/internal/domain/batch"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show or clear the app, success and error logs",
}

var logsShowCmd = &cobra.Command{
	Use:       "show app|success|error",
	Short:     "Print a log",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"app", "success", "error"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := batch.ParseLogKind(args[0])
		if err != nil {
			return err
		}
		content, err := deps.Journal.Read(kind)
		if err != nil {
			return err
		}
		if strings.TrimSpace(content) == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is empty\n", deps.Journal.Path(kind))
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), content)
		return nil
	},
}

var logsClearCmd = &cobra.Command{
	Use:       "clear app|success|error",
	Short:     "Empty a log",
	Long:      "Clearing the success log makes every document eligible for processing again.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"app", "success", "error"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := batch.ParseLogKind(args[0])
		if err != nil {
			return err
		}
		if err := deps.Journal.Clear(kind); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", deps.Journal.Path(kind))
		return nil
	},
}

func init() {
	logsCmd.AddCommand(logsShowCmd, logsClearCmd)
	rootCmd.AddCommand(logsCmd)
}
