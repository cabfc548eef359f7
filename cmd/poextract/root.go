package main

import (
	"github.com/spf13/cobra"

	"github.com/FACorreiaa/po-extractor/pkg/config"
)

var rootFlags struct {
	format string
	debug  bool
}

// deps is set by the root pre-run hook for every subcommand.
var deps *Dependencies

var rootCmd = &cobra.Command{
	Use:          "poextract",
	Short:        "Extract purchase-order line items from PDFs into Excel",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if rootFlags.format != "" {
			if cfg.Extraction.Format, err = config.ParseFormat(rootFlags.format); err != nil {
				return err
			}
		}
		if rootFlags.debug {
			cfg.Extraction.Debug = true
		}

		deps, err = InitDependencies(cfg, cmd.ErrOrStderr())
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if deps != nil {
			deps.Cleanup()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootFlags.format, "format", "f", "", "document layout: format1 or format2 (default from PO_FORMAT)")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.debug, "debug", false, "log text previews and parsed headers")
}
