package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/po-extractor/internal/domain/extract/acquire"
	"github.com/FACorreiaa/po-extractor/internal/domain/extract/format1"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect file.pdf",
	Short: "Describe a PDF and the OCR and drive capabilities available",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := acquire.Inspect(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		caps := deps.Capabilities
		fmt.Fprintf(out, "Pages:          %d\n", report.Pages)
		fmt.Fprintf(out, "Image pages:    %v\n", report.ImagePages)
		fmt.Fprintf(out, "Text glyphs:    %d\n", report.TextChars)
		fmt.Fprintf(out, "Ruled tables:   %d\n", report.Tables)
		fmt.Fprintf(out, "Scanned:        %t\n", report.Scanned())

		text := deps.Acquirer.Text(cmd.Context(), args[0])
		if po, ok := format1.ExtractPONumber(text); ok {
			fmt.Fprintf(out, "PO number:      %s\n", po)
		}

		fmt.Fprintf(out, "OCR backend:    %s (available: %t)\n", deps.Config.OCR.Backend, caps.OCR(deps.Config.OCR.Backend))
		if caps.Tesseract {
			fmt.Fprintf(out, "Tesseract:      %s\n", caps.TesseractPath)
		}
		fmt.Fprintf(out, "Drive:          %t\n", caps.Drive)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
