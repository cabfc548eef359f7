// Command poextract reads purchase-order PDFs and appends their line items
// to the per-format Excel workbooks.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
