package acquire

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Report describes the structure of a PDF.
type Report struct {
	Pages      int
	ImagePages []int // 1-based pages carrying image XObjects
	TextChars  int   // embedded text, excluding whitespace
	Tables     int   // ruled tables across all pages
}

// Scanned reports whether the document looks like an image-only scan.
func (r Report) Scanned() bool {
	return r.Pages > 0 && len(r.ImagePages) == r.Pages && r.TextChars == 0
}

// Inspect validates the PDF with pdfcpu and summarises its pages.
func Inspect(path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return Report{}, fmt.Errorf("failed to validate PDF: %w", err)
	}

	report := Report{Pages: ctx.PageCount}
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		if len(pdfcpu.ImageObjNrs(ctx, pageNr)) > 0 {
			report.ImagePages = append(report.ImagePages, pageNr)
		}
	}

	pages, err := ReadPages(path)
	if err != nil {
		return report, err
	}
	for _, p := range pages {
		report.TextChars += len(p.Glyphs)
		report.Tables += len(PageTables(p))
	}
	return report, nil
}
