package format1

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/FACorreiaa/po-extractor/internal/domain/export"
	"github.com/FACorreiaa/po-extractor/internal/domain/extract"
)

const previewRunes = 500

// TextSource returns the best-effort text of a PDF. It never fails; an
// unreadable document yields little or no text.
type TextSource interface {
	Text(ctx context.Context, path string) string
}

// Processor extracts Format 1 documents.
type Processor struct {
	text       TextSource
	logger     *slog.Logger
	debug      bool
	minContent int
	now        func() time.Time
}

// NewProcessor creates a Format 1 processor.
func NewProcessor(text TextSource, logger *slog.Logger, debug bool, minContent int) *Processor {
	return &Processor{
		text:       text,
		logger:     logger,
		debug:      debug,
		minContent: minContent,
		now:        time.Now,
	}
}

// Extract implements extract.Extractor.
func (p *Processor) Extract(ctx context.Context, path, filename string) (extract.Result, error) {
	logger := p.logger.With(slog.String("file", filename))
	logger.Info("Processing")

	text := p.text.Text(ctx, path)
	readable := utf8.RuneCountInString(strings.TrimSpace(text)) >= p.minContent

	if p.debug && readable {
		logger.Debug("Text preview", slog.String("preview", extract.Preview(text, previewRunes)))
	}
	if !readable {
		return extract.Result{}, extract.Fail(extract.ContentUnreadable, "")
	}

	po, ok := ExtractPONumber(text)
	if !ok {
		preview := extract.Preview(text, previewRunes)
		logger.Warn("PO number not found", slog.String("preview", preview))
		return extract.Result{}, extract.Fail(extract.IdentifierNotFound, "").WithPreview(preview)
	}

	items := ExtractItems(text)
	if len(items) == 0 {
		return extract.Result{}, extract.Fail(extract.NoItems, "")
	}

	logger.Info("Parsed", slog.String("po", po), slog.Int("items", len(items)))

	ts := export.Timestamp(p.now())
	records := make([]export.Record, 0, len(items))
	for _, it := range items {
		records = append(records, export.PurchaseOrderLine{
			ProcessedAt:  ts,
			FileName:     filename,
			PONumber:     po,
			SKU:          it.SKU,
			Description:  it.Description,
			VendorPartNo: it.VendorPartNo,
			SellUnit:     it.SellUnit,
			BuyUnit:      it.BuyUnit,
			BuyCost:      it.BuyCost,
			NetBuyCost:   it.NetBuyCost,
			QtyOrdCS:     it.QtyOrdCS,
			QtyOrdPcs:    it.QtyOrdPcs,
			QtyRecPcs:    it.QtyRecPcs,
			ExtendedCost: it.ExtendedCost,
		})
	}

	return extract.Result{Identifier: po, Records: records}, nil
}
