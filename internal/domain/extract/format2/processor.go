package format2

import (
	"context"
	"log/slog"
	"time"

	"github.com/FACorreiaa/po-extractor/internal/domain/export"
	"github.com/FACorreiaa/po-extractor/internal/domain/extract"
)

const addressPreview = 50

// TableSource returns the tables of every page of a PDF, in reading order.
type TableSource interface {
	Tables(ctx context.Context, path string) ([][]Table, error)
}

// Processor extracts Format 2 documents.
type Processor struct {
	tables TableSource
	logger *slog.Logger
	debug  bool
	now    func() time.Time
}

// NewProcessor creates a Format 2 processor.
func NewProcessor(tables TableSource, logger *slog.Logger, debug bool) *Processor {
	return &Processor{tables: tables, logger: logger, debug: debug, now: time.Now}
}

// Extract implements extract.Extractor.
func (p *Processor) Extract(ctx context.Context, path, filename string) (extract.Result, error) {
	logger := p.logger.With(slog.String("file", filename), slog.String("format", "format2"))
	logger.Info("Processing")

	pages, err := p.tables.Tables(ctx, path)
	if err != nil {
		logger.Warn("Table extraction failed", slog.Any("error", err))
	}

	var header Header
	if len(pages) > 0 {
		header = ParseHeader(pages[0])
	}
	if p.debug {
		logger.Debug("Header extracted",
			slog.String("order_no", header.OrderNo),
			slog.String("order_date", header.OrderDate),
			slog.String("supplier", header.SupplierCode),
			slog.String("contract", header.ComContract),
			slog.String("ordered_by", extract.Truncate(header.OrderedBy, addressPreview)),
			slog.String("delivered_to", extract.Truncate(header.DeliveredTo, addressPreview)),
			slog.String("for_store", extract.Truncate(header.ForStore, addressPreview)),
		)
	}

	if header.OrderNo == "" {
		logger.Warn("Order No not found in tables")
		return extract.Result{}, extract.Fail(extract.OrderNumberMissing, "").Wrap(err)
	}

	items := ParseItems(pages)
	if len(items) == 0 {
		logger.Warn("No items found in tables")
		return extract.Result{}, extract.Fail(extract.NoItems, "No items found")
	}

	logger.Info("Parsed",
		slog.String("order", header.OrderNo),
		slog.String("date", header.OrderDate),
		slog.Int("items", len(items)),
	)
	if p.debug {
		first := items[0]
		logger.Debug("First item",
			slog.String("article", first.Article),
			slog.String("desc", extract.Truncate(first.Description, 40)),
			slog.String("ou_type", first.OUType),
			slog.String("lv", first.LV.String()),
			slog.String("sku_ou", first.SKUPerOU.String()),
			slog.String("ou_qty", first.OUQty.String()),
			slog.String("free_qty", first.FreeQty.String()),
			slog.String("net_price", first.NetPrice.String()),
			slog.String("unit", first.Unit),
			slog.String("total_net", first.TotalNetPrice.String()),
		)
	}

	ts := export.Timestamp(p.now())
	records := make([]export.Record, 0, len(items))
	for _, it := range items {
		records = append(records, export.OrderArticleLine{
			ProcessedAt:           ts,
			FileName:              filename,
			OrderNo:               header.OrderNo,
			OrderDate:             header.OrderDate,
			SupplierCode:          header.SupplierCode,
			ComContract:           header.ComContract,
			OrderedBy:             header.OrderedBy,
			DeliveredTo:           header.DeliveredTo,
			ForStore:              header.ForStore,
			Article:               it.Article,
			ArticleDesc:           it.Description,
			OUType:                it.OUType,
			LV:                    it.LV,
			SKUPerOU:              it.SKUPerOU,
			OUQty:                 it.OUQty,
			FreeQty:               it.FreeQty,
			NetPurchasePrice:      it.NetPrice,
			Unit:                  it.Unit,
			TotalNetPurchasePrice: it.TotalNetPrice,
		})
	}

	return extract.Result{Identifier: header.OrderNo, Records: records}, nil
}
