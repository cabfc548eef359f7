package format2

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/po-extractor/internal/domain/export"
	"github.com/FACorreiaa/po-extractor/internal/domain/extract"
)

func TestToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		currency bool
		want     string
	}{
		{"currency dot is thousands", "70.000", true, "70000"},
		{"short fraction is decimal", "1.5", false, "1.5"},
		{"several dots are thousands", "2.100.006", false, "2100006"},
		{"three digit fraction is thousands", "1.500", false, "1500"},
		{"two digit fraction is decimal", "12.50", false, "12.5"},
		{"currency with short fraction", "12.5", true, "125"},
		{"commas and spaces removed", " 1,234 567 ", false, "1234567"},
		{"plain integer", "48", false, "48"},
		{"negative", "-3.25", false, "-3.25"},
		{"empty", "", false, "0"},
		{"garbage", "n/a", true, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDecimal(tt.input, tt.currency)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func headerTables() []Table {
	return []Table{
		{
			{"Order No", "Order Date", "Supplier  Code", "Com.Contract", "Ad.Ch"},
			{"4500012345", "05/03/2024", "SUP-778", "C-2024-01", "X"},
		},
		{
			{"Ordered By", "Delivered To", "For Store", "By Supplier"},
			{"Central Retail", "DC Binh Duong", "Store 102", "ACME"},
			{"12 Le Loi,\n  District 1", "South", "Vietnam", ""},
			{"Vietnam", "KCN Song Than", "", ""},
		},
	}
}

func TestParseHeader(t *testing.T) {
	t.Run("reads order and address tables", func(t *testing.T) {
		h := ParseHeader(headerTables())

		assert.Equal(t, "4500012345", h.OrderNo)
		assert.Equal(t, "05/03/2024", h.OrderDate)
		assert.Equal(t, "SUP-778", h.SupplierCode)
		assert.Equal(t, "C-2024-01", h.ComContract)
		assert.Equal(t, "Central Retail | 12 Le Loi, District 1", h.OrderedBy)
		assert.Equal(t, "DC Binh Duong | KCN Song Than", h.DeliveredTo)
		assert.Equal(t, "Store 102", h.ForStore)
	})

	t.Run("needs two tables", func(t *testing.T) {
		assert.Equal(t, Header{}, ParseHeader(headerTables()[:1]))
	})

	t.Run("short value row", func(t *testing.T) {
		h := ParseHeader([]Table{
			{{"Order No", "Order Date"}, {"4500012345"}},
			{{"Ordered By"}, {"A"}},
		})
		assert.Equal(t, "4500012345", h.OrderNo)
		assert.Empty(t, h.OrderDate)
	})
}

func itemTable() Table {
	return Table{
		{"Article", "Article Desc", "OU Type", "LV", "SKU/OU", "OU Qty", "Free Qty", "Net Purchase Price", "Unit", "Total Net Purchase Price"},
		{"8934567890123", "Sua tuoi   Vinamilk 1L", "CAR", "1", "12", "5", "0", "70.000", "EA", "4.200.000"},
		{"12345", "Header noise", "CAR", "1", "12", "5", "0", "70.000", "EA", "4.200.000"},
		{"8934567890124", "Tra xanh", "PCS", "1.5", "24", "1.500", "2", "9.500", "EA", "342.000"},
		{"Total", "", "", "", "", "", "", "", "", "4.542.000"},
	}
}

func TestParseItems(t *testing.T) {
	t.Run("keeps only 13 digit articles", func(t *testing.T) {
		items := ParseItems([][]Table{{itemTable()}})
		require.Len(t, items, 2)

		first := items[0]
		assert.Equal(t, "8934567890123", first.Article)
		assert.Equal(t, "Sua tuoi Vinamilk 1L", first.Description)
		assert.Equal(t, "CAR", first.OUType)
		assert.True(t, decimal.NewFromInt(12).Equal(first.SKUPerOU))
		assert.True(t, decimal.NewFromInt(70000).Equal(first.NetPrice))
		assert.True(t, decimal.NewFromInt(4200000).Equal(first.TotalNetPrice))
		assert.Equal(t, "EA", first.Unit)

		second := items[1]
		assert.Equal(t, "8934567890124", second.Article)
		assert.True(t, decimal.RequireFromString("1.5").Equal(second.LV))
		assert.True(t, decimal.NewFromInt(1500).Equal(second.OUQty))
	})

	t.Run("scans every page and skips other tables", func(t *testing.T) {
		pages := [][]Table{
			headerTables(),
			{{{"Remarks"}, {"8934567890999"}}, itemTable()},
		}
		assert.Len(t, ParseItems(pages), 2)
	})

	t.Run("prices keep a two digit fraction", func(t *testing.T) {
		table := itemTable()
		table[1][7] = "12.50"
		table[1][9] = "25.00"

		items := ParseItems([][]Table{{table}})
		require.Len(t, items, 2)
		assert.True(t, decimal.RequireFromString("12.5").Equal(items[0].NetPrice), items[0].NetPrice.String())
		assert.True(t, decimal.NewFromInt(25).Equal(items[0].TotalNetPrice), items[0].TotalNetPrice.String())
		assert.True(t, decimal.NewFromInt(9500).Equal(items[1].NetPrice))
	})

	t.Run("three digit fraction is thousands grouping", func(t *testing.T) {
		items := ParseItems([][]Table{{itemTable()}})
		require.NotEmpty(t, items)
		assert.True(t, decimal.NewFromInt(70000).Equal(items[0].NetPrice), items[0].NetPrice.String())
	})

	t.Run("article column found by exact name", func(t *testing.T) {
		table := Table{
			{"Article Desc", "Article"},
			{"Keo", "8934567890123"},
		}
		items := ParseItems([][]Table{{table}})
		require.Len(t, items, 1)
		assert.Equal(t, "Keo", items[0].Description)
	})
}

type fakeTables struct {
	pages [][]Table
	err   error
}

func (f fakeTables) Tables(context.Context, string) ([][]Table, error) { return f.pages, f.err }

func newTestProcessor(src TableSource) *Processor {
	p := NewProcessor(src, slog.New(slog.NewTextHandler(io.Discard, nil)), true)
	p.now = func() time.Time { return time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC) }
	return p
}

func TestProcessor(t *testing.T) {
	ctx := context.Background()

	t.Run("header repeats on every article row", func(t *testing.T) {
		pages := [][]Table{append(headerTables(), itemTable())}

		res, err := newTestProcessor(fakeTables{pages: pages}).Extract(ctx, "/tmp/a.pdf", "a.pdf")
		require.NoError(t, err)
		assert.Equal(t, "4500012345", res.Identifier)
		require.Equal(t, 2, res.Items())

		line, ok := res.Records[1].(export.OrderArticleLine)
		require.True(t, ok)
		assert.Equal(t, "09:00:00 05/03/2024", line.ProcessedAt)
		assert.Equal(t, "a.pdf", line.FileName)
		assert.Equal(t, "4500012345", line.OrderNo)
		assert.Equal(t, "Store 102", line.ForStore)
		assert.Equal(t, "8934567890124", line.Article)
	})

	t.Run("missing order number", func(t *testing.T) {
		_, err := newTestProcessor(fakeTables{pages: [][]Table{{itemTable()}}}).Extract(ctx, "/tmp/a.pdf", "a.pdf")
		assert.ErrorIs(t, err, extract.ErrOrderNumberMissing)
		assert.Equal(t, "Order No not found", extract.Reason(err))
	})

	t.Run("unreadable pdf reports missing order number", func(t *testing.T) {
		cause := errors.New("malformed xref")
		_, err := newTestProcessor(fakeTables{err: cause}).Extract(ctx, "/tmp/a.pdf", "a.pdf")
		assert.ErrorIs(t, err, extract.ErrOrderNumberMissing)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("no valid articles", func(t *testing.T) {
		pages := [][]Table{headerTables()}
		_, err := newTestProcessor(fakeTables{pages: pages}).Extract(ctx, "/tmp/a.pdf", "a.pdf")
		assert.ErrorIs(t, err, extract.ErrNoItems)
		assert.Equal(t, "No items found", extract.Reason(err))
	})
}
