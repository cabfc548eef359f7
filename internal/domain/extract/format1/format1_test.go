package format1

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/po-extractor/internal/domain/export"
	"github.com/FACorreiaa/po-extractor/internal/domain/extract"
)

func TestExtractPONumber(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"P/O Number label", "Vendor ABC\nP/O Number: 4500-1234\n", "4500-1234", true},
		{"PO Number label", "PO Number: 123-456", "123-456", true},
		{"purchase order label", "Purchase Order 77/2024", "77/2024", true},
		{"short label", "PO: 2024-0042-1", "2024-0042-1", true},
		{"hash label", "P/O #98-76", "98-76", true},
		{"case insensitive", "po number: 321-654", "321-654", true},
		{"loose label on line", "Our PO ref is no. 5521-88 thanks", "5521-88", true},
		{"bare fallback", "Ref 1234/5678 attached", "1234/5678", true},
		{"specific label wins over earlier bare number", "Ref 1111-2222\nPO Number: 333-444", "333-444", true},
		{"nothing", "Invoice for services rendered", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractPONumber(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractPONumberAlwaysHasSeparator(t *testing.T) {
	f := gofakeit.New(42)
	for i := 0; i < 500; i++ {
		text := strings.Join([]string{
			f.Sentence(8),
			f.RandomString([]string{"PO", "P/O", "Purchase Order", "Ref", ""}),
			f.Numerify(f.RandomString([]string{"###-###", "####/##", "#####", "## ###", "######"})),
			f.Sentence(5),
		}, " ")

		if po, ok := ExtractPONumber(text); ok {
			assert.True(t, strings.ContainsAny(po, "-/"), "text %q gave %q", text, po)
		}
	}
}

func TestParseLine(t *testing.T) {
	t.Run("single unit line", func(t *testing.T) {
		it := ParseLine("3539973-4 NSM duoc lieu NGOC CHAU 350ml EA 2077766.00 2077766.00 .10 3.00 .00 207776.60")
		require.NotNil(t, it)

		assert.Equal(t, "3539973-4", it.SKU)
		assert.Equal(t, "NSM duoc lieu NGOC CHAU 350ml", it.Description)
		assert.Equal(t, "2077766.00", it.BuyCost)
		assert.Equal(t, "2077766.00", it.NetBuyCost)
		assert.Equal(t, ".10", it.QtyOrdCS)
		assert.Equal(t, ".00", it.QtyOrdPcs)
		assert.Equal(t, "207776.60", it.QtyRecPcs)
		assert.Equal(t, "207776.60", it.ExtendedCost)
		assert.Equal(t, "EA", it.SellUnit)
		assert.Empty(t, it.BuyUnit)
		assert.Empty(t, it.VendorPartNo)
	})

	t.Run("dual unit line pulls vendor part", func(t *testing.T) {
		it := ParseLine("1234567-8 Sua tuoi 8934567890123 Vinamilk CS EA 150,000.00 145,000.00 2 24 48 290,000.00")
		require.NotNil(t, it)

		assert.Equal(t, "1234567-8", it.SKU)
		assert.Equal(t, "Sua tuoi Vinamilk", it.Description)
		assert.Equal(t, "8934567890123", it.VendorPartNo)
		assert.Equal(t, "CS", it.SellUnit)
		assert.Equal(t, "EA", it.BuyUnit)
		assert.Equal(t, "150000.00", it.BuyCost)
		assert.Equal(t, "145000.00", it.NetBuyCost)
		assert.Equal(t, "2", it.QtyOrdCS)
		assert.Equal(t, "48", it.QtyOrdPcs)
		assert.Equal(t, "290000.00", it.ExtendedCost)
	})

	t.Run("single unit line keeps long digits in description", func(t *testing.T) {
		it := ParseLine("1234567/8 Tra xanh 8934567890123 EA 10.00 10.00 1 10.00")
		require.NotNil(t, it)
		assert.Equal(t, "Tra xanh 8934567890123", it.Description)
		assert.Empty(t, it.VendorPartNo)
	})

	t.Run("short capitals in description are not units", func(t *testing.T) {
		it := ParseLine("1234567-8 PEPSI CAN 330 ML EA 10.00 10.00 2 0 20.00")
		require.NotNil(t, it)

		assert.Equal(t, "PEPSI CAN 330 ML", it.Description)
		assert.Equal(t, "EA", it.SellUnit)
		assert.Empty(t, it.BuyUnit)
		assert.Equal(t, "10.00", it.BuyCost)
		assert.Equal(t, "10.00", it.NetBuyCost)
		assert.Equal(t, "2", it.QtyOrdCS)
		assert.Equal(t, "20.00", it.QtyOrdPcs)
		assert.Equal(t, "20.00", it.ExtendedCost)
	})

	t.Run("vendor part number is never a price", func(t *testing.T) {
		it := ParseLine("1234567-8 SUA TUOI VNM 8934567890123 EA CS 100.00 100.00 2 24 200.00")
		require.NotNil(t, it)

		assert.Equal(t, "SUA TUOI VNM", it.Description)
		assert.Equal(t, "8934567890123", it.VendorPartNo)
		assert.Equal(t, "EA", it.SellUnit)
		assert.Equal(t, "CS", it.BuyUnit)
		assert.Equal(t, "100.00", it.BuyCost)
		assert.Equal(t, "100.00", it.NetBuyCost)
		assert.Equal(t, "2", it.QtyOrdCS)
		assert.Equal(t, "200.00", it.QtyOrdPcs)
		assert.Equal(t, "200.00", it.ExtendedCost)
	})

	t.Run("four numbers take the last as extended cost", func(t *testing.T) {
		it := ParseLine("3539973-4 Banh quy EA 100.00 95.00 2 190.00")
		require.NotNil(t, it)
		assert.Equal(t, "2", it.QtyOrdCS)
		assert.Empty(t, it.QtyOrdPcs)
		assert.Equal(t, "190.00", it.ExtendedCost)
	})

	t.Run("small extended cost is reinterpreted", func(t *testing.T) {
		it := ParseLine("3539973-4 Banh quy EA 100.00 100.00 1 12 5")
		require.NotNil(t, it)
		assert.Equal(t, "5", it.QtyRecPcs)
		assert.Equal(t, "12", it.ExtendedCost)
	})

	t.Run("no unit code", func(t *testing.T) {
		it := ParseLine("3539973-4 banh quy 100.00 100.00 1 100.00")
		require.NotNil(t, it)
		assert.Equal(t, "banh quy", it.Description)
		assert.Empty(t, it.SellUnit)
	})

	t.Run("not a data line", func(t *testing.T) {
		assert.Nil(t, ParseLine("Delivery date 01/02/2024"))
		assert.Nil(t, ParseLine("3539973-4 Banh quy EA 100.00 95.00 2"))
	})
}

func TestParseLineRejectsShortLines(t *testing.T) {
	f := gofakeit.New(7)
	for i := 0; i < 300; i++ {
		parts := []string{f.Numerify("#######-#"), f.Word(), f.Word()}
		for n := f.Number(0, 3); n > 0; n-- {
			parts = append(parts, fmt.Sprintf("%.2f", f.Price(1, 100000)))
		}
		line := strings.Join(parts, " ")
		assert.Nil(t, ParseLine(line), line)
	}
}

func TestExtractItems(t *testing.T) {
	t.Run("stops at summary line", func(t *testing.T) {
		text := strings.Join([]string{
			"SKU Description Unit Cost",
			"3539973-4 Banh quy EA 100.00 95.00 2 190.00",
			"  ",
			"Sub Total 190.00",
			"1234567-8 Keo deo EA 50.00 50.00 1 50.00",
		}, "\n")

		items := ExtractItems(text)
		require.Len(t, items, 1)
		assert.Equal(t, "3539973-4", items[0].SKU)
	})

	t.Run("stop keywords are case insensitive", func(t *testing.T) {
		for _, stop := range []string{"GRAND TOTAL", "notes: deliver before noon", "FOB Destination"} {
			text := "3539973-4 Banh quy EA 100.00 95.00 2 190.00\n" + stop + "\n1234567-8 Keo deo EA 50.00 50.00 1 50.00"
			assert.Len(t, ExtractItems(text), 1, stop)
		}
	})

	t.Run("keeps order", func(t *testing.T) {
		text := "1234567-8 Keo deo EA 50.00 50.00 1 50.00\n3539973-4 Banh quy EA 100.00 95.00 2 190.00"
		items := ExtractItems(text)
		require.Len(t, items, 2)
		assert.Equal(t, "1234567-8", items[0].SKU)
		assert.Equal(t, "3539973-4", items[1].SKU)
	})
}

type fakeText string

func (f fakeText) Text(context.Context, string) string { return string(f) }

func newTestProcessor(text string) *Processor {
	p := NewProcessor(fakeText(text), slog.New(slog.NewTextHandler(io.Discard, nil)), true, 20)
	p.now = func() time.Time { return time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC) }
	return p
}

func TestProcessor(t *testing.T) {
	ctx := context.Background()

	t.Run("rows share the document PO number", func(t *testing.T) {
		text := strings.Join([]string{
			"Saigon Co.op",
			"PO Number: 123-456",
			"3539973-4 NSM duoc lieu NGOC CHAU 350ml EA 2077766.00 2077766.00 .10 3.00 .00 207776.60",
			"1234567-8 Banh quy EA 100.00 95.00 2 190.00",
			"Total 207966.60",
		}, "\n")

		res, err := newTestProcessor(text).Extract(ctx, "/tmp/x.pdf", "order.pdf")
		require.NoError(t, err)
		assert.Equal(t, "123-456", res.Identifier)
		require.Equal(t, 2, res.Items())

		for _, r := range res.Records {
			line, ok := r.(export.PurchaseOrderLine)
			require.True(t, ok)
			assert.Equal(t, "123-456", line.PONumber)
			assert.Equal(t, "order.pdf", line.FileName)
			assert.Equal(t, "14:30:00 05/03/2024", line.ProcessedAt)
		}
	})

	t.Run("unreadable text", func(t *testing.T) {
		_, err := newTestProcessor("  scan  ").Extract(ctx, "/tmp/x.pdf", "x.pdf")
		assert.ErrorIs(t, err, extract.ErrContentUnreadable)
	})

	t.Run("missing PO number carries preview", func(t *testing.T) {
		_, err := newTestProcessor("Delivery note\nno order reference printed here").Extract(ctx, "/tmp/x.pdf", "x.pdf")
		require.ErrorIs(t, err, extract.ErrIdentifierNotFound)

		var de *extract.DocumentError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "Delivery note | no order reference printed here", de.Preview)
	})

	t.Run("no items", func(t *testing.T) {
		_, err := newTestProcessor("PO Number: 123-456\nNothing else on this page").Extract(ctx, "/tmp/x.pdf", "x.pdf")
		assert.ErrorIs(t, err, extract.ErrNoItems)
	})
}
