package export

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Layout describes one workbook: its sheet, header row and which columns
// form a row's identity.
type Layout struct {
	Name       string
	Sheet      string
	Headers    []string
	Widths     []float64
	HeaderFill string
	KeyColumns []int // 0-based
	ValueIndex int   // column summed by Stats
	IDIndex    int   // column counted as distinct identifiers by Stats

	// NumberFormat returns the custom number format for a numeric cell,
	// or "" to leave the default.
	NumberFormat func(col int, v decimal.Decimal) string

	fromRow func([]string) Record
}

// PurchaseOrderLayout is the Format 1 workbook.
var PurchaseOrderLayout = Layout{
	Name:  "format1",
	Sheet: "DATA",
	Headers: []string{
		"ThoiGianThucThi", "FileName", "PONumber", "SKUNumber", "Description", "VendorPartNo",
		"SellUM", "BuyUM", "BuyCost", "NetBuyCost", "QtyOrdCS", "QtyOrdPcs", "QtyRecPcs",
		"ExtendedCost",
	},
	Widths:     []float64{18, 25, 15, 15, 40, 10, 10, 12, 12, 12, 12, 12, 15, 12},
	HeaderFill: "4472C4",
	KeyColumns: []int{1, 2, 3},
	ValueIndex: 13,
	IDIndex:    2,
	fromRow:    func(row []string) Record { return purchaseOrderLineFromRow(row) },
}

// OrderArticleLayout is the Format 2 workbook.
var OrderArticleLayout = Layout{
	Name:  "format2",
	Sheet: "Purchase Orders",
	Headers: []string{
		"ThoiGianThucThi", "FileName", "OrderNo", "OrderDate", "SupplierCode", "ComContract",
		"OrderedBy", "DeliveredTo", "ForStore", "Article", "ArticleDesc", "OUType", "LV",
		"SKU_OU", "OUQty", "FreeQty", "NetPurchasePrice", "Unit", "TotalNetPurchasePrice",
	},
	Widths:       []float64{18, 30, 15, 12, 12, 12, 40, 40, 40, 15, 40, 10, 8, 10, 10, 10, 15, 8, 18},
	HeaderFill:   "0F9D58",
	KeyColumns:   []int{1, 2, 9},
	ValueIndex:   18,
	IDIndex:      2,
	NumberFormat: articleNumberFormat,
	fromRow:      func(row []string) Record { return orderArticleLineFromRow(row) },
}

func articleNumberFormat(col int, v decimal.Decimal) string {
	switch col {
	case 12, 13, 14, 15:
		if v.Equal(v.Truncate(0)) {
			return "0"
		}
		return "0.0"
	case 16, 18:
		return "0"
	}
	return ""
}

// LayoutFor returns the layout registered under name ("format1" or "format2").
func LayoutFor(name string) (Layout, error) {
	switch name {
	case PurchaseOrderLayout.Name:
		return PurchaseOrderLayout, nil
	case OrderArticleLayout.Name:
		return OrderArticleLayout, nil
	}
	return Layout{}, fmt.Errorf("no export layout for %q", name)
}

func (l Layout) key(row []string) (string, bool) {
	parts := make([]string, len(l.KeyColumns))
	for i, col := range l.KeyColumns {
		if col >= len(row) || row[col] == "" {
			return "", false
		}
		parts[i] = row[col]
	}
	return fmt.Sprintf("%q", parts), true
}

func (l Layout) keyOf(r Record) (string, bool) {
	return l.key(stringCells(r.Cells()))
}

func stringCells(cells []any) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		switch v := c.(type) {
		case string:
			out[i] = v
		case decimal.Decimal:
			out[i] = v.String()
		case nil:
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}
