// Package export persists extracted line items into the per-format workbooks.
package export

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the layout of the ThoiGianThucThi column.
const TimestampLayout = "15:04:05 02/01/2006"

// Timestamp formats t for the first export column.
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// Record is one export row. Cells are ordered as the layout headers.
type Record interface {
	Cells() []any
}

// PurchaseOrderLine is a Format 1 export row. Amounts are kept as the
// strings printed on the document.
type PurchaseOrderLine struct {
	ProcessedAt  string `csv:"ThoiGianThucThi"`
	FileName     string `csv:"FileName"`
	PONumber     string `csv:"PONumber"`
	SKU          string `csv:"SKUNumber"`
	Description  string `csv:"Description"`
	VendorPartNo string `csv:"VendorPartNo"`
	SellUnit     string `csv:"SellUM"`
	BuyUnit      string `csv:"BuyUM"`
	BuyCost      string `csv:"BuyCost"`
	NetBuyCost   string `csv:"NetBuyCost"`
	QtyOrdCS     string `csv:"QtyOrdCS"`
	QtyOrdPcs    string `csv:"QtyOrdPcs"`
	QtyRecPcs    string `csv:"QtyRecPcs"`
	ExtendedCost string `csv:"ExtendedCost"`
}

func (l PurchaseOrderLine) Cells() []any {
	return []any{
		l.ProcessedAt, l.FileName, l.PONumber, l.SKU, l.Description, l.VendorPartNo,
		l.SellUnit, l.BuyUnit, l.BuyCost, l.NetBuyCost, l.QtyOrdCS, l.QtyOrdPcs,
		l.QtyRecPcs, l.ExtendedCost,
	}
}

// OrderArticleLine is a Format 2 export row: the document header repeated
// on every article row.
type OrderArticleLine struct {
	ProcessedAt           string          `csv:"ThoiGianThucThi"`
	FileName              string          `csv:"FileName"`
	OrderNo               string          `csv:"OrderNo"`
	OrderDate             string          `csv:"OrderDate"`
	SupplierCode          string          `csv:"SupplierCode"`
	ComContract           string          `csv:"ComContract"`
	OrderedBy             string          `csv:"OrderedBy"`
	DeliveredTo           string          `csv:"DeliveredTo"`
	ForStore              string          `csv:"ForStore"`
	Article               string          `csv:"Article"`
	ArticleDesc           string          `csv:"ArticleDesc"`
	OUType                string          `csv:"OUType"`
	LV                    decimal.Decimal `csv:"LV"`
	SKUPerOU              decimal.Decimal `csv:"SKU_OU"`
	OUQty                 decimal.Decimal `csv:"OUQty"`
	FreeQty               decimal.Decimal `csv:"FreeQty"`
	NetPurchasePrice      decimal.Decimal `csv:"NetPurchasePrice"`
	Unit                  string          `csv:"Unit"`
	TotalNetPurchasePrice decimal.Decimal `csv:"TotalNetPurchasePrice"`
}

func (l OrderArticleLine) Cells() []any {
	return []any{
		l.ProcessedAt, l.FileName, l.OrderNo, l.OrderDate, l.SupplierCode, l.ComContract,
		l.OrderedBy, l.DeliveredTo, l.ForStore, l.Article, l.ArticleDesc, l.OUType,
		l.LV, l.SKUPerOU, l.OUQty, l.FreeQty, l.NetPurchasePrice, l.Unit,
		l.TotalNetPurchasePrice,
	}
}

func purchaseOrderLineFromRow(row []string) PurchaseOrderLine {
	c := cellsOf(row, 14)
	return PurchaseOrderLine{
		ProcessedAt: c[0], FileName: c[1], PONumber: c[2], SKU: c[3], Description: c[4],
		VendorPartNo: c[5], SellUnit: c[6], BuyUnit: c[7], BuyCost: c[8], NetBuyCost: c[9],
		QtyOrdCS: c[10], QtyOrdPcs: c[11], QtyRecPcs: c[12], ExtendedCost: c[13],
	}
}

func orderArticleLineFromRow(row []string) OrderArticleLine {
	c := cellsOf(row, 19)
	return OrderArticleLine{
		ProcessedAt: c[0], FileName: c[1], OrderNo: c[2], OrderDate: c[3], SupplierCode: c[4],
		ComContract: c[5], OrderedBy: c[6], DeliveredTo: c[7], ForStore: c[8], Article: c[9],
		ArticleDesc: c[10], OUType: c[11], LV: parseDecimal(c[12]), SKUPerOU: parseDecimal(c[13]),
		OUQty: parseDecimal(c[14]), FreeQty: parseDecimal(c[15]), NetPurchasePrice: parseDecimal(c[16]),
		Unit: c[17], TotalNetPurchasePrice: parseDecimal(c[18]),
	}
}

func cellsOf(row []string, n int) []string {
	c := make([]string, n)
	copy(c, row)
	return c
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
