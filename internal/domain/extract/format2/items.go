package format2

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var articlePattern = regexp.MustCompile(`^\d{13}$`)

// Item is one validated article row.
type Item struct {
	Article       string
	Description   string
	OUType        string
	LV            decimal.Decimal
	SKUPerOU      decimal.Decimal
	OUQty         decimal.Decimal
	FreeQty       decimal.Decimal
	NetPrice      decimal.Decimal
	Unit          string
	TotalNetPrice decimal.Decimal
}

type columnMap struct {
	article, description, ouType, lv, skuPerOU int
	ouQty, freeQty, netPrice, unit, totalNet   int
}

func mapColumns(header []string) columnMap {
	m := columnMap{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1}
	for i, name := range header {
		switch {
		case strings.Contains(name, "article desc"):
			m.description = i
		case name == "article":
			m.article = i
		case strings.Contains(name, "ou type"):
			m.ouType = i
		case name == "lv":
			m.lv = i
		case strings.Contains(name, "sku/ou") || strings.Contains(name, "sku ou"):
			m.skuPerOU = i
		case strings.Contains(name, "ou qty"):
			m.ouQty = i
		case strings.Contains(name, "free qty"):
			m.freeQty = i
		case strings.Contains(name, "net purchase price") && !strings.Contains(name, "total"):
			m.netPrice = i
		case name == "unit":
			m.unit = i
		case strings.Contains(name, "total") && strings.Contains(name, "net"):
			m.totalNet = i
		}
	}
	return m
}

// ParseItems scans every table of every page for article grids and returns
// rows whose article is exactly 13 digits, in document order.
func ParseItems(pages [][]Table) []Item {
	var items []Item
	for _, tables := range pages {
		for _, t := range tables {
			if len(t) < 2 {
				continue
			}
			header := headerRow(t)
			if !strings.Contains(strings.Join(header, " "), "article") {
				continue
			}
			cols := mapColumns(header)
			for _, row := range t[1:] {
				if it, ok := parseItemRow(row, cols); ok {
					items = append(items, it)
				}
			}
		}
	}
	return items
}

func parseItemRow(row []string, cols columnMap) (Item, bool) {
	if len(row) == 0 {
		return Item{}, false
	}
	article := cell(row, cols.article)
	if !articlePattern.MatchString(article) {
		return Item{}, false
	}

	return Item{
		Article:       article,
		Description:   cell(row, cols.description),
		OUType:        cell(row, cols.ouType),
		LV:            ToDecimal(cell(row, cols.lv), false),
		SKUPerOU:      ToDecimal(cell(row, cols.skuPerOU), false),
		OUQty:         ToDecimal(cell(row, cols.ouQty), false),
		FreeQty:       ToDecimal(cell(row, cols.freeQty), false),
		NetPrice:      ToDecimal(cell(row, cols.netPrice), false),
		Unit:          cell(row, cols.unit),
		TotalNetPrice: ToDecimal(cell(row, cols.totalNet), false),
	}, true
}
