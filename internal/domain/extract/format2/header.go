package format2

import (
	"regexp"
	"slices"
	"strings"
)

// Table is one extracted table: rows of cell text, first row the header.
type Table = [][]string

// Header is the document header spread over the first two tables on page one.
type Header struct {
	OrderNo      string
	OrderDate    string
	SupplierCode string
	ComContract  string
	OrderedBy    string
	DeliveredTo  string
	ForStore     string
}

var whitespace = regexp.MustCompile(`\s+`)

// cleanValue trims and collapses internal whitespace.
func cleanValue(s string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(s), " ")
}

// regionNoise are bare region names printed under addresses.
var regionNoise = []string{"South", "North", "Vietnam", "East", "West"}

func headerRow(t Table) []string {
	if len(t) == 0 {
		return nil
	}
	out := make([]string, len(t[0]))
	for i, h := range t[0] {
		out[i] = strings.ToLower(cleanValue(h))
	}
	return out
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return cleanValue(row[i])
}

// ParseHeader reads the order table and the address table of the first page.
// Fewer than two tables yields an empty header.
func ParseHeader(firstPage []Table) Header {
	var h Header
	if len(firstPage) < 2 {
		return h
	}

	if orders := firstPage[0]; len(orders) >= 2 {
		values := orders[1]
		for i, name := range headerRow(orders) {
			if i >= len(values) {
				continue
			}
			v := cell(values, i)
			switch {
			case strings.Contains(name, "order no") || strings.Contains(name, "orderno"):
				h.OrderNo = v
			case strings.Contains(name, "order date") || strings.Contains(name, "orderdate"):
				h.OrderDate = v
			case strings.Contains(name, "supplier") && strings.Contains(name, "code"):
				h.SupplierCode = v
			case strings.Contains(name, "contract"):
				h.ComContract = v
			}
		}
	}

	if addresses := firstPage[1]; len(addresses) >= 2 {
		orderedBy, deliveredTo, forStore := -1, -1, -1
		for i, name := range headerRow(addresses) {
			switch {
			case strings.Contains(name, "ordered by") || strings.Contains(name, "orderedby"):
				orderedBy = i
			case strings.Contains(name, "delivered to") || strings.Contains(name, "deliveredto"):
				deliveredTo = i
			case strings.Contains(name, "for store") || strings.Contains(name, "forstore"):
				forStore = i
			}
		}
		h.OrderedBy = joinColumn(addresses[1:], orderedBy)
		h.DeliveredTo = joinColumn(addresses[1:], deliveredTo)
		h.ForStore = joinColumn(addresses[1:], forStore)
	}

	return h
}

// joinColumn concatenates a column over rows, dropping blanks and region names.
func joinColumn(rows [][]string, col int) string {
	if col < 0 {
		return ""
	}
	var parts []string
	for _, row := range rows {
		v := cell(row, col)
		if v == "" || slices.Contains(regionNoise, v) {
			continue
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, " | ")
}
