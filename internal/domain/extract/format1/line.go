package format1

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	skuPattern     = regexp.MustCompile(`\b(\d{6,8}[-/]\d)\b`)
	unitPattern    = regexp.MustCompile(`^[A-Z]{1,3}\d*$`)
	numericPattern = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)$`)
	vendorPattern  = regexp.MustCompile(`^\d{10,}$`)
)

// minNumbers is the fewest numeric tokens a data line carries.
const minNumbers = 4

var smallExtendedCost = decimal.NewFromInt(10)

// Item is one parsed Format 1 line. Amounts keep the document's digits with
// thousands commas removed.
type Item struct {
	SKU          string
	Description  string
	VendorPartNo string
	SellUnit     string
	BuyUnit      string
	BuyCost      string
	NetBuyCost   string
	QtyOrdCS     string
	QtyOrdPcs    string
	QtyRecPcs    string
	ExtendedCost string
}

// lineLayout is one of the two item line shapes.
type lineLayout interface {
	item(sku string) *Item
}

// dualUnitLine: description [vendor part] SELL BUY numbers...
type dualUnitLine struct {
	head     []string
	sellUnit string
	buyUnit  string
	tail     []string
}

func (l dualUnitLine) item(sku string) *Item {
	it, ok := assignNumbers(sku, l.tail)
	if !ok {
		return nil
	}

	desc := make([]string, 0, len(l.head))
	for _, tok := range l.head {
		if it.VendorPartNo == "" && vendorPattern.MatchString(tok) {
			it.VendorPartNo = tok
			continue
		}
		desc = append(desc, tok)
	}
	it.Description = strings.Join(desc, " ")
	it.SellUnit = l.sellUnit
	it.BuyUnit = l.buyUnit
	return it
}

// singleUnitLine: description [UNIT] numbers...
type singleUnitLine struct {
	head []string
	unit string
	tail []string
}

func (l singleUnitLine) item(sku string) *Item {
	it, ok := assignNumbers(sku, l.tail)
	if !ok {
		return nil
	}
	it.Description = strings.Join(l.head, " ")
	it.SellUnit = l.unit
	return it
}

// detectLayout splits a line on the unit codes sitting directly before the
// trailing run of amounts. Two consecutive unit codes make a dual-unit line,
// unless the first of them is a measure such as "330 ML" in the description.
// Lines without such a run fall back to the first unit code followed by a
// number.
func detectLayout(tokens []string) lineLayout {
	start := len(tokens)
	for start > 0 && isAmount(tokens[start-1]) {
		start--
	}
	if len(tokens)-start >= minNumbers {
		switch {
		case start >= 2 && isUnit(tokens[start-2]) && isUnit(tokens[start-1]) && !isMeasure(tokens, start-2):
			return dualUnitLine{head: tokens[:start-2], sellUnit: tokens[start-2], buyUnit: tokens[start-1], tail: tokens[start:]}
		case start >= 1 && isUnit(tokens[start-1]):
			return singleUnitLine{head: tokens[:start-1], unit: tokens[start-1], tail: tokens[start:]}
		default:
			return singleUnitLine{head: tokens[:start], tail: tokens[start:]}
		}
	}

	for u := range tokens {
		if !isUnit(tokens[u]) || (u+1 < len(tokens) && vendorPattern.MatchString(tokens[u+1])) {
			continue
		}
		if u+2 < len(tokens) && isUnit(tokens[u+1]) && isAmount(tokens[u+2]) {
			return dualUnitLine{head: tokens[:u], sellUnit: tokens[u], buyUnit: tokens[u+1], tail: tokens[u+2:]}
		}
		if u+1 < len(tokens) && isAmount(tokens[u+1]) {
			return singleUnitLine{head: tokens[:u], unit: tokens[u], tail: tokens[u+1:]}
		}
	}

	for i, tok := range tokens {
		if isAmount(tok) {
			return singleUnitLine{head: tokens[:i], tail: tokens[i:]}
		}
	}
	return singleUnitLine{head: tokens}
}

// ParseLine parses one text line. It returns nil when the line is not an
// item row.
func ParseLine(line string) *Item {
	loc := skuPattern.FindStringSubmatchIndex(line)
	if loc == nil {
		return nil
	}
	sku := line[loc[2]:loc[3]]
	tokens := strings.Fields(line[loc[1]:])

	return detectLayout(tokens).item(sku)
}

func assignNumbers(sku string, tail []string) (*Item, bool) {
	var nums []string
	for _, tok := range tail {
		if isAmount(tok) {
			nums = append(nums, strings.ReplaceAll(tok, ",", ""))
		}
	}
	if len(nums) < minNumbers {
		return nil, false
	}

	it := &Item{
		SKU:        sku,
		BuyCost:    nums[0],
		NetBuyCost: nums[1],
		QtyOrdCS:   nums[2],
	}
	switch {
	case len(nums) >= 6:
		it.QtyOrdPcs = nums[4]
		it.QtyRecPcs = nums[5]
		it.ExtendedCost = nums[5]
	case len(nums) == 5:
		it.QtyOrdPcs = nums[4]
		it.ExtendedCost = nums[4]
	default:
		it.ExtendedCost = nums[len(nums)-1]
	}

	// A tiny extended cost on a long line is a received quantity that
	// shifted into the last column.
	if len(nums) >= 5 {
		if ext, err := decimal.NewFromString(it.ExtendedCost); err == nil && ext.LessThan(smallExtendedCost) {
			it.QtyRecPcs = it.ExtendedCost
			it.ExtendedCost = nums[len(nums)-2]
		}
	}
	return it, true
}

func isUnit(tok string) bool {
	return unitPattern.MatchString(tok)
}

func isNumeric(tok string) bool {
	return numericPattern.MatchString(strings.ReplaceAll(tok, ",", ""))
}

// isAmount reports a numeric token that is not a vendor part number.
func isAmount(tok string) bool {
	return isNumeric(tok) && !vendorPattern.MatchString(tok)
}

// isMeasure reports a unit code that qualifies the number before it.
func isMeasure(tokens []string, i int) bool {
	return i > 0 && isAmount(tokens[i-1])
}
