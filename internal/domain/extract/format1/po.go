// Package format1 extracts purchase-order line items from free-text documents
// where each item is printed on one line after its SKU.
package format1

import (
	"regexp"
	"strings"
)

// poRule pairs a pattern with the check its capture must pass.
type poRule struct {
	pattern *regexp.Regexp
	valid   func(string) bool
}

const poDigits = `(\d+[-/]\d+(?:[-/]\d+)?)`

func hasSeparator(s string) bool {
	return strings.ContainsAny(s, "-/")
}

// poRules are ordered most specific first.
var poRules = []poRule{
	// labelled: "P/O Number: 123-456", "PO Number", "Purchase Order"
	{regexp.MustCompile(`(?im)P[/\\]O\s+Number[:\s]+` + poDigits), hasSeparator},
	{regexp.MustCompile(`(?im)PO\s+Number[:\s]+` + poDigits), hasSeparator},
	{regexp.MustCompile(`(?im)Purchase\s+Order[:\s]+` + poDigits), hasSeparator},

	// "P/O: 123-456"
	{regexp.MustCompile(`(?im)P[/\\]O[:\s]+` + poDigits), hasSeparator},
	{regexp.MustCompile(`(?im)PO[:\s]+` + poDigits), hasSeparator},

	// "P/O #123-456"
	{regexp.MustCompile(`(?im)P[/\\]O\s*#\s*` + poDigits), hasSeparator},
	{regexp.MustCompile(`(?im)PO\s*#\s*` + poDigits), hasSeparator},

	// label somewhere earlier on the same line
	{regexp.MustCompile(`(?im)(?:P[/\\]O|PO|Purchase\s+Order).*?(\d{2,6}[-/]\d{2,6}(?:[-/]\d{1,6})?)`), hasSeparator},

	// bare NNN-NNN anywhere; may pick up unrelated digit pairs
	{regexp.MustCompile(`(?im)\b(\d{3,6}[-/]\d{3,6}(?:[-/]\d{1,6})?)\b`), hasSeparator},
}

// ExtractPONumber returns the first identifier accepted by the rule chain.
func ExtractPONumber(text string) (string, bool) {
	for _, rule := range poRules {
		m := rule.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		po := strings.TrimSpace(m[1])
		if rule.valid(po) {
			return po, true
		}
	}
	return "", false
}
