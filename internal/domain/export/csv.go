package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// MarshalCSV writes records as CSV. All records must share one concrete type.
func MarshalCSV(records []Record, w io.Writer) error {
	if len(records) == 0 {
		return nil
	}

	switch records[0].(type) {
	case PurchaseOrderLine:
		lines := make([]PurchaseOrderLine, 0, len(records))
		for _, r := range records {
			l, ok := r.(PurchaseOrderLine)
			if !ok {
				return fmt.Errorf("mixed record types: %T", r)
			}
			lines = append(lines, l)
		}
		return gocsv.Marshal(&lines, w)
	case OrderArticleLine:
		lines := make([]OrderArticleLine, 0, len(records))
		for _, r := range records {
			l, ok := r.(OrderArticleLine)
			if !ok {
				return fmt.Errorf("mixed record types: %T", r)
			}
			lines = append(lines, l)
		}
		return gocsv.Marshal(&lines, w)
	}
	return fmt.Errorf("unsupported record type %T", records[0])
}
