// Package extract holds the document-level contract shared by the format parsers:
// the failure taxonomy, the result type and the text preview helper.
package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/FACorreiaa/po-extractor/internal/domain/export"
)

// Kind classifies a document-scoped failure.
type Kind string

const (
	ContentUnreadable  Kind = "content_unreadable"
	IdentifierNotFound Kind = "identifier_not_found"
	OrderNumberMissing Kind = "order_number_missing"
	NoItems            Kind = "no_items"
	SaveFailed         Kind = "save_failed"
	DownloadFailed     Kind = "download_failed"
)

// Sentinel errors, one per Kind, for use with errors.Is.
var (
	ErrContentUnreadable  = errors.New("content unreadable")
	ErrIdentifierNotFound = errors.New("po number not found")
	ErrOrderNumberMissing = errors.New("order number not found")
	ErrNoItems            = errors.New("no items")
	ErrSaveFailed         = errors.New("could not save")
	ErrDownloadFailed     = errors.New("could not download")
)

var sentinels = map[Kind]error{
	ContentUnreadable:  ErrContentUnreadable,
	IdentifierNotFound: ErrIdentifierNotFound,
	OrderNumberMissing: ErrOrderNumberMissing,
	NoItems:            ErrNoItems,
	SaveFailed:         ErrSaveFailed,
	DownloadFailed:     ErrDownloadFailed,
}

// reasons is the journal text written when a failure carries no reason of
// its own.
var reasons = map[Kind]string{
	ContentUnreadable:  "content unreadable",
	IdentifierNotFound: "PO not found",
	OrderNumberMissing: "Order No not found",
	NoItems:            "no items",
	SaveFailed:         "could not save",
	DownloadFailed:     "could not download",
}

// DocumentError aborts processing of one document. Reason is the operator
// facing text written to the error journal.
type DocumentError struct {
	Kind    Kind
	Reason  string
	Preview string
	Err     error
}

// Fail builds a DocumentError whose reason defaults to the kind's journal text.
func Fail(kind Kind, reason string) *DocumentError {
	if reason == "" {
		reason = reasons[kind]
	}
	return &DocumentError{Kind: kind, Reason: reason}
}

func (e *DocumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *DocumentError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s, ok := sentinels[e.Kind]; ok {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// WithPreview attaches a text preview for diagnosis.
func (e *DocumentError) WithPreview(p string) *DocumentError {
	e.Preview = p
	return e
}

// Wrap attaches the underlying cause.
func (e *DocumentError) Wrap(err error) *DocumentError {
	e.Err = err
	return e
}

// Reason returns the operator facing reason for any error.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var de *DocumentError
	if errors.As(err, &de) {
		return de.Reason
	}
	return err.Error()
}

// KindOf reports the failure kind, or "" for errors outside the taxonomy.
func KindOf(err error) Kind {
	var de *DocumentError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// Result is the product of one document: the identifier it was filed under
// and one export record per line item.
type Result struct {
	Identifier string
	Records    []export.Record
}

// Items returns the number of line items extracted.
func (r Result) Items() int { return len(r.Records) }

// Extractor turns a local PDF into export records. filename is the name
// recorded in the export and journal, which may differ from the temp path.
type Extractor interface {
	Extract(ctx context.Context, path, filename string) (Result, error)
}

// Preview returns the first n runes of text with newlines flattened to " | ".
func Preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) > n {
		runes = runes[:n]
	}
	s := strings.ReplaceAll(string(runes), "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", " | ")
}

// Truncate shortens s to n runes, appending "..." when cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
