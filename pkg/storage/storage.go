// Package storage lists and fetches the purchase-order PDFs a batch run works on.
package storage

import (
	"context"
	"strings"
)

// FileInfo identifies a document in a source.
type FileInfo struct {
	ID   string `json:"id"`   // drive file id, or the local path
	Name string `json:"name"` // name recorded in the journal and the workbook
	Size int64  `json:"size"`
}

// Source defines the operations a batch run needs from a document location.
type Source interface {
	// List returns the PDF documents available in the source, ordered by name
	List(ctx context.Context) ([]FileInfo, error)

	// Fetch makes the document available on disk. cleanup releases any
	// temporary copy and is never nil.
	Fetch(ctx context.Context, file FileInfo) (path string, cleanup func(), err error)
}

// SourceType identifies the source backend
type SourceType string

const (
	SourceTypeLocal SourceType = "local"
	SourceTypeDrive SourceType = "drive"
)

func noop() {}

// sanitizeFilename removes unsafe characters from filenames
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		"..", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(name)
}
