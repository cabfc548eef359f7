package acquire

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Acquirer produces document text and tables for the format processors.
type Acquirer struct {
	readPages  func(path string) ([]Page, error)
	renderer   Renderer
	recognizer Recognizer
	threshold  int
	dpi        int
	logger     *slog.Logger
}

// Options configures an Acquirer. A nil Recognizer disables OCR.
type Options struct {
	Renderer   Renderer
	Recognizer Recognizer
	Threshold  int // OCR runs when trimmed text has fewer runes than this
	DPI        int
}

// New creates an Acquirer reading PDFs from disk.
func New(opts Options, logger *slog.Logger) *Acquirer {
	if opts.Threshold <= 0 {
		opts.Threshold = 50
	}
	if opts.DPI <= 0 {
		opts.DPI = 300
	}
	if opts.Renderer == nil {
		opts.Renderer = FitzRenderer{}
	}
	return &Acquirer{
		readPages:  ReadPages,
		renderer:   opts.Renderer,
		recognizer: opts.Recognizer,
		threshold:  opts.Threshold,
		dpi:        opts.DPI,
		logger:     logger,
	}
}

// Text returns the embedded text of the PDF, with OCR output appended when
// the embedded text is too short. Failures yield whatever text was gathered.
func (a *Acquirer) Text(ctx context.Context, path string) string {
	var text string
	if pages, err := a.readPages(path); err != nil {
		a.logger.Debug("Text layer unreadable", slog.String("path", path), slog.Any("error", err))
	} else {
		text = DocumentText(pages)
	}

	if utf8.RuneCountInString(strings.TrimSpace(text)) >= a.threshold || a.recognizer == nil {
		return text
	}

	a.logger.Info("Running OCR", slog.String("path", path))
	images, err := a.renderer.Render(ctx, path, a.dpi)
	if err != nil {
		a.logger.Warn("Rendering failed", slog.String("path", path), slog.Any("error", err))
	}

	var b strings.Builder
	b.WriteString(text)
	for i, img := range images {
		out, err := a.recognizer.Recognize(ctx, img)
		if err != nil {
			a.logger.Warn("OCR failed", slog.Int("page", i+1), slog.Any("error", err))
			continue
		}
		b.WriteString(out)
		b.WriteByte('\n')
	}
	return b.String()
}

// Tables returns the ruled tables of every page.
func (a *Acquirer) Tables(_ context.Context, path string) ([][][][]string, error) {
	pages, err := a.readPages(path)
	if err != nil {
		return nil, err
	}
	out := make([][][][]string, len(pages))
	for i, p := range pages {
		out[i] = PageTables(p)
	}
	return out, nil
}
