package export

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/po-extractor/pkg/money"
)

// AppendResult counts what one Append call did.
type AppendResult struct {
	Added   int
	Skipped int
}

// Stats summarises a workbook.
type Stats struct {
	Exists      bool
	Rows        int
	Files       int
	Identifiers int
	Value       *money.Money
}

// Store is the workbook for one layout. It is safe for sequential use by
// several goroutines; concurrent processes writing the same file are not
// supported.
type Store struct {
	path   string
	layout Layout
	logger *slog.Logger
	mu     sync.Mutex
}

// NewStore creates a store for the workbook at path.
func NewStore(path string, layout Layout, logger *slog.Logger) *Store {
	return &Store{path: path, layout: layout, logger: logger}
}

// Path returns the workbook path.
func (s *Store) Path() string { return s.path }

// Layout returns the workbook layout.
func (s *Store) Layout() Layout { return s.layout }

// Init creates the workbook when it is missing and recreates it when the
// header row does not match the layout.
func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.init()
}

func (s *Store) init() error {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return s.create()
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		s.logger.Warn("Workbook unreadable, recreating", slog.String("path", s.path), slog.Any("error", err))
		return s.create()
	}
	rows, err := f.GetRows(s.layout.Sheet)
	_ = f.Close()
	if err != nil || len(rows) == 0 || !slices.Equal(trimRow(rows[0]), s.layout.Headers) {
		s.logger.Warn("Workbook header mismatch, recreating", slog.String("path", s.path))
		return s.create()
	}
	return nil
}

func (s *Store) create() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create workbook directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", s.layout.Sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(s.layout.Sheet, "A1", &s.layout.Headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{s.layout.HeaderFill}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(s.layout.Headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(s.layout.Sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, w := range s.layout.Widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(s.layout.Sheet, col, col, w); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err := f.SetPanes(s.layout.Sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	s.logger.Info("Created Excel file", slog.String("path", s.path), slog.String("layout", s.layout.Name))
	return nil
}

// Append writes records whose identity key is not yet present. Records with
// an empty key part are always written.
func (s *Store) Append(records []Record) (AppendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result AppendResult
	if len(records) == 0 {
		return result, nil
	}
	if err := s.init(); err != nil {
		return result, err
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return result, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(s.layout.Sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return result, fmt.Errorf("failed to read workbook: %w", err)
	}

	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows[min(1, len(rows)):] {
		if k, ok := s.layout.key(row); ok {
			seen[k] = struct{}{}
		}
	}

	styles := map[string]int{}
	next := len(rows) + 1
	for _, r := range records {
		if k, ok := s.layout.keyOf(r); ok {
			if _, dup := seen[k]; dup {
				result.Skipped++
				continue
			}
			seen[k] = struct{}{}
		}
		if err := s.writeRow(f, next, r.Cells(), styles); err != nil {
			return AppendResult{}, err
		}
		next++
		result.Added++
	}

	if result.Added > 0 {
		if err := f.Save(); err != nil {
			return AppendResult{}, fmt.Errorf("failed to save workbook: %w", err)
		}
	}
	return result, nil
}

func (s *Store) writeRow(f *excelize.File, row int, cells []any, styles map[string]int) error {
	for i, c := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		switch v := c.(type) {
		case decimal.Decimal:
			fv, _ := v.Float64()
			if err := f.SetCellFloat(s.layout.Sheet, cell, fv, -1, 64); err != nil {
				return fmt.Errorf("failed to write %s: %w", cell, err)
			}
			if s.layout.NumberFormat == nil {
				continue
			}
			format := s.layout.NumberFormat(i, v)
			if format == "" {
				continue
			}
			id, ok := styles[format]
			if !ok {
				id, err = f.NewStyle(&excelize.Style{CustomNumFmt: &format})
				if err != nil {
					return fmt.Errorf("failed to create number style: %w", err)
				}
				styles[format] = id
			}
			if err := f.SetCellStyle(s.layout.Sheet, cell, cell, id); err != nil {
				return fmt.Errorf("failed to style %s: %w", cell, err)
			}
		default:
			if err := f.SetCellValue(s.layout.Sheet, cell, c); err != nil {
				return fmt.Errorf("failed to write %s: %w", cell, err)
			}
		}
	}
	return nil
}

// Read returns the data rows, padded to the header width.
func (s *Store) Read() ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *Store) read() ([][]string, error) {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(s.layout.Sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}

	width := len(s.layout.Headers)
	var out [][]string
	for _, row := range rows[min(1, len(rows)):] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		padded := make([]string, width)
		copy(padded, row)
		out = append(out, padded)
	}
	return out, nil
}

// Records returns the data rows decoded into the layout's record type.
func (s *Store) Records() ([]Record, error) {
	rows, err := s.Read()
	if err != nil {
		return nil, err
	}
	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = s.layout.fromRow(row)
	}
	return records, nil
}

// Clear removes every data row and keeps the header. It returns the number
// of rows removed.
func (s *Store) Clear() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return 0, s.create()
	}
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return 0, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(s.layout.Sheet)
	if err != nil {
		return 0, fmt.Errorf("failed to read workbook: %w", err)
	}
	removed := 0
	for r := len(rows); r >= 2; r-- {
		if err := f.RemoveRow(s.layout.Sheet, r); err != nil {
			return removed, fmt.Errorf("failed to remove row %d: %w", r, err)
		}
		removed++
	}
	if err := f.Save(); err != nil {
		return removed, fmt.Errorf("failed to save workbook: %w", err)
	}
	s.logger.Info("Cleared workbook", slog.String("path", s.path), slog.Int("rows", removed))
	return removed, nil
}

// Stats counts rows, distinct files and distinct identifiers, and totals the
// value column in VND.
func (s *Store) Stats() (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{Value: money.Zero(money.VND)}
	if _, err := os.Stat(s.path); err != nil {
		return stats, nil
	}
	stats.Exists = true

	rows, err := s.read()
	if err != nil {
		return stats, err
	}

	files := map[string]struct{}{}
	ids := map[string]struct{}{}
	total := decimal.Zero
	for _, row := range rows {
		files[row[1]] = struct{}{}
		if id := row[s.layout.IDIndex]; id != "" {
			ids[id] = struct{}{}
		}
		if v, err := decimal.NewFromString(strings.ReplaceAll(row[s.layout.ValueIndex], ",", "")); err == nil {
			total = total.Add(v)
		}
	}

	stats.Rows = len(rows)
	stats.Files = len(files)
	stats.Identifiers = len(ids)
	stats.Value = money.NewFromDecimal(total, money.VND)
	return stats, nil
}

// WriteCSV writes every data row as CSV with the layout headers.
func (s *Store) WriteCSV(w io.Writer) error {
	records, err := s.Records()
	if err != nil {
		return err
	}
	return MarshalCSV(records, w)
}

func trimRow(row []string) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
