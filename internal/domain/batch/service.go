// Package batch runs the extraction pipeline over a set of documents and
// keeps the operator journal.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/po-extractor/internal/domain/export"
	"github.com/FACorreiaa/po-extractor/internal/domain/extract"
	"github.com/FACorreiaa/po-extractor/pkg/metrics"
	"github.com/FACorreiaa/po-extractor/pkg/storage"
)

const tracerName = "github.com/FACorreiaa/po-extractor/internal/domain/batch"

// Appender persists export records.
type Appender interface {
	Append(records []export.Record) (export.AppendResult, error)
}

// Failure is one document that could not be processed.
type Failure struct {
	File   string
	Reason string
}

// Summary describes a finished run.
type Summary struct {
	RunID       uuid.UUID
	Total       int
	Success     int
	Skipped     int
	Failed      int
	RowsAdded   int
	RowsSkipped int
	Failures    []Failure
}

func (s Summary) String() string {
	return fmt.Sprintf("%d succeeded, %d skipped, %d failed (%d rows added, %d duplicates skipped)",
		s.Success, s.Skipped, s.Failed, s.RowsAdded, s.RowsSkipped)
}

// Service processes documents one at a time: fetch, extract, append, journal.
type Service struct {
	format    string
	extractor extract.Extractor
	store     Appender
	journal   *Journal
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewService creates a batch service. m may be nil.
func NewService(format string, extractor extract.Extractor, store Appender, journal *Journal, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		format:    format,
		extractor: extractor,
		store:     store,
		journal:   journal,
		metrics:   m,
		tracer:    otel.Tracer(tracerName),
		logger:    logger,
	}
}

// Run processes every document of src that the success log does not list.
// Document failures are journaled and counted; only listing the source or
// cancellation stops the run.
func (s *Service) Run(ctx context.Context, src storage.Source) (Summary, error) {
	summary := Summary{RunID: uuid.New()}
	logger := s.logger.With(slog.String("run_id", summary.RunID.String()))

	files, err := src.List(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to list documents: %w", err)
	}
	summary.Total = len(files)
	logger.Info("Batch started", slog.String("format", s.format), slog.Int("files", len(files)))

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			logger.Warn("Batch cancelled", slog.Int("remaining", len(files)-i))
			return summary, err
		}
		progress := fmt.Sprintf("[%d/%d]", i+1, len(files))

		if s.journal.IsProcessed(file.Name) {
			logger.Info(progress+" Skipped, already processed", slog.String("file", file.Name))
			summary.Skipped++
			s.metrics.ObserveDocument(s.format, "skipped", 0)
			continue
		}

		logger.Info(progress+" Processing", slog.String("file", file.Name))
		start := time.Now()
		result, added, err := s.process(ctx, src, file)
		if err != nil {
			reason := extract.Reason(err)
			logger.Error(progress+" Failed", slog.String("file", file.Name), slog.String("reason", reason), slog.Any("error", err))
			if _, jerr := s.journal.RecordError(file.Name, reason); jerr != nil {
				logger.Warn("Failed to write error log", slog.Any("error", jerr))
			}
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{File: file.Name, Reason: reason})
			s.metrics.ObserveDocument(s.format, outcome(err), time.Since(start))
			continue
		}

		if _, jerr := s.journal.RecordSuccess(file.Name); jerr != nil {
			logger.Warn("Failed to write success log", slog.Any("error", jerr))
		}
		summary.Success++
		summary.RowsAdded += added.Added
		summary.RowsSkipped += added.Skipped
		s.metrics.ObserveDocument(s.format, "success", time.Since(start))
		s.metrics.ObserveRows(s.format, added.Added, added.Skipped)

		logger.Info(progress+" Done",
			slog.String("file", file.Name),
			slog.String("identifier", result.Identifier),
			slog.Int("items", result.Items()),
			slog.Int("added", added.Added),
			slog.Int("duplicates", added.Skipped),
		)
	}

	s.metrics.RunCompleted()
	logger.Info("Batch finished",
		slog.Int("success", summary.Success),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed),
		slog.Int("rows_added", summary.RowsAdded),
		slog.Int("rows_skipped", summary.RowsSkipped),
	)
	return summary, nil
}

func (s *Service) process(ctx context.Context, src storage.Source, file storage.FileInfo) (extract.Result, export.AppendResult, error) {
	ctx, span := s.tracer.Start(ctx, "batch.document", trace.WithAttributes(
		attribute.String("file", file.Name),
		attribute.String("format", s.format),
	))
	defer span.End()

	result, added, err := s.handle(ctx, src, file)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, extract.Reason(err))
		return result, added, err
	}
	span.SetAttributes(
		attribute.String("identifier", result.Identifier),
		attribute.Int("items", result.Items()),
		attribute.Int("rows_added", added.Added),
	)
	return result, added, nil
}

func (s *Service) handle(ctx context.Context, src storage.Source, file storage.FileInfo) (extract.Result, export.AppendResult, error) {
	path, cleanup, err := src.Fetch(ctx, file)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		return extract.Result{}, export.AppendResult{}, extract.Fail(extract.DownloadFailed, "").Wrap(err)
	}

	result, err := s.extractor.Extract(ctx, path, file.Name)
	if err != nil {
		return result, export.AppendResult{}, err
	}

	added, err := s.store.Append(result.Records)
	if err != nil {
		return result, added, extract.Fail(extract.SaveFailed, "").Wrap(err)
	}
	return result, added, nil
}

func outcome(err error) string {
	if kind := extract.KindOf(err); kind != "" {
		return string(kind)
	}
	return "error"
}
