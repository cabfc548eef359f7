package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/FACorreiaa/po-extractor/internal/domain/batch"
	"github.com/FACorreiaa/po-extractor/internal/domain/export"
	"github.com/FACorreiaa/po-extractor/internal/domain/extract"
	"github.com/FACorreiaa/po-extractor/internal/domain/extract/acquire"
	"github.com/FACorreiaa/po-extractor/internal/domain/extract/format1"
	"github.com/FACorreiaa/po-extractor/internal/domain/extract/format2"
	"github.com/FACorreiaa/po-extractor/pkg/applog"
	"github.com/FACorreiaa/po-extractor/pkg/config"
	"github.com/FACorreiaa/po-extractor/pkg/metrics"
	"github.com/FACorreiaa/po-extractor/pkg/storage"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config       *config.Config
	Capabilities config.Capabilities
	Logger       *slog.Logger

	Acquirer  *acquire.Acquirer
	Extractor extract.Extractor
	Store     *export.Store
	Journal   *batch.Journal
	Metrics   *metrics.Metrics
	Batch     *batch.Service

	closeLog func() error
}

// InitDependencies initializes all application dependencies. Console log
// output goes to console; the app log file gets a copy.
func InitDependencies(cfg *config.Config, console io.Writer) (*Dependencies, error) {
	deps := &Dependencies{
		Config:       cfg,
		Capabilities: config.Probe(cfg),
	}

	// The journal goes first so the app log gets its creation marker.
	if err := deps.initJournal(); err != nil {
		return nil, fmt.Errorf("failed to init journal: %w", err)
	}

	if err := deps.initLogger(console); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	logger := deps.Logger

	if err := deps.initExport(); err != nil {
		return nil, fmt.Errorf("failed to init export: %w", err)
	}

	deps.initExtraction()
	deps.initBatch()

	logger.Debug("all dependencies initialized successfully",
		slog.String("format", string(cfg.Extraction.Format)),
		slog.Bool("ocr", deps.Capabilities.OCR(cfg.OCR.Backend)),
		slog.Bool("drive", deps.Capabilities.Drive),
	)

	return deps, nil
}

func (d *Dependencies) initJournal() error {
	p := d.Config.Paths
	d.Journal = batch.NewJournal(p.AppLog, p.SuccessLog, p.ErrorLog)
	return d.Journal.Init()
}

func (d *Dependencies) initLogger(console io.Writer) error {
	logger, closeLog, err := applog.Open(d.Config.Paths.AppLog, console, d.Config.Extraction.Debug)
	if err != nil {
		return err
	}
	d.Logger = logger
	d.closeLog = closeLog
	return nil
}

func (d *Dependencies) initExport() error {
	layout, err := export.LayoutFor(string(d.Config.Extraction.Format))
	if err != nil {
		return err
	}
	d.Store = export.NewStore(d.Config.Workbook(), layout, d.Logger)
	if err := d.Store.Init(); err != nil {
		return err
	}

	d.Logger.Debug("export store initialized", slog.String("path", d.Store.Path()))
	return nil
}

// initExtraction wires the OCR backend the probe found usable and the
// processor for the configured format.
func (d *Dependencies) initExtraction() {
	cfg := d.Config
	opts := acquire.Options{
		Threshold: cfg.Extraction.OCRThreshold,
		DPI:       cfg.Extraction.OCRDPI,
	}

	switch {
	case cfg.OCR.Backend == config.OCRBackendAzure && d.Capabilities.Azure:
		opts.Recognizer = acquire.NewAzureRecognizer(cfg.OCR.AzureEndpoint, cfg.OCR.AzureKey)
	case cfg.OCR.Backend == config.OCRBackendTesseract && d.Capabilities.Tesseract:
		opts.Recognizer = acquire.TesseractRecognizer{
			Path:        d.Capabilities.TesseractPath,
			TessdataDir: cfg.OCR.TessdataDir,
			Language:    cfg.OCR.Language,
			TempDir:     cfg.Paths.TempDir,
		}
	case cfg.OCR.Backend != config.OCRBackendNone:
		d.Logger.Warn("OCR backend unavailable, scanned documents will fail", slog.String("backend", cfg.OCR.Backend))
	}
	d.Acquirer = acquire.New(opts, d.Logger)

	if cfg.Extraction.Format == config.Format2 {
		d.Extractor = format2.NewProcessor(d.Acquirer, d.Logger, cfg.Extraction.Debug)
	} else {
		d.Extractor = format1.NewProcessor(d.Acquirer, d.Logger, cfg.Extraction.Debug, cfg.Extraction.MinContent)
	}

	d.Logger.Debug("extraction initialized", slog.Bool("ocr", opts.Recognizer != nil))
}

func (d *Dependencies) initBatch() {
	if d.Config.Observability.MetricsEnabled {
		d.Metrics = metrics.New()
	}
	d.Batch = batch.NewService(string(d.Config.Extraction.Format), d.Extractor, d.Store, d.Journal, d.Metrics, d.Logger)

	d.Logger.Debug("batch service initialized")
}

// Drive connects to Google Drive with the configured service account.
func (d *Dependencies) Drive(ctx context.Context) (*storage.DriveClient, error) {
	if !d.Capabilities.Drive {
		return nil, errors.New("drive is not configured: service account file " + d.Config.Drive.ServiceAccountFile + " not found")
	}
	return storage.NewDriveClient(ctx, d.Config.Drive.ServiceAccountFile, d.Config.Paths.TempDir, d.Logger)
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.closeLog != nil {
		_ = d.closeLog()
	}
}
