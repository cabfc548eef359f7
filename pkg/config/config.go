package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	// Load environment variables from .env files when present.
	_ "github.com/joho/godotenv/autoload"
)

// Format selects which purchase-order layout the extraction pipeline expects.
type Format string

const (
	Format1 Format = "format1" // free-text layout, one line per item
	Format2 Format = "format2" // ruled tables with a 13-digit article column
)

// OCR backends
const (
	OCRBackendTesseract = "tesseract"
	OCRBackendAzure     = "azure"
	OCRBackendNone      = "none"
)

// Config holds all application configuration
type Config struct {
	Paths         PathsConfig
	Extraction    ExtractionConfig
	OCR           OCRConfig
	Drive         DriveConfig
	Watch         WatchConfig
	Observability ObservabilityConfig
}

type PathsConfig struct {
	BaseDir         string
	Format1Workbook string
	Format2Workbook string
	AppLog          string
	SuccessLog      string
	ErrorLog        string
	TempDir         string
}

type ExtractionConfig struct {
	Format       Format
	Debug        bool
	OCRThreshold int // trimmed text shorter than this triggers OCR
	MinContent   int // trimmed text shorter than this after OCR is unreadable
	OCRDPI       int
}

type OCRConfig struct {
	Backend       string
	TesseractPath string
	TessdataDir   string
	Language      string
	AzureEndpoint string
	AzureKey      string
}

type DriveConfig struct {
	ServiceAccountFile string
	FolderID           string
}

type WatchConfig struct {
	Folder   string
	Schedule string
}

type ObservabilityConfig struct {
	MetricsEnabled bool
	MetricsPort    int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	baseDir := getEnv("POEXTRACT_HOME", ".")

	cfg := &Config{
		Paths: PathsConfig{
			BaseDir:         baseDir,
			Format1Workbook: getEnv("FORMAT1_WORKBOOK", filepath.Join(baseDir, "output.xlsx")),
			Format2Workbook: getEnv("FORMAT2_WORKBOOK", filepath.Join(baseDir, "output_format2.xlsx")),
			AppLog:          getEnv("APP_LOG_FILE", filepath.Join(baseDir, "app_log.txt")),
			SuccessLog:      getEnv("SUCCESS_LOG_FILE", filepath.Join(baseDir, "success_log.txt")),
			ErrorLog:        getEnv("ERROR_LOG_FILE", filepath.Join(baseDir, "error_log.txt")),
			TempDir:         getEnv("TEMP_DIR", os.TempDir()),
		},
		Extraction: ExtractionConfig{
			Format:       Format(strings.ToLower(getEnv("PO_FORMAT", string(Format1)))),
			Debug:        getEnvAsBool("DEBUG", false),
			OCRThreshold: getEnvAsInt("OCR_THRESHOLD", 50),
			MinContent:   getEnvAsInt("MIN_CONTENT_LENGTH", 20),
			OCRDPI:       getEnvAsInt("OCR_DPI", 300),
		},
		OCR: OCRConfig{
			Backend:       strings.ToLower(getEnv("OCR_BACKEND", OCRBackendTesseract)),
			TesseractPath: getEnv("TESSERACT_PATH", filepath.Join(baseDir, "tesseract")),
			TessdataDir:   getEnv("TESSDATA_PREFIX", filepath.Join(baseDir, "tessdata")),
			Language:      getEnv("OCR_LANGUAGE", "eng"),
			AzureEndpoint: getEnv("AZURE_VISION_ENDPOINT", ""),
			AzureKey:      getEnv("AZURE_VISION_KEY", ""),
		},
		Drive: DriveConfig{
			ServiceAccountFile: getEnv("DRIVE_SERVICE_ACCOUNT_FILE", filepath.Join(baseDir, "service_account.json")),
			FolderID:           getEnv("DRIVE_FOLDER_ID", ""),
		},
		Watch: WatchConfig{
			Folder:   getEnv("WATCH_FOLDER", ""),
			Schedule: getEnv("WATCH_SCHEDULE", "@every 5m"),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
			MetricsPort:    getEnvAsInt("METRICS_PORT", 9090),
		},
	}

	format, err := ParseFormat(string(cfg.Extraction.Format))
	if err != nil {
		return nil, err
	}
	cfg.Extraction.Format = format

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	if c.Extraction.Format != Format1 && c.Extraction.Format != Format2 {
		return fmt.Errorf("unknown format %q", c.Extraction.Format)
	}

	switch c.OCR.Backend {
	case OCRBackendTesseract, OCRBackendAzure, OCRBackendNone:
	default:
		return fmt.Errorf("unknown OCR_BACKEND %q", c.OCR.Backend)
	}

	if c.OCR.Backend == OCRBackendAzure && (c.OCR.AzureEndpoint == "" || c.OCR.AzureKey == "") {
		return errors.New("AZURE_VISION_ENDPOINT and AZURE_VISION_KEY are required for the azure OCR backend")
	}

	if c.Extraction.OCRDPI <= 0 {
		return errors.New("OCR_DPI must be positive")
	}

	return nil
}

// Workbook returns the export workbook path for the active format
func (c *Config) Workbook() string {
	if c.Extraction.Format == Format2 {
		return c.Paths.Format2Workbook
	}
	return c.Paths.Format1Workbook
}

// ParseFormat accepts "format1"/"format2" and the short forms "1"/"2".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "format1", "1", "f1":
		return Format1, nil
	case "format2", "2", "f2":
		return Format2, nil
	}
	return "", fmt.Errorf("unknown format %q (expected format1 or format2)", s)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
