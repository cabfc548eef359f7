package config

import (
	"os"
	"os/exec"
)

// Capabilities records which optional subsystems are usable in this process.
// It is computed once at startup by Probe and passed to the components that
// need it.
type Capabilities struct {
	Tesseract     bool
	TesseractPath string
	Azure         bool
	Drive         bool
}

// OCR reports whether the configured OCR backend can run.
func (c Capabilities) OCR(backend string) bool {
	switch backend {
	case OCRBackendTesseract:
		return c.Tesseract
	case OCRBackendAzure:
		return c.Azure
	}
	return false
}

// Probe inspects the environment for the optional collaborators.
func Probe(cfg *Config) Capabilities {
	var caps Capabilities

	// A bundled binary next to the workbooks wins over the one on PATH.
	if isExecutable(cfg.OCR.TesseractPath) {
		caps.Tesseract = true
		caps.TesseractPath = cfg.OCR.TesseractPath
	} else if path, err := exec.LookPath("tesseract"); err == nil {
		caps.Tesseract = true
		caps.TesseractPath = path
	}

	caps.Azure = cfg.OCR.AzureEndpoint != "" && cfg.OCR.AzureKey != ""

	if info, err := os.Stat(cfg.Drive.ServiceAccountFile); err == nil && !info.IsDir() {
		caps.Drive = true
	}

	return caps
}

func isExecutable(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0o111 != 0
}
