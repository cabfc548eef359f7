package acquire

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Azure/azure-sdk-for-go/services/cognitiveservices/v3.0/computervision"
	"github.com/Azure/go-autorest/autorest"
	"github.com/disintegration/imaging"
	fitz "github.com/gen2brain/go-fitz"
)

// Renderer rasterises the pages of a PDF.
type Renderer interface {
	Render(ctx context.Context, path string, dpi int) ([]image.Image, error)
}

// Recognizer turns a page image into text.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// FitzRenderer renders pages with MuPDF.
type FitzRenderer struct{}

func (FitzRenderer) Render(ctx context.Context, path string, dpi int) ([]image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF for rendering: %w", err)
	}
	defer doc.Close()

	images := make([]image.Image, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return images, err
		}
		img, err := doc.ImageDPI(i, float64(dpi))
		if err != nil {
			return images, fmt.Errorf("failed to render page %d: %w", i+1, err)
		}
		images = append(images, img)
	}
	return images, nil
}

// Enhance prepares a scan for recognition.
func Enhance(img image.Image) image.Image {
	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, 30)
	return imaging.Sharpen(out, 1.5)
}

// TesseractRecognizer runs the tesseract command line tool.
type TesseractRecognizer struct {
	Path        string
	TessdataDir string
	Language    string
	TempDir     string
}

func (t TesseractRecognizer) Recognize(ctx context.Context, img image.Image) (string, error) {
	dir, err := os.MkdirTemp(t.TempDir, "ocr-*")
	if err != nil {
		return "", fmt.Errorf("failed to create OCR temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "page.png")
	if err := imaging.Save(Enhance(img), input); err != nil {
		return "", fmt.Errorf("failed to write page image: %w", err)
	}

	lang := t.Language
	if lang == "" {
		lang = "eng"
	}
	cmd := exec.CommandContext(ctx, t.Path, input, "stdout", "-l", lang)
	if t.TessdataDir != "" {
		cmd.Env = append(os.Environ(), "TESSDATA_PREFIX="+t.TessdataDir)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("tesseract failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return string(out), nil
}

// AzureRecognizer calls the Computer Vision printed text endpoint.
type AzureRecognizer struct {
	client computervision.BaseClient
}

// NewAzureRecognizer creates a recognizer authorised with a subscription key.
func NewAzureRecognizer(endpoint, key string) *AzureRecognizer {
	client := computervision.New(endpoint)
	client.Authorizer = autorest.NewCognitiveServicesAuthorizer(key)
	return &AzureRecognizer{client: client}
}

func (a *AzureRecognizer) Recognize(ctx context.Context, img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, Enhance(img), imaging.PNG); err != nil {
		return "", fmt.Errorf("failed to encode page image: %w", err)
	}

	result, err := a.client.RecognizePrintedTextInStream(ctx, true, io.NopCloser(&buf), computervision.OcrLanguages("en"))
	if err != nil {
		return "", fmt.Errorf("azure OCR failed: %w", err)
	}
	if result.Regions == nil {
		return "", errors.New("azure OCR returned no regions")
	}

	var lines []string
	for _, region := range *result.Regions {
		if region.Lines == nil {
			continue
		}
		for _, l := range *region.Lines {
			if l.Words == nil {
				continue
			}
			words := make([]string, 0, len(*l.Words))
			for _, w := range *l.Words {
				if w.Text != nil {
					words = append(words, *w.Text)
				}
			}
			lines = append(lines, strings.Join(words, " "))
		}
	}
	return strings.Join(lines, "\n"), nil
}
