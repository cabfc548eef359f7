package applog

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var linePattern = regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] \[(INFO|WARN|ERROR|DEBUG)\] `)

func TestFileHandler(t *testing.T) {
	t.Run("writes the app log line format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(NewFileHandler(&buf, slog.LevelInfo))

		logger.Info("Started processing 3 files - format1")
		logger.Error("Failed to process", slog.String("file", "a b.pdf"), slog.Int("items", 0))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		assert.Regexp(t, linePattern, lines[0])
		assert.True(t, strings.HasSuffix(lines[0], "[INFO] Started processing 3 files - format1"))
		assert.Contains(t, lines[1], "[ERROR] Failed to process")
		assert.Contains(t, lines[1], `file="a b.pdf"`)
		assert.Contains(t, lines[1], "items=0")
	})

	t.Run("drops records below the level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(NewFileHandler(&buf, slog.LevelInfo))

		logger.Debug("noise")
		assert.Empty(t, buf.String())
	})

	t.Run("prefixes grouped and bound attributes", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(NewFileHandler(&buf, nil)).With(slog.String("run", "r1")).WithGroup("doc")

		logger.Info("parsed", slog.Int("items", 4))
		assert.Contains(t, buf.String(), "run=r1 doc.items=4")
	})

	t.Run("swallows write failures", func(t *testing.T) {
		h := NewFileHandler(failingWriter{}, slog.LevelInfo)
		assert.NotPanics(t, func() {
			slog.New(h).Info("still fine")
		})
	})
}

func TestFanout(t *testing.T) {
	var info, debug bytes.Buffer
	logger := slog.New(Fanout{
		NewFileHandler(&info, slog.LevelInfo),
		NewFileHandler(&debug, slog.LevelDebug),
	})

	logger.Debug("details")
	logger.Info("summary")

	assert.NotContains(t, info.String(), "details")
	assert.Contains(t, info.String(), "summary")
	assert.Contains(t, debug.String(), "details")
	assert.Contains(t, debug.String(), "summary")
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app_log.txt")
	var console bytes.Buffer

	logger, closeFn, err := Open(path, &console, false)
	require.NoError(t, err)

	logger.Info("Opened Excel file format1")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Regexp(t, linePattern, string(data))
	assert.Contains(t, console.String(), "Opened Excel file format1")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }
