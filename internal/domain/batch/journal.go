package batch

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/FACorreiaa/po-extractor/pkg/applog"
)

// LogKind selects one of the operator log files.
type LogKind string

const (
	AppLog     LogKind = "app"
	SuccessLog LogKind = "success"
	ErrorLog   LogKind = "error"
)

const unknownError = "unknown error"

// ParseLogKind validates a log name given on the command line.
func ParseLogKind(s string) (LogKind, error) {
	switch k := LogKind(strings.ToLower(strings.TrimSpace(s))); k {
	case AppLog, SuccessLog, ErrorLog:
		return k, nil
	}
	return "", fmt.Errorf("unknown log %q (expected app, success or error)", s)
}

// Journal is the plain-text record of which files succeeded and which
// failed. A file name appears at most once in each log.
type Journal struct {
	paths map[LogKind]string
	now   func() time.Time
	mu    sync.Mutex
}

// NewJournal creates a journal over the three log files.
func NewJournal(appLog, successLog, errorLog string) *Journal {
	return &Journal{
		paths: map[LogKind]string{
			AppLog:     appLog,
			SuccessLog: successLog,
			ErrorLog:   errorLog,
		},
		now: time.Now,
	}
}

// Path returns the file behind kind.
func (j *Journal) Path(kind LogKind) string {
	return j.paths[kind]
}

// Init creates missing log files with a creation marker line.
func (j *Journal) Init() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, kind := range []LogKind{AppLog, SuccessLog, ErrorLog} {
		path := j.paths[kind]
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		header := fmt.Sprintf("# Log file created at %s\n", j.timestamp())
		if err := os.WriteFile(path, []byte(header), 0o644); err != nil {
			return fmt.Errorf("failed to create %s log: %w", kind, err)
		}
	}
	return nil
}

// IsProcessed reports whether filename is in the success log.
func (j *Journal) IsProcessed(filename string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	content, err := os.ReadFile(j.paths[SuccessLog])
	if err != nil {
		return false
	}
	return strings.Contains(string(content), "] "+filename+"\n")
}

// RecordSuccess appends filename to the success log. It returns false when
// the file was already recorded.
func (j *Journal) RecordSuccess(filename string) (bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	content, err := j.read(SuccessLog)
	if err != nil {
		return false, err
	}
	if strings.Contains(content, "] "+filename+"\n") {
		return false, nil
	}
	return true, j.append(SuccessLog, fmt.Sprintf("[%s] %s\n", j.timestamp(), filename))
}

// RecordError appends "filename - reason" to the error log unless filename
// is already there.
func (j *Journal) RecordError(filename, reason string) (bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	content, err := j.read(ErrorLog)
	if err != nil {
		return false, err
	}
	if strings.Contains(content, "] "+filename+" -") || strings.Contains(content, "] "+filename+"\n") {
		return false, nil
	}
	if reason == "" {
		reason = unknownError
	}
	return true, j.append(ErrorLog, fmt.Sprintf("[%s] %s - %s\n", j.timestamp(), filename, reason))
}

// Read returns the content of a log; a missing file reads as empty.
func (j *Journal) Read(kind LogKind) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.read(kind)
}

// Clear truncates a log.
func (j *Journal) Clear(kind LogKind) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	path, ok := j.paths[kind]
	if !ok {
		return fmt.Errorf("unknown log %q", kind)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return fmt.Errorf("failed to clear %s log: %w", kind, err)
	}
	return nil
}

// Counts returns the number of entries in the success and error logs.
func (j *Journal) Counts() (success, failed int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.count(SuccessLog), j.count(ErrorLog)
}

func (j *Journal) count(kind LogKind) int {
	f, err := os.Open(j.paths[kind])
	if err != nil {
		return 0
	}
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "[") {
			n++
		}
	}
	return n
}

func (j *Journal) read(kind LogKind) (string, error) {
	path, ok := j.paths[kind]
	if !ok {
		return "", fmt.Errorf("unknown log %q", kind)
	}
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s log: %w", kind, err)
	}
	return string(content), nil
}

func (j *Journal) append(kind LogKind, line string) error {
	path := j.paths[kind]
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s log: %w", kind, err)
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s log: %w", kind, err)
	}
	return f.Close()
}

func (j *Journal) timestamp() string {
	return j.now().Format(applog.TimeLayout)
}
