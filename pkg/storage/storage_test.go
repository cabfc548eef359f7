package storage

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestLocalFolder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.PDF", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755))

	src, err := NewLocalFolder(dir)
	require.NoError(t, err)

	files, err := src.List(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.PDF", files[0].Name)
	assert.Equal(t, "b.pdf", files[1].Name)
	assert.Equal(t, int64(8), files[1].Size)

	path, cleanup, err := src.Fetch(context.Background(), files[1])
	require.NoError(t, err)
	cleanup()
	assert.FileExists(t, path)
}

func TestLocalFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "PO 123.pdf")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	src := NewLocalFiles(path, filepath.Join(dir, "missing.pdf"))
	files, err := src.List(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "PO 123.pdf", files[0].Name)

	_, _, err = src.Fetch(context.Background(), files[1])
	assert.Error(t, err)

	_, err = NewLocalFolder(path)
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a_b_c_.pdf", sanitizeFilename(`a/b\c:.pdf`))
	assert.Equal(t, "__etc_passwd", sanitizeFilename("../etc/passwd"))
}

func TestDriveFileName(t *testing.T) {
	assert.Equal(t, "PO.pdf", driveFileName("1AbCdEfGhIj", "PO.pdf"))
	assert.Equal(t, "Unknown_Drive_File_1AbCdEfG", driveFileName("1AbCdEfGhIj", ""))
	assert.Equal(t, "Unknown_Drive_File_abc", driveFileName("abc", ""))
}

func newTestDrive(t *testing.T, handler http.HandlerFunc) *DriveClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewDriveClient(context.Background(), "", t.TempDir(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return client
}

func TestDriveFiles(t *testing.T) {
	var query string
	client := newTestDrive(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"files":[{"id":"1AbCdEfGhIj","name":"PO-1.pdf","size":"2048"},{"id":"2ZyXwVuTsRq","name":""}]}`)
	})

	files, err := client.Files(context.Background(), "folder'1")
	require.NoError(t, err)
	assert.Equal(t, `'folder\'1' in parents and mimeType='application/pdf' and trashed=false`, query)
	require.Len(t, files, 2)
	assert.Equal(t, FileInfo{ID: "1AbCdEfGhIj", Name: "PO-1.pdf", Size: 2048}, files[0])
	assert.Equal(t, "Unknown_Drive_File_2ZyXwVuT", files[1].Name)
}

func TestDriveDownload(t *testing.T) {
	client := newTestDrive(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/files/abc") || r.URL.Query().Get("alt") != "media" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, "%PDF-1.7 body")
	})

	src := NewDriveSource(client, "folder")
	path, cleanup, err := src.Fetch(context.Background(), FileInfo{ID: "abc", Name: "PO:7.pdf"})
	require.NoError(t, err)

	assert.Equal(t, "PO_7.pdf", filepath.Base(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 body", string(data))

	cleanup()
	assert.NoFileExists(t, path)

	_, cleanup, err = src.Fetch(context.Background(), FileInfo{ID: "missing"})
	assert.Error(t, err)
	assert.NotNil(t, cleanup)
}

func TestServiceAccountEmail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sa.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"service_account","client_email":"po-bot@proj.iam.gserviceaccount.com"}`), 0o600))

	email, err := ServiceAccountEmail(path)
	require.NoError(t, err)
	assert.Equal(t, "po-bot@proj.iam.gserviceaccount.com", email)

	_, err = ServiceAccountEmail(filepath.Join(t.TempDir(), "none.json"))
	assert.Error(t, err)
}
