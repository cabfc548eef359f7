package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	folderMimeType = "application/vnd.google-apps.folder"
	pdfMimeType    = "application/pdf"
)

// Folder is a drive folder or shared drive the service account can see.
type Folder struct {
	ID     string
	Name   string
	Origin string // "Shared Drive", "Shared with me" or "Folder"
}

// DriveClient talks to Google Drive with a service account.
type DriveClient struct {
	service *drive.Service
	tempDir string
	logger  *slog.Logger
}

// NewDriveClient authenticates with the service account key file using
// read-only scopes. Extra options are appended after the credentials.
func NewDriveClient(ctx context.Context, credentialsFile, tempDir string, logger *slog.Logger, opts ...option.ClientOption) (*DriveClient, error) {
	base := []option.ClientOption{
		option.WithScopes(drive.DriveReadonlyScope, drive.DriveMetadataReadonlyScope),
	}
	if credentialsFile != "" {
		base = append(base, option.WithCredentialsFile(credentialsFile))
	}

	service, err := drive.NewService(ctx, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveClient{service: service, tempDir: tempDir, logger: logger}, nil
}

// Folders lists the sub-folders of parent. With an empty parent it lists the
// shared drives and the folders shared with the service account.
func (c *DriveClient) Folders(ctx context.Context, parent string) ([]Folder, error) {
	if parent != "" {
		q := fmt.Sprintf("'%s' in parents and mimeType='%s' and trashed=false", escapeQuery(parent), folderMimeType)
		return c.listFolders(ctx, q, "Folder")
	}

	var folders []Folder
	err := c.service.Drives.List().PageSize(100).Pages(ctx, func(page *drive.DriveList) error {
		for _, d := range page.Drives {
			folders = append(folders, Folder{ID: d.Id, Name: d.Name, Origin: "Shared Drive"})
		}
		return nil
	})
	if err != nil {
		// Accounts without shared drive access still see shared folders.
		c.logger.Warn("Failed to list shared drives", slog.Any("error", err))
	}

	shared, err := c.listFolders(ctx, fmt.Sprintf("sharedWithMe=true and mimeType='%s' and trashed=false", folderMimeType), "Shared with me")
	if err != nil {
		return folders, err
	}
	return append(folders, shared...), nil
}

func (c *DriveClient) listFolders(ctx context.Context, q, origin string) ([]Folder, error) {
	var folders []Folder
	err := c.service.Files.List().
		Q(q).
		PageSize(100).
		Fields("nextPageToken, files(id, name)").
		OrderBy("name").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				folders = append(folders, Folder{ID: f.Id, Name: f.Name, Origin: origin})
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	return folders, nil
}

// Files lists the PDFs directly inside folder, ordered by name.
func (c *DriveClient) Files(ctx context.Context, folder string) ([]FileInfo, error) {
	q := fmt.Sprintf("'%s' in parents and mimeType='%s' and trashed=false", escapeQuery(folder), pdfMimeType)

	var files []FileInfo
	err := c.service.Files.List().
		Q(q).
		PageSize(1000).
		Fields("nextPageToken, files(id, name, size)").
		OrderBy("name").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				files = append(files, FileInfo{ID: f.Id, Name: driveFileName(f.Id, f.Name), Size: f.Size})
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}

// Download copies the file into a fresh temp directory. cleanup removes it.
func (c *DriveClient) Download(ctx context.Context, file FileInfo) (string, func(), error) {
	resp, err := c.service.Files.Get(file.ID).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return "", noop, fmt.Errorf("failed to download %s: %w", file.ID, err)
	}
	defer resp.Body.Close()

	dir, err := os.MkdirTemp(c.tempDir, "drive-*")
	if err != nil {
		return "", noop, fmt.Errorf("failed to create temp directory: %w", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(dir); err != nil {
			c.logger.Warn("Failed to remove temp directory", slog.String("dir", dir), slog.Any("error", err))
		}
	}

	path := filepath.Join(dir, sanitizeFilename(driveFileName(file.ID, file.Name)))
	f, err := os.Create(path)
	if err != nil {
		cleanup()
		return "", noop, fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		cleanup()
		return "", noop, fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", noop, fmt.Errorf("failed to write file: %w", err)
	}

	return path, cleanup, nil
}

// DriveSource is a Source over one drive folder.
type DriveSource struct {
	client *DriveClient
	folder string
}

// NewDriveSource creates a source over the PDFs in folder.
func NewDriveSource(client *DriveClient, folder string) *DriveSource {
	return &DriveSource{client: client, folder: folder}
}

func (s *DriveSource) List(ctx context.Context) ([]FileInfo, error) {
	return s.client.Files(ctx, s.folder)
}

func (s *DriveSource) Fetch(ctx context.Context, file FileInfo) (string, func(), error) {
	return s.client.Download(ctx, file)
}

// ServiceAccountEmail reads client_email from a service account key file.
// Operators share folders with this address.
func ServiceAccountEmail(credentialsFile string) (string, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return "", fmt.Errorf("failed to read service account file: %w", err)
	}
	var key struct {
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(data, &key); err != nil {
		return "", fmt.Errorf("failed to parse service account file: %w", err)
	}
	return key.ClientEmail, nil
}

func driveFileName(id, name string) string {
	if name != "" {
		return name
	}
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	return "Unknown_Drive_File_" + short
}

func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
