package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveService handles Google Drive API operations
type DriveService struct {
	client *drive.Service
}

// NewDriveService creates a new DriveService instance
// credentialsPath should be the path to the Service Account JSON file
func NewDriveService(ctx context.Context, credentialsPath string) (*DriveService, error) {
	// option.WithCredentialsFile handles Service Account authentication
	driveService, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsPath), option.WithScopes(drive.DriveReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveService{
		client: driveService,
	}, nil
}

// Ensure DriveService implements DriveServiceInterface
var _ DriveServiceInterface = (*DriveService)(nil)

// ListFiles lists every non-trashed file of a Google Drive folder, keyed by name
func (ds *DriveService) ListFiles(ctx context.Context, folderID string) (map[string]string, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false", folderID)

	files := make(map[string]string)
	pageToken := ""
	for {
		call := ds.client.Files.List().
			Context(ctx).
			Q(query).
			Fields("nextPageToken, files(id, name)")

		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		r, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}

		for _, f := range r.Files {
			if _, exists := files[f.Name]; exists {
				log.Printf("⚠️  Duplicate file name %s in Drive folder %s, keeping the first one", f.Name, folderID)
				continue
			}
			files[f.Name] = f.Id
		}

		pageToken = r.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return files, nil
}

// DownloadFile downloads the content of a Drive file
func (ds *DriveService) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := ds.client.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("drive returned status %d for file %s", resp.StatusCode, fileID)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileID, err)
	}
	return data, nil
}

// DriveSource serves wardrobe files stored in a Google Drive folder
// Implements CategorySourceInterface
type DriveSource struct {
	drive    DriveServiceInterface
	folderID string

	mu    sync.Mutex
	files map[string]string // file name -> Drive file id
}

// NewDriveSource creates a new DriveSource for a folder
func NewDriveSource(driveService DriveServiceInterface, folderID string) *DriveSource {
	return &DriveSource{
		drive:    driveService,
		folderID: folderID,
	}
}

// Ensure DriveSource implements CategorySourceInterface
var _ CategorySourceInterface = (*DriveSource)(nil)

// Name returns a description of the source
func (s *DriveSource) Name() string {
	return "drive:" + s.folderID
}

// Fetch downloads the file with the given name from the folder.
// Image paths like "images/top.png" are looked up by their base name.
func (s *DriveSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	fileID, err := s.resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.drive.DownloadFile(ctx, fileID)
}

func (s *DriveSource) resolve(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.files == nil {
		files, err := s.drive.ListFiles(ctx, s.folderID)
		if err != nil {
			return "", fmt.Errorf("failed to list Drive folder %s: %w", s.folderID, err)
		}
		log.Printf("📦 Drive folder %s lists %d files", s.folderID, len(files))
		s.files = files
	}

	if id, ok := s.files[name]; ok {
		return id, nil
	}
	if i := strings.LastIndex(name, "/"); i >= 0 {
		if id, ok := s.files[name[i+1:]]; ok {
			return id, nil
		}
	}
	return "", fmt.Errorf("file %s not found in Drive folder %s", name, s.folderID)
}
