package service

import "context"

// DriveServiceInterface defines the contract for Google Drive operations
type DriveServiceInterface interface {
	// ListFiles returns the files of a folder keyed by file name
	ListFiles(ctx context.Context, folderID string) (map[string]string, error)
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}
