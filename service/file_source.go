package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSource reads wardrobe files from a local directory
// Implements CategorySourceInterface
type FileSource struct {
	dir string
}

// NewFileSource creates a new FileSource rooted at dir
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Ensure FileSource implements CategorySourceInterface
var _ CategorySourceInterface = (*FileSource)(nil)

// Name returns a description of the source
func (s *FileSource) Name() string {
	return "file:" + s.dir
}

// Dir returns the root directory of the source
func (s *FileSource) Dir() string {
	return s.dir
}

// Fetch reads the named file, which must stay inside the source directory
func (s *FileSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean := filepath.Clean("/" + strings.TrimPrefix(name, "/"))
	path := filepath.Join(s.dir, clean)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}
