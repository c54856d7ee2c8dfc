package storage

import (
	"context"
	"os"

	log "github.com/freundallein/blogs/backend/chassis/logging"
)

// FileSource reads a JSON array from the local filesystem.
type FileSource struct {
	Path string
}

// NewFileSource ...
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Name ...
func (s *FileSource) Name() string {
	return "file:" + s.Path
}

// Read ...
func (s *FileSource) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"event":  "read_dataset",
		"source": "file",
		"bytes":  len(data),
	}).Debug(s.Path)
	return data, nil
}
