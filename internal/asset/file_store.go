package asset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// fileStore implements Store for images kept in a local directory.
type fileStore struct {
	dir    string
	logger zerolog.Logger
}

// NewFileStore creates a store that reads images from dir.
func NewFileStore(dir string, logger zerolog.Logger) Store {
	return &fileStore{
		dir:    dir,
		logger: logger.With().Str("component", "image-file-store").Logger(),
	}
}

// Open reads an image from the local directory.
func (s *fileStore) Open(ctx context.Context, name string) (*Image, error) {
	if !validName(name) {
		s.logger.Warn().Str("image", name).Msg("rejected image name")
		return nil, ErrNotFound
	}

	path := filepath.Join(s.dir, name)

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug().Str("file", path).Msg("image file not found")
			return nil, ErrNotFound
		}
		s.logger.Error().Err(err).Str("file", path).Msg("failed to open image file")
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		s.logger.Error().Err(err).Str("file", path).Msg("failed to stat image file")
		return nil, fmt.Errorf("failed to stat image file %s: %w", path, err)
	}
	if info.IsDir() {
		file.Close()
		return nil, ErrNotFound
	}

	return &Image{
		Name:        name,
		Body:        file,
		ContentType: contentType(name),
		Size:        info.Size(),
	}, nil
}
