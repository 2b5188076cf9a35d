package asset

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// fallbackStore tries S3 first, then falls back to the local directory.
type fallbackStore struct {
	s3Store   Store
	fileStore Store
	s3Enabled bool
	logger    zerolog.Logger
}

// NewFallbackStore creates a store that tries S3 first, then falls back to
// the local file system. If s3Store is nil only the file store is used.
func NewFallbackStore(s3Store, fileStore Store, s3Enabled bool, logger zerolog.Logger) Store {
	return &fallbackStore{
		s3Store:   s3Store,
		fileStore: fileStore,
		s3Enabled: s3Enabled,
		logger:    logger.With().Str("component", "image-fallback-store").Logger(),
	}
}

// Open returns the image from S3 when available, otherwise from local disk.
func (s *fallbackStore) Open(ctx context.Context, name string) (*Image, error) {
	if s.s3Enabled && s.s3Store != nil {
		img, err := s.s3Store.Open(ctx, name)
		if err == nil {
			return img, nil
		}

		if errors.Is(err, ErrNotFound) {
			s.logger.Debug().Str("image", name).Msg("image not in S3, trying local file system")
		} else {
			s.logger.Warn().
				Err(err).
				Str("image", name).
				Msg("failed to load from S3, falling back to local file system")
		}
	}

	return s.fileStore.Open(ctx, name)
}
