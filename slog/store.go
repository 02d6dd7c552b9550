package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/imgcrawl"
)

// Ensure LoggingImageStore implements imgcrawl.ImageStore.
var _ imgcrawl.ImageStore = (*LoggingImageStore)(nil)

// LoggingImageStore wraps an ImageStore with debug logging.
type LoggingImageStore struct {
	next   imgcrawl.ImageStore
	logger *slog.Logger
}

// NewLoggingImageStore creates a new LoggingImageStore.
func NewLoggingImageStore(next imgcrawl.ImageStore, logger *slog.Logger) *LoggingImageStore {
	return &LoggingImageStore{next: next, logger: logger}
}

// SaveImage logs the saved image and delegates to the wrapped store.
func (s *LoggingImageStore) SaveImage(ctx context.Context, imageURL string, data []byte) (path string, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("save image",
			"url", imageURL,
			"path", path,
			"bytes", len(data),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveImage(ctx, imageURL, data)
}
