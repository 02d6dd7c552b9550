package slog_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/imgcrawl/mock"
	imgslog "github.com/fwojciec/imgcrawl/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingImageStore_SaveImage(t *testing.T) {
	t.Parallel()

	t.Run("logs saved path and size", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.ImageStore{
			SaveImageFn: func(ctx context.Context, imageURL string, data []byte) (string, error) {
				return "images/1.png", nil
			},
		}

		store := imgslog.NewLoggingImageStore(inner, newDebugLogger(&buf))
		path, err := store.SaveImage(context.Background(), "https://example.com/1.png", []byte("12345"))

		require.NoError(t, err)
		assert.Equal(t, "images/1.png", path)
		output := buf.String()
		assert.Contains(t, output, "msg=\"save image\"")
		assert.Contains(t, output, "url=https://example.com/1.png")
		assert.Contains(t, output, "path=images/1.png")
		assert.Contains(t, output, "bytes=5")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.ImageStore{
			SaveImageFn: func(ctx context.Context, imageURL string, data []byte) (string, error) {
				return "", errors.New("disk full")
			},
		}

		store := imgslog.NewLoggingImageStore(inner, newDebugLogger(&buf))
		_, err := store.SaveImage(context.Background(), "https://example.com/1.png", nil)

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"disk full\"")
	})
}
