package mock

import (
	"context"

	"github.com/fwojciec/imgcrawl"
)

var _ imgcrawl.ImageStore = (*ImageStore)(nil)

// ImageStore is a mock implementation of imgcrawl.ImageStore.
type ImageStore struct {
	SaveImageFn func(ctx context.Context, imageURL string, data []byte) (string, error)
}

func (s *ImageStore) SaveImage(ctx context.Context, imageURL string, data []byte) (string, error) {
	return s.SaveImageFn(ctx, imageURL, data)
}
