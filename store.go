package imgcrawl

import "context"

// ImageStore persists downloaded images.
type ImageStore interface {
	// SaveImage writes the image fetched from imageURL and returns the
	// path it was written to.
	SaveImage(ctx context.Context, imageURL string, data []byte) (path string, err error)
}
