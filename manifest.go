package imgcrawl

import (
	"context"
	"time"
)

// Run is the record of one pipeline run and the images it saved.
type Run struct {
	ID         string
	RootURL    string
	StartedAt  time.Time
	FinishedAt time.Time
	Pages      int
	Images     []*SavedImage
}

// Validate returns an error if the run has invalid fields.
func (r *Run) Validate() error {
	if r.ID == "" {
		return Errorf(EINVALID, "run ID required")
	}
	if r.RootURL == "" {
		return Errorf(EINVALID, "run root URL required")
	}
	for _, img := range r.Images {
		if img.URL == "" || img.Path == "" {
			return Errorf(EINVALID, "saved image requires URL and path")
		}
	}
	return nil
}

// SavedImage maps a downloaded image URL to the file it was written to.
type SavedImage struct {
	RunID string
	URL   string
	Path  string
	Bytes int
}

// ImageFilter represents a filter for FindImages.
type ImageFilter struct {
	RunID *string
	URL   *string
	Path  *string

	Offset int
	Limit  int
}

// ManifestService records which files each run wrote.
type ManifestService interface {
	// RecordRun stores a run together with its images.
	RecordRun(ctx context.Context, run *Run) error

	// FindRunByID retrieves a run and its images.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindImages retrieves saved images matching the filter, oldest first.
	FindImages(ctx context.Context, filter ImageFilter) ([]*SavedImage, error)
}
