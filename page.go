package imgcrawl

// PendingPage is an accepted HTML page waiting for image extraction.
type PendingPage struct {
	URL  string
	Body []byte
}

// ProgressType indicates the kind of progress event.
type ProgressType int

const (
	PageAccepted ProgressType = iota
	PageSkipped
	PageFailed
	ImageSaved
	ImageSkipped
	ImageFailed
)

// String returns a short label for the event type.
func (t ProgressType) String() string {
	switch t {
	case PageAccepted:
		return "page_accepted"
	case PageSkipped:
		return "page_skipped"
	case PageFailed:
		return "page_failed"
	case ImageSaved:
		return "image_saved"
	case ImageSkipped:
		return "image_skipped"
	case ImageFailed:
		return "image_failed"
	default:
		return "unknown"
	}
}

// ProgressEvent reports progress during crawling and downloading.
type ProgressEvent struct {
	Type  ProgressType
	URL   string
	Path  string // local path, set for ImageSaved
	Bytes int
	Error error
}

// ProgressFunc is called as pages and images are processed.
// It may be called concurrently from multiple download workers.
type ProgressFunc func(ProgressEvent)
