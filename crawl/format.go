package crawl

import (
	"fmt"
	"strings"
)

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatSummary renders a run summary as a few human-readable lines.
// Missing parts of a partial summary are omitted.
func FormatSummary(s *Summary) string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	if s.Crawl != nil {
		fmt.Fprintf(&b, "Crawled %d pages (%d skipped, %d failed)\n",
			len(s.Crawl.Visited), s.Crawl.Skipped, s.Crawl.Failed)
	}
	if s.Download != nil {
		fmt.Fprintf(&b, "Saved %d images, %s (%d skipped, %d failed)\n",
			s.Download.Saved, FormatBytes(s.Download.Bytes), s.Download.Skipped, s.Download.Failed)
	}
	return b.String()
}
