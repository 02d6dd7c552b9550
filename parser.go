package imgcrawl

// Parser extracts references from HTML documents.
// Returned values are raw attribute values and may be relative.
type Parser interface {
	// ExtractLinks returns the href of every anchor in document order.
	ExtractLinks(html []byte) ([]string, error)

	// ExtractImageSources returns the src of every image in document order.
	ExtractImageSources(html []byte) ([]string, error)
}
