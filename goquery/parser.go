// Package goquery implements imgcrawl.Parser using goquery CSS selectors.
package goquery

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/imgcrawl"
)

var _ imgcrawl.Parser = (*Parser)(nil)

// Parser extracts anchor and image references from HTML.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// ExtractLinks returns the href of every anchor in document order.
// Anchors without an href or with a blank one are skipped.
func (p *Parser) ExtractLinks(html []byte) ([]string, error) {
	return extractAttr(html, "a[href]", "href")
}

// ExtractImageSources returns the src of every img element in document order.
// Images without a src or with a blank one are skipped.
func (p *Parser) ExtractImageSources(html []byte) ([]string, error) {
	return extractAttr(html, "img[src]", "src")
}

func extractAttr(html []byte, selector, attr string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, imgcrawl.Errorf(imgcrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	var values []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		value, exists := sel.Attr(attr)
		if !exists {
			return
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		values = append(values, value)
	})
	return values, nil
}
