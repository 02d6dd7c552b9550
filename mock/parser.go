package mock

import "github.com/fwojciec/imgcrawl"

var _ imgcrawl.Parser = (*Parser)(nil)

// Parser is a mock implementation of imgcrawl.Parser.
type Parser struct {
	ExtractLinksFn        func(html []byte) ([]string, error)
	ExtractImageSourcesFn func(html []byte) ([]string, error)
}

func (p *Parser) ExtractLinks(html []byte) ([]string, error) {
	return p.ExtractLinksFn(html)
}

func (p *Parser) ExtractImageSources(html []byte) ([]string, error) {
	return p.ExtractImageSourcesFn(html)
}
