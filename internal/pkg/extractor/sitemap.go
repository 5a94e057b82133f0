package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
)

// ParseError means a sitemap body could not be understood as XML.
type ParseError struct {
	err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid XML: %v", e.err)
}

func (e *ParseError) Unwrap() error {
	return e.err
}

// Returns the text of every non-empty <loc> element in the sitemap,
// namespace-agnostic and in document order. A body that is not well-formed
// XML, or has no root element at all, returns a *ParseError; a well-formed
// sitemap with zero locs returns an empty slice.
func SitemapLocations(body []byte) ([]string, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{err: err}
	}
	if !hasRootElement(doc) {
		return nil, &ParseError{err: errors.New("no root element found")}
	}

	nodes, err := xmlquery.QueryAll(doc, "//*[local-name()='loc']")
	if err != nil {
		return nil, &ParseError{err: err}
	}
	locs := make([]string, 0, len(nodes))
	for _, node := range nodes {
		text := node.InnerText()
		if text == "" {
			continue
		}
		locs = append(locs, strings.TrimSpace(text))
	}
	return locs, nil
}

func hasRootElement(doc *xmlquery.Node) bool {
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return true
		}
	}
	return false
}

// Reports whether the robots.txt body mentions a sitemap directive at all,
// case-insensitively.
func HasSitemapDirective(body string) bool {
	return strings.Contains(strings.ToLower(body), "sitemap:")
}

// Returns the URL of every sitemap directive in the robots.txt body, in file
// order. A directive is a line whose trimmed, lowercased form starts with
// "sitemap:"; the value is everything after the first colon, trimmed.
func SitemapDirectives(body string) []string {
	var directives []string
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(strings.ToLower(trimmed), "sitemap:") {
			continue
		}
		parts := strings.SplitN(trimmed, ":", 2)
		directives = append(directives, strings.TrimSpace(parts[1]))
	}
	return directives
}
