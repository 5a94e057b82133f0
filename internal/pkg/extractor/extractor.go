package extractor

import (
	"bytes"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Parses an HTML body into a document the other extractors can share.
// One parse per page; every signal below reads from the same document.
func Parse(body []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(body))
}

// Returns the href of the page's canonical link, whitespace-trimmed, or ""
// when the page declares none. The rel attribute is matched token-wise and
// case-insensitively, so rel="alternate canonical" counts; the first
// matching link in document order wins.
func Canonical(doc *goquery.Document) string {
	var canonical string
	doc.Find("link[rel]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		rel, _ := s.Attr("rel")
		for _, token := range strings.Fields(rel) {
			if strings.EqualFold(token, "canonical") {
				href, _ := s.Attr("href")
				canonical = strings.TrimSpace(href)
				return false
			}
		}
		return true
	})
	return canonical
}

// Reports whether the response carries a noindex signal: either an
// X-Robots-Tag header or a robots meta tag whose content mentions noindex,
// both matched case-insensitively on the value. doc may be nil for non-HTML
// responses, in which case only the header is consulted.
func Noindex(header http.Header, doc *goquery.Document) bool {
	robotsTag := strings.Join(header.Values("X-Robots-Tag"), ", ")
	if strings.Contains(strings.ToLower(robotsTag), "noindex") {
		return true
	}
	if doc == nil {
		return false
	}
	found := false
	doc.Find("meta[name]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		if !strings.EqualFold(name, "robots") {
			return true
		}
		content, _ := s.Attr("content")
		if strings.Contains(strings.ToLower(content), "noindex") {
			found = true
			return false
		}
		return true
	})
	return found
}

// OutboundLink is one anchor on a page, resolved to absolute form.
type OutboundLink struct {
	Absolute string
	Host     string
}

// Collects every navigational anchor on the page, resolved against base.
// In-page fragments and mailto:/tel: schemes are skipped; duplicates are
// kept because link budgets count links, not unique targets.
func OutboundLinks(doc *goquery.Document, base *url.URL) []OutboundLink {
	var links []OutboundLink
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href == "" ||
			strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "mailto:") ||
			strings.HasPrefix(href, "tel:") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		links = append(links, OutboundLink{
			Absolute: resolved.String(),
			Host:     resolved.Host,
		})
	})
	return links
}
