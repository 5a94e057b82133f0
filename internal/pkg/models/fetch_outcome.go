package models

import (
	"net/http"
	"strings"
)

// FetchOutcome holds everything the checks need to know about one HTTP
// fetch. HTTP error statuses are not Go errors: a 4xx/5xx still produces an
// outcome and the caller decides what it means for the rule at hand.
type FetchOutcome struct {
	StatusCode int         `json:"status_code"`
	FinalURL   string      `json:"final_url"`
	Header     http.Header `json:"-"`
	Body       []byte      `json:"-"`
	HTML       bool        `json:"html"`
}

// ContentType returns the final response's Content-Type header.
func (o *FetchOutcome) ContentType() string {
	return o.Header.Get("Content-Type")
}

// Location returns the redirect target of the final response, or "" when the
// header is absent.
func (o *FetchOutcome) Location() string {
	return o.Header.Get("Location")
}

// IsHTMLContentType reports whether a Content-Type value names an HTML
// document.
func IsHTMLContentType(ctype string) bool {
	return strings.Contains(ctype, "text/html") || strings.Contains(ctype, "application/xhtml+xml")
}
