package fetcher

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"seoaudit/internal/pkg/logger"
	"seoaudit/internal/pkg/metrics"
	"seoaudit/internal/pkg/models"
)

const (
	maxBodySize = 2 * 1024 * 1024 // 2 MB

	// Sent on every request; mirrors what indexing crawlers ask for.
	acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// Fetcher performs one HTTP GET per call and reports what came back.
// A returned error always means the transport failed before an HTTP
// response arrived; 4xx/5xx statuses come back as ordinary outcomes.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, followRedirects bool) (*models.FetchOutcome, error)
}

type httpFetcher struct {
	userAgent string
	timeout   time.Duration
	limiter   *rate.Limiter
	follow    *http.Client
	noFollow  *http.Client
}

// Creates a Fetcher with the given identity, per-request timeout and global
// rate limit. rps <= 0 means unlimited.
func New(userAgent string, timeout time.Duration, rps float64) Fetcher {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 5 * time.Second,
		IdleConnTimeout:     30 * time.Second,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
	}

	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}

	return &httpFetcher{
		userAgent: userAgent,
		timeout:   timeout,
		limiter:   rate.NewLimiter(limit, 1),
		follow: &http.Client{
			Transport: transport,
		},
		noFollow: &http.Client{
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Fetches rawURL and returns the final status, headers, body and URL.
// Redirects are followed or surfaced verbatim depending on followRedirects.
func (f *httpFetcher) Fetch(ctx context.Context, rawURL string, followRedirects bool) (*models.FetchOutcome, error) {
	// The limiter gate runs against the caller's context so shutdown is not
	// stuck behind queued requests; the per-request timeout starts after.
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait for %v: %w", rawURL, err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request for %v: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)

	client := f.follow
	if !followRedirects {
		client = f.noFollow
	}

	metrics.FetchesTotal.Inc()
	resp, err := client.Do(req)
	if err != nil {
		metrics.FetchErrors.Inc()
		return nil, fmt.Errorf("failed to fetch URL %v: %w", rawURL, err)
	}
	defer resp.Body.Close()

	limitedReader := io.LimitReader(resp.Body, maxBodySize) // Limit body size
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		metrics.FetchErrors.Inc()
		return nil, fmt.Errorf("failed to read response body from %v: %w", rawURL, err)
	}
	if len(body) == int(maxBodySize) {
		logger.Log.Warn("Response body truncated",
			zap.String("url", rawURL),
			zap.Int("max_bytes", maxBodySize))
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	outcome := &models.FetchOutcome{
		StatusCode: resp.StatusCode,
		FinalURL:   finalURL,
		Header:     resp.Header,
		Body:       body,
		HTML:       isHTMLBody(resp.Header.Get("Content-Type"), rawURL),
	}

	logger.Log.Debug("Fetched URL",
		zap.String("url", rawURL),
		zap.String("final_url", finalURL),
		zap.Int("status", resp.StatusCode),
		zap.String("content_type", outcome.ContentType()),
		zap.Bool("html", outcome.HTML))

	return outcome, nil
}

// The body counts as HTML when the response says so, or when the requested
// URL path plainly names an HTML document and the server was sloppy about
// its Content-Type.
func isHTMLBody(ctype, requestedURL string) bool {
	if models.IsHTMLContentType(ctype) {
		return true
	}
	return strings.HasSuffix(requestedURL, ".html")
}
