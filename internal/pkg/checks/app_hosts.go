package checks

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"seoaudit/internal/pkg/config"
	"seoaudit/internal/pkg/extractor"
	"seoaudit/internal/pkg/models"
)

// Probes every app host path and enforces the noindex requirement. App
// hosts are allowed to answer 4xx (auth walls are expected); only transport
// errors and 5xx count as unreachable. One bad path never aborts the rest.
func (r *Runner) AppHosts(ctx context.Context, brand config.BrandConfig) []models.CheckResult {
	var results []models.CheckResult

	for _, app := range brand.AppHosts {
		for _, path := range app.Paths() {
			name := fmt.Sprintf("%s app %s%s", brand.Name, app.Host, path)
			appURL := fmt.Sprintf("https://%s%s", app.Host, path)

			outcome, err := r.fetcher.Fetch(ctx, appURL, r.global.FollowRedirects)
			if err != nil {
				results = append(results, models.Fail(name, fmt.Sprintf("FAIL: request error: %v", err)))
				continue
			}
			if outcome.StatusCode >= 500 {
				results = append(results, models.Fail(name, fmt.Sprintf("FAIL: HTTP %d", outcome.StatusCode)))
				continue
			}

			if !app.NoindexRequired() {
				continue
			}

			var doc *goquery.Document
			if outcome.HTML {
				doc, _ = extractor.Parse(outcome.Body)
			}
			if extractor.Noindex(outcome.Header, doc) {
				results = append(results, models.Pass(name+" noindex", "OK"))
			} else {
				results = append(results, models.Fail(name+" noindex",
					fmt.Sprintf("FAIL: app response missing noindex header/meta (final: %s)", outcome.FinalURL)))
			}
		}
	}

	return results
}
