package checks

import (
	"context"
	"fmt"
	"net/http"

	"seoaudit/internal/pkg/config"
	"seoaudit/internal/pkg/models"
	"seoaudit/internal/pkg/urlutil"
)

// Checks that the www variant of the marketing host redirects to the
// preferred host instead of serving a duplicate content surface. Only
// enforced when enforce_non_www is set; the redirect itself is fetched
// without following so the first hop is what gets judged.
func (r *Runner) WWWRedirect(ctx context.Context, brand config.BrandConfig) models.CheckResult {
	name := fmt.Sprintf("www redirect (%s)", brand.MarketingHost)
	if !r.global.EnforceNonWWW {
		return models.Pass(name, "skipped (enforce_non_www=false)")
	}

	preferred := brand.Preferred()
	url := fmt.Sprintf("https://www.%s/", brand.MarketingHost)
	outcome, err := r.fetcher.Fetch(ctx, url, false)
	if err != nil {
		// An unresolvable www host cannot duplicate content, so this is a
		// warning rather than a failure.
		return models.Pass(name, fmt.Sprintf("warn: could not fetch %s: %v", url, err))
	}

	if outcome.StatusCode < 300 {
		return models.Fail(name, fmt.Sprintf("FAIL: www host served %d (should redirect to https://%s/)", outcome.StatusCode, preferred))
	}
	switch outcome.StatusCode {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
	default:
		return models.Fail(name, fmt.Sprintf("FAIL: www host returned %d (expected 301/308 redirect)", outcome.StatusCode))
	}

	location := outcome.Location()
	if location == "" {
		return models.Fail(name, "FAIL: redirect missing Location header")
	}

	resolved, err := urlutil.Resolve(url, location)
	if err != nil {
		return models.Fail(name, fmt.Sprintf("FAIL: unparsable Location header: %v", location))
	}
	if host := urlutil.Host(resolved); host != preferred {
		return models.Fail(name, fmt.Sprintf("FAIL: Location points to %s, expected %s", host, preferred))
	}

	return models.Pass(name, fmt.Sprintf("OK: %d → %s", outcome.StatusCode, location))
}
