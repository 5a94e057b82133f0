package checks

import (
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"seoaudit/internal/pkg/config"
	"seoaudit/internal/pkg/extractor"
	"seoaudit/internal/pkg/models"
	"seoaudit/internal/pkg/urlutil"
)

// Evaluates one marketing page: reachability, https on the final URL, the
// noindex prohibition, self-canonical correctness, cross-domain canonical
// leakage and the cross-brand link budget. A failed fetch or an HTTP error
// short-circuits the page; a non-HTML body short-circuits the canonical and
// link checks only.
func (r *Runner) MarketingPage(ctx context.Context, brand config.BrandConfig, path string) []models.CheckResult {
	var results []models.CheckResult
	name := fmt.Sprintf("%s %s", brand.Name, path)
	preferred := brand.Preferred()

	pageURL := fmt.Sprintf("https://%s%s", brand.MarketingHost, path)
	outcome, err := r.fetcher.Fetch(ctx, pageURL, r.global.FollowRedirects)
	if err != nil {
		return append(results, models.Fail(name, fmt.Sprintf("FAIL: request error: %v", err)))
	}
	if outcome.StatusCode >= 400 {
		return append(results, models.Fail(name, fmt.Sprintf("FAIL: HTTP %d for %s", outcome.StatusCode, outcome.FinalURL)))
	}

	finalURL, _ := url.Parse(outcome.FinalURL)

	if r.global.RequireHTTPS {
		if finalURL == nil || finalURL.Scheme != "https" {
			results = append(results, models.Fail(name, fmt.Sprintf("FAIL: final URL not https: %s", outcome.FinalURL)))
		}
	}

	var doc *goquery.Document
	if outcome.HTML {
		doc, _ = extractor.Parse(outcome.Body)
	}

	if r.global.FailIfMarketingPageHasNoindex {
		if extractor.Noindex(outcome.Header, doc) {
			results = append(results, models.Fail(name, "FAIL: marketing page is noindex (header/meta)"))
		}
	}

	if r.global.RequireSelfCanonical {
		if doc == nil {
			results = append(results, models.Fail(name, "FAIL: expected HTML but got non-HTML content-type"))
			return results
		}
		results = append(results, r.canonicalResults(name, preferred, outcome.FinalURL, finalURL, doc)...)

		if r.global.LinkBudgetEnabled() {
			results = append(results, r.linkBudgetResult(name, preferred, finalURL, doc))
		}
	}

	return results
}

// The self-canonical result plus, when a canonical exists, the independent
// cross-domain canonical result.
func (r *Runner) canonicalResults(name, preferred, rawFinalURL string, finalURL *url.URL, doc *goquery.Document) []models.CheckResult {
	var results []models.CheckResult
	canonicalName := name + " canonical"

	canonical := extractor.Canonical(doc)
	if canonical == "" {
		return append(results, models.Fail(canonicalName, "FAIL: missing rel=canonical"))
	}

	canonAbs, err := urlutil.Resolve(rawFinalURL, canonical)
	if err != nil {
		canonAbs = canonical
	}
	var canonHost, canonPath, canonQuery string
	if canonURL, err := url.Parse(canonAbs); err == nil {
		canonHost = canonURL.Host
		canonPath = canonURL.Path
		canonQuery = canonURL.RawQuery
	}

	if canonHost != preferred {
		results = append(results, models.Fail(canonicalName,
			fmt.Sprintf("FAIL: canonical host %s != preferred %s (%s)", canonHost, preferred, canonAbs)))
	} else {
		finalPath := ""
		if finalURL != nil {
			finalPath = finalURL.Path
		}
		if urlutil.NormalizePath(canonPath) != urlutil.NormalizePath(finalPath) {
			results = append(results, models.Fail(canonicalName,
				fmt.Sprintf("FAIL: canonical path %s != final path %s", canonPath, finalPath)))
		} else if canonQuery != "" {
			results = append(results, models.Fail(canonicalName,
				fmt.Sprintf("FAIL: canonical contains query params: %s", canonAbs)))
		} else {
			results = append(results, models.Pass(canonicalName, fmt.Sprintf("OK: %s", canonAbs)))
		}
	}

	// A canonical crossing to another of our own hosts folds this brand's
	// ranking signal into that host. Emitted independently of the
	// self-canonical verdict above.
	if r.global.DisallowCrossDomainCanonicals {
		if canonHost != "" && r.hosts.Contains(canonHost) && canonHost != preferred {
			results = append(results, models.Fail(name+" canonical cross-domain",
				fmt.Sprintf("FAIL: canonical points to other brand/app host: %s", canonHost)))
		}
	}

	return results
}

// Counts links pointing at other registry hosts; duplicates count, because
// every rendered anchor leaks crawl equity.
func (r *Runner) linkBudgetResult(name, preferred string, finalURL *url.URL, doc *goquery.Document) models.CheckResult {
	linksName := name + " cross-brand links"
	budget := r.global.MaxCrossBrandLinksPerPage

	var crossBrand []string
	if finalURL != nil {
		for _, link := range extractor.OutboundLinks(doc, finalURL) {
			if link.Host != "" && r.hosts.Contains(link.Host) && link.Host != preferred {
				crossBrand = append(crossBrand, link.Absolute)
			}
		}
	}

	if len(crossBrand) > budget {
		return models.Fail(linksName,
			fmt.Sprintf("FAIL: found %d cross-brand links (max %d). Example: %s", len(crossBrand), budget, examples(crossBrand, 3)))
	}
	return models.Pass(linksName, fmt.Sprintf("OK: %d (max %d)", len(crossBrand), budget))
}
