package checks

import (
	"context"
	"fmt"

	"seoaudit/internal/pkg/config"
	"seoaudit/internal/pkg/extractor"
	"seoaudit/internal/pkg/models"
	"seoaudit/internal/pkg/urlutil"
)

// Evaluates the brand's robots.txt and sitemap.xml. The two blocks are
// independent: a missing robots.txt does not stop the sitemap analysis.
func (r *Runner) RobotsAndSitemap(ctx context.Context, brand config.BrandConfig) []models.CheckResult {
	results := r.robotsResults(ctx, brand)
	return append(results, r.sitemapResults(ctx, brand)...)
}

func (r *Runner) robotsResults(ctx context.Context, brand config.BrandConfig) []models.CheckResult {
	var results []models.CheckResult
	preferred := brand.Preferred()
	robotsName := brand.Name + " robots.txt"

	robotsURL := fmt.Sprintf("https://%s/robots.txt", brand.MarketingHost)
	outcome, err := r.fetcher.Fetch(ctx, robotsURL, r.global.FollowRedirects)
	if err != nil {
		return append(results, models.Fail(robotsName, fmt.Sprintf("FAIL: could not fetch robots.txt (%v)", err)))
	}
	if outcome.StatusCode >= 400 {
		return append(results, models.Fail(robotsName, fmt.Sprintf("FAIL: could not fetch robots.txt (HTTP %d)", outcome.StatusCode)))
	}

	body := string(outcome.Body)

	// Contamination: another brand's host appearing anywhere in the body
	// means the robots file was shared or templated across deployments.
	// Raw substring containment, exactly; coincidental matches count.
	var badRefs []string
	for _, host := range r.hosts.FoundIn(body) {
		if host != preferred {
			badRefs = append(badRefs, host)
		}
	}
	if len(badRefs) > 0 {
		results = append(results, models.Fail(robotsName+" contamination",
			fmt.Sprintf("FAIL: robots.txt references other host(s): %v", badRefs)))
	} else {
		results = append(results, models.Pass(robotsName, "OK"))
	}

	// Sitemap directive: required, and every directive must stay on the
	// brand's own host.
	if !extractor.HasSitemapDirective(body) {
		results = append(results, models.Fail(robotsName+" sitemap", "FAIL: robots.txt missing Sitemap: directive"))
	} else {
		var bad []string
		for _, directive := range extractor.SitemapDirectives(body) {
			if host := urlutil.Host(directive); host != "" && host != preferred {
				bad = append(bad, directive)
			}
		}
		if len(bad) > 0 {
			results = append(results, models.Fail(robotsName+" sitemap host",
				fmt.Sprintf("FAIL: Sitemap points to other host(s): %v", bad)))
		} else {
			results = append(results, models.Pass(robotsName+" sitemap", "OK"))
		}
	}

	return results
}

func (r *Runner) sitemapResults(ctx context.Context, brand config.BrandConfig) []models.CheckResult {
	var results []models.CheckResult
	preferred := brand.Preferred()
	sitemapName := brand.Name + " sitemap.xml"

	sitemapURL := fmt.Sprintf("https://%s/sitemap.xml", brand.MarketingHost)
	outcome, err := r.fetcher.Fetch(ctx, sitemapURL, r.global.FollowRedirects)
	if err != nil {
		return append(results, models.Fail(sitemapName, fmt.Sprintf("FAIL: could not fetch sitemap.xml (%v)", err)))
	}
	if outcome.StatusCode >= 400 {
		return append(results, models.Fail(sitemapName, fmt.Sprintf("FAIL: could not fetch sitemap.xml (HTTP %d)", outcome.StatusCode)))
	}

	locs, err := extractor.SitemapLocations(outcome.Body)
	if err != nil {
		return append(results, models.Fail(sitemapName+" parse", fmt.Sprintf("FAIL: sitemap.xml not valid XML: %v", err)))
	}
	if len(locs) == 0 {
		return append(results, models.Fail(sitemapName, "FAIL: sitemap contains no <loc> entries"))
	}

	if r.global.SitemapHostMustMatch {
		var badLocs []string
		for _, loc := range locs {
			if host := urlutil.Host(loc); host != "" && host != preferred {
				badLocs = append(badLocs, loc)
			}
		}
		if len(badLocs) > 0 {
			results = append(results, models.Fail(sitemapName+" host",
				fmt.Sprintf("FAIL: sitemap contains other hosts. Examples: %s", examples(badLocs, 5))))
		} else {
			results = append(results, models.Pass(sitemapName+" host", fmt.Sprintf("OK: %d URLs", len(locs))))
		}
	}

	// App leakage is judged against this brand's own app hosts only; the
	// host check above already failed for foreign brands, this one names
	// the URLs that would index the app surface itself.
	appHosts := make(map[string]struct{}, len(brand.AppHosts))
	for _, app := range brand.AppHosts {
		appHosts[app.Host] = struct{}{}
	}
	var appHits []string
	for _, loc := range locs {
		if _, ok := appHosts[urlutil.Host(loc)]; ok {
			appHits = append(appHits, loc)
		}
	}
	if len(appHits) > 0 {
		results = append(results, models.Fail(sitemapName+" app leakage",
			fmt.Sprintf("FAIL: sitemap contains app URLs: %s", examples(appHits, 3))))
	} else {
		results = append(results, models.Pass(sitemapName+" app leakage", "OK"))
	}

	return results
}
