package checks

import (
	"context"
	"strings"
	"testing"
)

// A healthy marketing page over https with a self-canonical and no noindex
// yields exactly one passing canonical result.
func TestMarketingPageHealthy(t *testing.T) {
	body := `<html><head><link rel="canonical" href="https://acme.example/"></head><body>hi</body></html>`
	stub := newStubFetcher().respond("https://acme.example/", htmlPage(200, "https://acme.example/", body))
	runner := newTestRunner(stub, testGlobal(), acmeBrand())

	results := runner.MarketingPage(context.Background(), acmeBrand(), "/")
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d: %v", len(results), resultNames(results))
	}
	if !results[0].OK || results[0].Name != "Acme / canonical" {
		t.Errorf("expected passing canonical result, got %+v", results[0])
	}
	if results[0].Details != "OK: https://acme.example/" {
		t.Errorf("unexpected details: %s", results[0].Details)
	}
}

// A transport error fails the page and short-circuits every sub-check.
func TestMarketingPageFetchError(t *testing.T) {
	stub := newStubFetcher().failWith("https://acme.example/", errConnectionRefused)
	runner := newTestRunner(stub, testGlobal(), acmeBrand())

	results := runner.MarketingPage(context.Background(), acmeBrand(), "/")
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].OK || !strings.HasPrefix(results[0].Details, "FAIL: request error:") {
		t.Errorf("expected request-error failure, got %+v", results[0])
	}
}

// An HTTP error status fails the page and short-circuits.
func TestMarketingPageErrorStatus(t *testing.T) {
	stub := newStubFetcher().respond("https://acme.example/pricing", htmlPage(404, "https://acme.example/pricing", "not found"))
	runner := newTestRunner(stub, testGlobal(), acmeBrand())

	results := runner.MarketingPage(context.Background(), acmeBrand(), "/pricing")
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].OK || results[0].Details != "FAIL: HTTP 404 for https://acme.example/pricing" {
		t.Errorf("unexpected result: %+v", results[0])
	}
}

// require_https judges the final URL after redirects.
func TestMarketingPageRequiresHTTPS(t *testing.T) {
	body := `<html><head><link rel="canonical" href="http://acme.example/"></head></html>`
	outcome := htmlPage(200, "http://acme.example/", body)
	stub := newStubFetcher().respond("https://acme.example/", outcome)
	runner := newTestRunner(stub, testGlobal(), acmeBrand())

	results := runner.MarketingPage(context.Background(), acmeBrand(), "/")
	httpsResult := findResult(t, results, "Acme /")
	if httpsResult.OK || httpsResult.Details != "FAIL: final URL not https: http://acme.example/" {
		t.Errorf("expected https failure, got %+v", httpsResult)
	}
}

// A noindex signal on a marketing page is a hard failure.
func TestMarketingPageNoindex(t *testing.T) {
	body := `<html><head><meta name="robots" content="noindex,nofollow"><link rel="canonical" href="https://acme.example/"></head></html>`
	stub := newStubFetcher().respond("https://acme.example/", htmlPage(200, "https://acme.example/", body))
	runner := newTestRunner(stub, testGlobal(), acmeBrand())

	results := runner.MarketingPage(context.Background(), acmeBrand(), "/")
	noindexResult := findResult(t, results, "Acme /")
	if noindexResult.OK || noindexResult.Details != "FAIL: marketing page is noindex (header/meta)" {
		t.Errorf("expected noindex failure, got %+v", noindexResult)
	}
	// The canonical result is still evaluated and passes.
	if canonical := findResult(t, results, "Acme / canonical"); !canonical.OK {
		t.Errorf("expected canonical to still pass, got %+v", canonical)
	}
}

// A non-HTML body fails the canonical requirement and stops canonical/link
// analysis for the path.
func TestMarketingPageNonHTML(t *testing.T) {
	stub := newStubFetcher().respond("https://acme.example/", textPage(200, "https://acme.example/", "plain text"))
	runner := newTestRunner(stub, testGlobal(), acmeBrand())

	results := runner.MarketingPage(context.Background(), acmeBrand(), "/")
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d: %v", len(results), resultNames(results))
	}
	if results[0].OK || results[0].Details != "FAIL: expected HTML but got non-HTML content-type" {
		t.Errorf("unexpected result: %+v", results[0])
	}
}

// Canonical sub-check failure modes.
func TestMarketingPageCanonicalRules(t *testing.T) {
	cases := []struct {
		name        string
		path        string
		body        string
		wantDetails string
	}{
		{
			"missing canonical",
			"/",
			`<html><head></head></html>`,
			"FAIL: missing rel=canonical",
		},
		{
			"wrong host",
			"/",
			`<html><head><link rel="canonical" href="https://outside.example/"></head></html>`,
			"FAIL: canonical host outside.example != preferred acme.example (https://outside.example/)",
		},
		{
			"path mismatch",
			"/pricing",
			`<html><head><link rel="canonical" href="https://acme.example/other"></head></html>`,
			"FAIL: canonical path /other != final path /pricing",
		},
		{
			"query params",
			"/",
			`<html><head><link rel="canonical" href="https://acme.example/?utm=1"></head></html>`,
			"FAIL: canonical contains query params: https://acme.example/?utm=1",
		},
	}

	for _, c := range cases {
		pageURL := "https://acme.example" + c.path
		stub := newStubFetcher().respond(pageURL, htmlPage(200, pageURL, c.body))
		runner := newTestRunner(stub, testGlobal(), acmeBrand())
		results := runner.MarketingPage(context.Background(), acmeBrand(), c.path)
		canonical := findResult(t, results, "Acme "+c.path+" canonical")
		if canonical.OK {
			t.Errorf("%s: expected canonical failure", c.name)
			continue
		}
		if canonical.Details != c.wantDetails {
			t.Errorf("%s: expected details %q, got %q", c.name, c.wantDetails, canonical.Details)
		}
	}
}

// Trailing-slash variance between canonical and final URL is tolerated.
func TestMarketingPageCanonicalTrailingSlash(t *testing.T) {
	body := `<html><head><link rel="canonical" href="https://acme.example/pricing"></head></html>`
	stub := newStubFetcher().respond("https://acme.example/pricing/", htmlPage(200, "https://acme.example/pricing/", body))
	runner := newTestRunner(stub, testGlobal(), acmeBrand())

	results := runner.MarketingPage(context.Background(), acmeBrand(), "/pricing/")
	canonical := findResult(t, results, "Acme /pricing/ canonical")
	if !canonical.OK {
		t.Errorf("expected trailing-slash variance to pass, got %s", canonical.Details)
	}
}

// A relative canonical resolves against the final URL before comparison.
func TestMarketingPageRelativeCanonical(t *testing.T) {
	body := `<html><head><link rel="canonical" href="/pricing"></head></html>`
	stub := newStubFetcher().respond("https://acme.example/pricing", htmlPage(200, "https://acme.example/pricing", body))
	runner := newTestRunner(stub, testGlobal(), acmeBrand())

	results := runner.MarketingPage(context.Background(), acmeBrand(), "/pricing")
	canonical := findResult(t, results, "Acme /pricing canonical")
	if !canonical.OK || canonical.Details != "OK: https://acme.example/pricing" {
		t.Errorf("expected resolved canonical to pass, got %+v", canonical)
	}
}

// A canonical pointing at another registered brand emits both the host
// mismatch and the independent cross-domain result.
func TestMarketingPageCrossDomainCanonical(t *testing.T) {
	body := `<html><head><link rel="canonical" href="https://globex.example/"></head></html>`
	stub := newStubFetcher().respond("https://acme.example/", htmlPage(200, "https://acme.example/", body))
	runner := newTestRunner(stub, testGlobal(), acmeBrand(), globexBrand())

	results := runner.MarketingPage(context.Background(), acmeBrand(), "/")

	hostResult := findResult(t, results, "Acme / canonical")
	if hostResult.OK {
		t.Error("expected canonical host mismatch to fail")
	}
	crossResult := findResult(t, results, "Acme / canonical cross-domain")
	if crossResult.OK || crossResult.Details != "FAIL: canonical points to other brand/app host: globex.example" {
		t.Errorf("expected cross-domain failure, got %+v", crossResult)
	}
}

// A canonical to an unregistered host fails the self-canonical rule but is
// not a cross-domain result.
func TestMarketingPageForeignCanonicalNotCrossDomain(t *testing.T) {
	body := `<html><head><link rel="canonical" href="https://outside.example/"></head></html>`
	stub := newStubFetcher().respond("https://acme.example/", htmlPage(200, "https://acme.example/", body))
	runner := newTestRunner(stub, testGlobal(), acmeBrand(), globexBrand())

	results := runner.MarketingPage(context.Background(), acmeBrand(), "/")
	if hasResult(results, "Acme / canonical cross-domain") {
		t.Error("expected no cross-domain result for an unregistered host")
	}
}

// Link budget: counts cross-brand links including duplicates, cites up to
// three examples on failure, and is silent at the unlimited sentinel.
func TestMarketingPageLinkBudget(t *testing.T) {
	body := `<html><head><link rel="canonical" href="https://acme.example/"></head><body>
		<a href="https://globex.example/a">1</a>
		<a href="https://globex.example/b">2</a>
		<a href="https://globex.example/b">2 again</a>
		<a href="https://app.globex.example/c">3</a>
		<a href="https://acme.example/own">own</a>
		<a href="https://outside.example/x">foreign</a>
	</body></html>`

	global := testGlobal()
	global.MaxCrossBrandLinksPerPage = 2

	stub := newStubFetcher().respond("https://acme.example/", htmlPage(200, "https://acme.example/", body))
	runner := newTestRunner(stub, global, acmeBrand(), globexBrand())

	results := runner.MarketingPage(context.Background(), acmeBrand(), "/")
	links := findResult(t, results, "Acme / cross-brand links")
	if links.OK {
		t.Fatalf("expected link budget failure, got %s", links.Details)
	}
	want := "FAIL: found 4 cross-brand links (max 2). Example: [https://globex.example/a https://globex.example/b https://globex.example/b]"
	if links.Details != want {
		t.Errorf("expected details %q, got %q", want, links.Details)
	}
}

// Within budget the result passes with the observed count.
func TestMarketingPageLinkBudgetWithinLimit(t *testing.T) {
	body := `<html><head><link rel="canonical" href="https://acme.example/"></head><body>
		<a href="https://globex.example/a">1</a>
	</body></html>`

	global := testGlobal()
	global.MaxCrossBrandLinksPerPage = 2

	stub := newStubFetcher().respond("https://acme.example/", htmlPage(200, "https://acme.example/", body))
	runner := newTestRunner(stub, global, acmeBrand(), globexBrand())

	results := runner.MarketingPage(context.Background(), acmeBrand(), "/")
	links := findResult(t, results, "Acme / cross-brand links")
	if !links.OK || links.Details != "OK: 1 (max 2)" {
		t.Errorf("expected passing budget result, got %+v", links)
	}
}

// At the sentinel the link budget emits no result at all.
func TestMarketingPageLinkBudgetSentinel(t *testing.T) {
	body := `<html><head><link rel="canonical" href="https://acme.example/"></head><body>
		<a href="https://globex.example/a">1</a>
	</body></html>`
	stub := newStubFetcher().respond("https://acme.example/", htmlPage(200, "https://acme.example/", body))
	runner := newTestRunner(stub, testGlobal(), acmeBrand(), globexBrand())

	results := runner.MarketingPage(context.Background(), acmeBrand(), "/")
	if hasResult(results, "Acme / cross-brand links") {
		t.Error("expected no link budget result at the unlimited sentinel")
	}
}

// With require_self_canonical off, the canonical block and the link budget
// are both suppressed; a fully healthy page emits nothing.
func TestMarketingPageCanonicalNotRequired(t *testing.T) {
	global := testGlobal()
	global.RequireSelfCanonical = false
	global.MaxCrossBrandLinksPerPage = 1

	body := `<html><body><a href="https://globex.example/a">1</a><a href="https://globex.example/b">2</a></body></html>`
	stub := newStubFetcher().respond("https://acme.example/", htmlPage(200, "https://acme.example/", body))
	runner := newTestRunner(stub, global, acmeBrand(), globexBrand())

	results := runner.MarketingPage(context.Background(), acmeBrand(), "/")
	if len(results) != 0 {
		t.Errorf("expected no results, got %v", resultNames(results))
	}
}
