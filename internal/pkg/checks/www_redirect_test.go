package checks

import (
	"context"
	"strings"
	"testing"

	"seoaudit/internal/pkg/config"
)

// With enforce_non_www off the check is skipped but still reported, so the
// report surface stays stable across configs.
func TestWWWRedirectSkipped(t *testing.T) {
	global := testGlobal()
	global.EnforceNonWWW = false

	runner := newTestRunner(newStubFetcher(), global, acmeBrand())
	result := runner.WWWRedirect(context.Background(), acmeBrand())

	if !result.OK {
		t.Errorf("expected skipped check to pass, got %s", result.Details)
	}
	if result.Details != "skipped (enforce_non_www=false)" {
		t.Errorf("unexpected details: %s", result.Details)
	}
}

// An unreachable www host cannot serve duplicate content, so a transport
// error is a pass with a warning annotation.
func TestWWWRedirectUnreachableWarns(t *testing.T) {
	stub := newStubFetcher().failWith("https://www.acme.example/", errConnectionRefused)
	runner := newTestRunner(stub, testGlobal(), acmeBrand())

	result := runner.WWWRedirect(context.Background(), acmeBrand())
	if !result.OK {
		t.Errorf("expected warn-pass, got fail: %s", result.Details)
	}
	if !strings.HasPrefix(result.Details, "warn: could not fetch") {
		t.Errorf("expected warning annotation, got %s", result.Details)
	}
}

// A www host serving content directly is a duplication surface.
func TestWWWRedirectServesContent(t *testing.T) {
	stub := newStubFetcher().respond("https://www.acme.example/", htmlPage(200, "https://www.acme.example/", "<html></html>"))
	runner := newTestRunner(stub, testGlobal(), acmeBrand())

	result := runner.WWWRedirect(context.Background(), acmeBrand())
	if result.OK {
		t.Fatal("expected failure for a 200 from the www host")
	}
	if result.Details != "FAIL: www host served 200 (should redirect to https://acme.example/)" {
		t.Errorf("unexpected details: %s", result.Details)
	}
}

// Non-redirect error statuses are failures, not warnings.
func TestWWWRedirectUnexpectedStatus(t *testing.T) {
	stub := newStubFetcher().respond("https://www.acme.example/", redirectTo(404, ""))
	runner := newTestRunner(stub, testGlobal(), acmeBrand())

	result := runner.WWWRedirect(context.Background(), acmeBrand())
	if result.OK {
		t.Fatal("expected failure for a 404 from the www host")
	}
	if result.Details != "FAIL: www host returned 404 (expected 301/308 redirect)" {
		t.Errorf("unexpected details: %s", result.Details)
	}
}

// A redirect without a Location header cannot be verified and fails.
func TestWWWRedirectMissingLocation(t *testing.T) {
	stub := newStubFetcher().respond("https://www.acme.example/", redirectTo(301, ""))
	runner := newTestRunner(stub, testGlobal(), acmeBrand())

	result := runner.WWWRedirect(context.Background(), acmeBrand())
	if result.OK || result.Details != "FAIL: redirect missing Location header" {
		t.Errorf("expected missing-Location failure, got ok=%v details=%s", result.OK, result.Details)
	}
}

// Only the redirect target's host matters: any path on the preferred host
// passes, any other host fails with the observed host named.
func TestWWWRedirectTargetHost(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		location string
		wantOK   bool
	}{
		{"301 to preferred root", 301, "https://acme.example/", true},
		{"308 to preferred root", 308, "https://acme.example/", true},
		{"302 to preferred page", 302, "https://acme.example/page", true},
		{"307 to preferred", 307, "https://acme.example/", true},
		{"301 to other host", 301, "https://globex.example/", false},
		{"301 to www itself", 301, "https://www.acme.example/landing", false},
		{"relative location stays on www", 301, "/landing", false},
	}

	for _, c := range cases {
		stub := newStubFetcher().respond("https://www.acme.example/", redirectTo(c.status, c.location))
		runner := newTestRunner(stub, testGlobal(), acmeBrand())
		result := runner.WWWRedirect(context.Background(), acmeBrand())
		if result.OK != c.wantOK {
			t.Errorf("%s: expected ok=%v, got ok=%v (%s)", c.name, c.wantOK, result.OK, result.Details)
		}
	}
}

// The preferred host may differ from the marketing host; the redirect must
// land on the preferred one.
func TestWWWRedirectPreferredHostOverride(t *testing.T) {
	brand := config.BrandConfig{
		Name:          "Acme",
		MarketingHost: "acme.example",
		PreferredHost: "acme.net",
	}
	stub := newStubFetcher().respond("https://www.acme.example/", redirectTo(301, "https://acme.example/"))
	runner := newTestRunner(stub, testGlobal(), brand)

	result := runner.WWWRedirect(context.Background(), brand)
	if result.OK {
		t.Fatal("expected failure: redirect lands on marketing host, not preferred host")
	}
	if result.Details != "FAIL: Location points to acme.example, expected acme.net" {
		t.Errorf("unexpected details: %s", result.Details)
	}
}
