package checks

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"seoaudit/internal/pkg/config"
	"seoaudit/internal/pkg/fetcher"
	"seoaudit/internal/pkg/hostset"
	"seoaudit/internal/pkg/logger"
	"seoaudit/internal/pkg/models"
)

// Runner evaluates the full policy suite for one brand at a time. It holds
// the shared read-only dependencies: the fetcher, the host registry built
// before any fetch, and the global policy toggles.
type Runner struct {
	fetcher fetcher.Fetcher
	hosts   hostset.Set
	global  config.GlobalConfig
}

// Creates a Runner over the given collaborators.
func NewRunner(f fetcher.Fetcher, hosts hostset.Set, global config.GlobalConfig) *Runner {
	return &Runner{
		fetcher: f,
		hosts:   hosts,
		global:  global,
	}
}

// Runs the fixed check sequence for one brand: www redirect, marketing
// pages in config order, robots.txt and sitemap.xml, then app hosts.
// Results come back in exactly that order.
func (r *Runner) Brand(ctx context.Context, brand config.BrandConfig) []models.CheckResult {
	logger.Log.Info("Auditing brand",
		zap.String("brand", brand.Name),
		zap.String("marketing_host", brand.MarketingHost))

	var results []models.CheckResult
	results = append(results, r.WWWRedirect(ctx, brand))
	for _, path := range brand.Pages() {
		results = append(results, r.MarketingPage(ctx, brand, path)...)
	}
	results = append(results, r.RobotsAndSitemap(ctx, brand)...)
	results = append(results, r.AppHosts(ctx, brand)...)

	failed := 0
	for _, res := range results {
		if !res.OK {
			failed++
		}
	}
	logger.Log.Info("Brand audit finished",
		zap.String("brand", brand.Name),
		zap.Int("checks", len(results)),
		zap.Int("failed", failed))

	return results
}

// Renders up to max example strings for a failing result's details.
func examples(items []string, max int) string {
	if len(items) > max {
		items = items[:max]
	}
	return fmt.Sprintf("%v", items)
}
