package administrator

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"seoaudit/internal/pkg/checks"
	"seoaudit/internal/pkg/config"
	"seoaudit/internal/pkg/fetcher"
	"seoaudit/internal/pkg/hostset"
	"seoaudit/internal/pkg/logger"
	"seoaudit/internal/pkg/metrics"
	"seoaudit/internal/pkg/report"
)

// Administrator interface
type Administrator interface {
	RunAudit(ctx context.Context) (*report.Report, error)
	Watch(ctx context.Context, interval time.Duration)
	StartStatusServer(addr string)
}

// Implementation of the Administrator interface
type administrator struct {
	mu     sync.Mutex
	cfg    *config.Config
	runner *checks.Runner

	dirty      *atomic.Bool
	startTime  time.Time
	lastRunAt  time.Time
	lastFailed int
}

// Creates a new instance of an Administrator with a config. The host
// registry is built here, before any fetch is issued.
func New(cfg *config.Config) Administrator {
	admin := &administrator{
		dirty:     atomic.NewBool(false),
		startTime: time.Now(),
	}
	admin.install(cfg)
	return admin
}

// Builds the host registry, fetcher and check runner for a config and swaps
// them in. Audits already in flight keep the collaborators they started with.
func (admin *administrator) install(cfg *config.Config) {
	hosts := hostset.Build(cfg.Brands)
	logger.Log.Debug("Audit collaborators installed",
		zap.Int("registry_hosts", hosts.Len()),
		zap.Strings("registry", hosts.Hosts()))

	f := fetcher.New(cfg.Global.UserAgent, cfg.Global.Timeout(), cfg.Global.RequestsPerSecond)
	runner := checks.NewRunner(f, hosts, cfg.Global)

	admin.mu.Lock()
	admin.cfg = cfg
	admin.runner = runner
	admin.mu.Unlock()
}

// Runs the full audit: every brand's check sequence, brands possibly in
// parallel, results merged back into configuration order.
func (admin *administrator) RunAudit(ctx context.Context) (*report.Report, error) {
	admin.mu.Lock()
	cfg := admin.cfg
	runner := admin.runner
	admin.mu.Unlock()

	started := time.Now()
	logger.Log.Info("Starting audit run",
		zap.Int("brands", len(cfg.Brands)),
		zap.Int("max_concurrent_brands", cfg.Global.MaxConcurrentBrands))

	if len(cfg.Brands) == 0 {
		rep := report.Build(nil, started)
		admin.finishRun(rep)
		return rep, nil
	}

	collector, err := report.NewCollector(len(cfg.Brands))
	if err != nil {
		return nil, err
	}

	p := pool.New().WithMaxGoroutines(cfg.Global.MaxConcurrentBrands)
	for slot, brand := range cfg.Brands {
		slot, brand := slot, brand // per-iteration copies: go.mod targets pre-1.22 loop variable semantics
		p.Go(func() {
			if err := collector.Put(slot, runner.Brand(ctx, brand)); err != nil {
				logger.Log.Error("Failed to store brand results", zap.Error(err))
			}
		})
	}
	p.Wait()

	rep := report.Build(collector.Merge(), started)
	admin.finishRun(rep)
	return rep, nil
}

// Records run metrics and the last-run summary used by the health endpoint.
func (admin *administrator) finishRun(rep *report.Report) {
	metrics.ObserveChecks(rep.Total-rep.Failed, rep.Failed)
	metrics.ObserveRun(rep.Failed, rep.Duration.Seconds())

	admin.mu.Lock()
	admin.lastRunAt = rep.GeneratedAt
	admin.lastFailed = rep.Failed
	admin.mu.Unlock()

	logger.Log.Info("Audit run finished",
		zap.Int("checks", rep.Total),
		zap.Int("failed", rep.Failed),
		zap.Duration("duration", rep.Duration))
}

// Runs audits forever on the given cadence, reloading the config whenever
// the file changes. Each report renders to stdout like a one-shot run.
func (admin *administrator) Watch(ctx context.Context, interval time.Duration) {
	config.WatchFile(admin.configPath(), func() {
		admin.dirty.Store(true)
		logger.Log.Info("Config file changed, reload scheduled")
	})

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		admin.reloadIfDirty()

		rep, err := admin.RunAudit(ctx)
		if err != nil {
			logger.Log.Error("Audit run failed", zap.Error(err))
		} else if err := rep.Render(os.Stdout); err != nil {
			logger.Log.Error("Failed to render report", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			logger.Log.Info("Watch mode stopping")
			return
		case <-ticker.C:
		}
	}
}

func (admin *administrator) configPath() string {
	admin.mu.Lock()
	defer admin.mu.Unlock()
	return admin.cfg.Path()
}

// Reloads the config if the watcher flagged a change. A failed reload keeps
// the previous config running.
func (admin *administrator) reloadIfDirty() {
	if !admin.dirty.Swap(false) {
		return
	}
	cfg, err := config.Load(admin.configPath())
	if err != nil {
		logger.Log.Error("Config reload failed, keeping previous config", zap.Error(err))
		return
	}
	admin.install(cfg)
	logger.Log.Info("Config reloaded", zap.Int("brands", len(cfg.Brands)))
}
