// Package refresh implements spec.md §4.7's two coordinated loops:
// background refresh of stale cache entries and just-in-time fetch of
// packages missing from the cache entirely.
package refresh

import (
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/multierr"
	"golang.org/x/sync/singleflight"

	"github.com/version-lsp/version-lsp/internal/cache"
	"github.com/version-lsp/version-lsp/internal/domain"
	"github.com/version-lsp/version-lsp/internal/logger"
	"github.com/version-lsp/version-lsp/internal/lspconfig"
	"github.com/version-lsp/version-lsp/internal/registryclient"
)

var refreshLog = logger.New("refresh")

// maxConcurrentFetches bounds both loops' fan-out at 8 concurrent fetches,
// per SPEC_FULL.md's refresh supplement.
const maxConcurrentFetches = 8

// Coordinator owns the cache-cross-process single-flight contract plus an
// in-process golang.org/x/sync/singleflight.Group layered on top: the DB
// CAS is the source of truth, the in-process group just stops two
// goroutines in the *same* process from both reaching the database for
// the same package, per SPEC_FULL.md's Version Cache supplement.
type Coordinator struct {
	cache     *cache.Cache
	clients   *registryclient.Set
	configFn  func() lspconfig.Config
	inProcess singleflight.Group
	cronJob   *cron.Cron
}

func New(c *cache.Cache, clients *registryclient.Set, configFn func() lspconfig.Config) *Coordinator {
	return &Coordinator{cache: c, clients: clients, configFn: configFn}
}

// StartBackground schedules RunOnce on a robfig/cron/v3 "@every" schedule
// at the configured (floored) refresh interval, per spec.md §4.9: spawned
// right after "initialized".
func (co *Coordinator) StartBackground() {
	interval := co.configFn().RefreshInterval()
	co.cronJob = cron.New()
	_, err := co.cronJob.AddFunc(fmt.Sprintf("@every %s", interval), co.RunOnce)
	if err != nil {
		refreshLog.Errorf("schedule background refresh: %v", err)
		return
	}
	co.cronJob.Start()
	refreshLog.Printf("background refresh scheduled every %s", interval)
}

// Stop cancels the background schedule, per SPEC_FULL.md's "shutdown
// cancels the background-refresh schedule" note.
func (co *Coordinator) Stop() {
	if co.cronJob != nil {
		co.cronJob.Stop()
	}
}

// RunOnce queries every package needing refresh and fetches it, bounded
// at maxConcurrentFetches concurrent requests. Per-package failures are
// aggregated with go.uber.org/multierr and logged once per iteration;
// they never stop the loop or propagate to the caller, per spec.md §4.7.
func (co *Coordinator) RunOnce() {
	interval := co.configFn().RefreshInterval()
	keys, err := co.cache.GetPackagesNeedingRefresh(interval)
	if err != nil {
		refreshLog.Errorf("list packages needing refresh: %v", err)
		return
	}
	if len(keys) == 0 {
		return
	}

	cfg := co.configFn()
	var mu sync.Mutex
	var errs error
	p := pool.New().WithMaxGoroutines(maxConcurrentFetches)
	for _, k := range keys {
		if !cfg.Enabled(k.Registry) {
			continue
		}
		k := k
		p.Go(func() {
			if err := co.fetchOne(k.Registry, k.Name); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
		})
	}
	p.Wait()
	if errs != nil {
		refreshLog.Warnf("background refresh: %d package(s) failed: %v", len(multierr.Errors(errs)), errs)
	}
}

// FetchMissing runs the same try_start_fetch -> fetch -> replace_versions
// -> finish_fetch dance for every record whose package isn't cached yet,
// per spec.md §4.7's on-demand fetch. It blocks until every fetch in the
// batch has completed, so callers can republish diagnostics right after.
func (co *Coordinator) FetchMissing(records []domain.PackageRecord) {
	cfg := co.configFn()
	seen := map[string]bool{}
	p := pool.New().WithMaxGoroutines(maxConcurrentFetches)
	for _, rec := range records {
		if !cfg.Enabled(rec.RegistryKind) {
			continue
		}
		key := string(rec.RegistryKind) + ":" + rec.Name
		if seen[key] {
			continue
		}
		seen[key] = true

		if _, ok, err := co.cache.GetLatestVersion(rec.RegistryKind, rec.Name); err == nil && ok {
			continue
		}
		reg, name := rec.RegistryKind, rec.Name
		p.Go(func() {
			if err := co.fetchOne(reg, name); err != nil {
				refreshLog.Warnf("on-demand fetch %s/%s failed: %v", reg, name, err)
			}
		})
	}
	p.Wait()
}

// fetchOne performs the claim/fetch/replace/release sequence for one
// package, memoized in-process by singleflight so concurrent callers
// within this server never issue duplicate HTTP requests for the same
// key, even though the cross-process contract lives in the cache's CAS.
func (co *Coordinator) fetchOne(reg domain.RegistryKind, name string) error {
	key := string(reg) + ":" + name
	_, err, _ := co.inProcess.Do(key, func() (any, error) {
		return nil, co.claimFetchRelease(reg, name)
	})
	return err
}

func (co *Coordinator) claimFetchRelease(reg domain.RegistryKind, name string) error {
	started, err := co.cache.TryStartFetch(reg, name)
	if err != nil {
		return fmt.Errorf("claim fetch slot for %s/%s: %w", reg, name, err)
	}
	if !started {
		// Another process holds the slot; nothing to do here.
		return nil
	}
	defer func() {
		if err := co.cache.FinishFetch(reg, name); err != nil {
			refreshLog.Errorf("release fetch slot for %s/%s: %v", reg, name, err)
		}
	}()

	client, ok := co.clients.Get(reg)
	if !ok {
		return fmt.Errorf("no registry client for %s", reg)
	}

	versionSet, err := client.FetchAll(name)
	if err != nil {
		var regErr *registryclient.RegistryError
		if errors.As(err, &regErr) && regErr.Kind == registryclient.NotFound {
			return co.cache.MarkNotFound(reg, name)
		}
		// Network/RateLimited/InvalidResponse: log and leave the prior
		// cache state intact, per spec.md §7.
		refreshLog.Warnf("fetch %s/%s: %v", reg, name, err)
		return nil
	}

	return co.cache.ReplaceVersions(reg, name, versionSet.Versions, versionSet.DistTags)
}
