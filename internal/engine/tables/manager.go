// Package tables loads versioned reference tables and caches them per code and edition.
package tables

import (
	"context"
	"errors"
	"runtime"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/watt/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Manager loads RuleTables through a TableStorage and keeps them until explicitly invalidated.
//
// Cached sets are immutable and shared between callers. Concurrent first loads of the same
// key are coalesced into a single read.
type Manager struct {
	storage      ports.TableStorage
	requirements ports.TableRequirements

	mu    sync.RWMutex
	cache map[domain.TableKey]*domain.RuleTables

	requestGroup singleflight.Group
	readLimit    int
}

// NewManager creates a Manager reading from storage. requirements decides which tables
// make up the set for a code.
func NewManager(storage ports.TableStorage, requirements ports.TableRequirements) *Manager {
	return &Manager{
		storage:      storage,
		requirements: requirements,
		cache:        make(map[domain.TableKey]*domain.RuleTables),
		readLimit:    runtime.NumCPU(),
	}
}

// Key normalizes code and edition into a cache key. Codes are upper-cased.
func Key(code, edition string) domain.TableKey {
	return domain.TableKey{
		Code:    strings.ToUpper(strings.TrimSpace(code)),
		Edition: strings.TrimSpace(edition),
	}
}

// LoadTables returns the table set for code and edition, reading it on first use.
//
// Concurrent first loads share one read that runs detached from any single caller's
// cancellation. Each caller stops waiting when its own ctx is done.
func (m *Manager) LoadTables(ctx context.Context, code, edition string) (*domain.RuleTables, error) {
	key := Key(code, edition)

	if rt, ok := m.Cached(key.Code, key.Edition); ok {
		return rt, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "table load cancelled"), "tables", key.String())
	}

	shared := context.WithoutCancel(ctx)
	ch := m.requestGroup.DoChan(key.String(), func() (any, error) {
		// Another caller may have completed the load while we waited.
		if rt, ok := m.Cached(key.Code, key.Edition); ok {
			return rt, nil
		}

		rt, err := m.load(shared, key)
		if err != nil {
			return nil, err
		}
		return m.store(key, rt), nil
	})

	select {
	case <-ctx.Done():
		return nil, zerr.With(zerr.Wrap(ctx.Err(), "table load cancelled"), "tables", key.String())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.RuleTables), nil
	}
}

func (m *Manager) load(ctx context.Context, key domain.TableKey) (*domain.RuleTables, error) {
	names := m.requirements.RequiredTables(key.Code)
	if len(names) == 0 {
		err := zerr.Wrap(errors.Join(domain.ErrNoTableRequirements, domain.ErrTableNotFound), "cannot load tables")
		return nil, zerr.With(err, "code", key.Code)
	}

	loaded := make([]*domain.Table, len(names))
	var (
		missingMu sync.Mutex
		missing   []string
	)

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(m.readLimit)

	for i, name := range names {
		g.Go(func() error {
			t, err := m.storage.ReadTable(groupCtx, key, name)
			if err != nil {
				if errors.Is(err, domain.ErrTableNotFound) {
					missingMu.Lock()
					missing = append(missing, name)
					missingMu.Unlock()
					return nil
				}
				return zerr.With(zerr.Wrap(err, "failed to load table"), "table", name)
			}
			loaded[i] = t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, zerr.With(err, "tables", key.String())
	}

	if len(missing) > 0 {
		slices.Sort(missing)
		err := zerr.Wrap(domain.ErrTableNotFound, "required tables are missing from storage")
		err = zerr.With(err, "table", missing[0])
		err = zerr.With(err, "missing_tables", missing)
		return nil, zerr.With(err, "tables", key.String())
	}

	return domain.NewRuleTables(key, loaded), nil
}

// store caches rt under key unless a set is already present, and returns the cached set.
func (m *Manager) store(key domain.TableKey, rt *domain.RuleTables) *domain.RuleTables {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.cache[key]; ok {
		return existing
	}
	m.cache[key] = rt
	return rt
}

// Cached returns the cached set for code and edition without loading it.
func (m *Manager) Cached(code, edition string) (*domain.RuleTables, bool) {
	key := Key(code, edition)

	m.mu.RLock()
	defer m.mu.RUnlock()

	rt, ok := m.cache[key]
	return rt, ok
}

// Invalidate evicts one set. It reports whether anything was evicted.
func (m *Manager) Invalidate(code, edition string) bool {
	key := Key(code, edition)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.requestGroup.Forget(key.String())
	if _, ok := m.cache[key]; !ok {
		return false
	}
	delete(m.cache, key)
	return true
}

// InvalidateAll evicts every cached set.
func (m *Manager) InvalidateAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.cache {
		m.requestGroup.Forget(key.String())
	}
	clear(m.cache)
}

// Stored lists the table names present in storage for code and edition, whether or
// not any plugin requires them.
func (m *Manager) Stored(ctx context.Context, code, edition string) ([]string, error) {
	return m.storage.Tables(ctx, Key(code, edition))
}

// Editions lists the code and edition pairs available in storage.
func (m *Manager) Editions(ctx context.Context) ([]domain.TableKey, error) {
	return m.storage.Editions(ctx)
}
