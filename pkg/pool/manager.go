// Package pool manages live database connections grouped by target. Targets
// are identified by the fingerprint of their configuration, so two requests
// for the same server, database and user share one pool while differing
// credentials never do. Entries are claimed under the manager lock before
// any health check runs, which keeps a checked connection from being handed
// to two callers.
package pool

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
	"github.com/kasuganosora/sqlbridge/pkg/logging"
)

// Options control pool sizing and lifecycle timing. Zero values fall back
// to the defaults below.
type Options struct {
	// MaxPerTarget caps live connections per fingerprint.
	MaxPerTarget int
	// AcquireTimeout bounds how long Acquire waits for a free slot.
	AcquireTimeout time.Duration
	// IdleTimeout evicts connections unused for this long.
	IdleTimeout time.Duration
	// MaxLifetime retires connections regardless of activity.
	MaxLifetime time.Duration
	// SweepInterval is how often the eviction sweep runs.
	SweepInterval time.Duration
}

const (
	defaultMaxPerTarget   = 10
	defaultAcquireTimeout = 30 * time.Second
	defaultIdleTimeout    = 5 * time.Minute
	defaultMaxLifetime    = 30 * time.Minute
	defaultSweepInterval  = 30 * time.Second
)

func (o Options) withDefaults() Options {
	if o.MaxPerTarget <= 0 {
		o.MaxPerTarget = defaultMaxPerTarget
	}
	if o.AcquireTimeout <= 0 {
		o.AcquireTimeout = defaultAcquireTimeout
	}
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = defaultIdleTimeout
	}
	if o.MaxLifetime <= 0 {
		o.MaxLifetime = defaultMaxLifetime
	}
	if o.SweepInterval <= 0 {
		o.SweepInterval = defaultSweepInterval
	}
	return o
}

// Factory builds a connected adapter for a target. The default factory
// delegates to the registered dialect factories.
type Factory func(config *domain.DatabaseConfig) (domain.Adapter, error)

type entry struct {
	id        string
	adapter   domain.Adapter
	createdAt time.Time
	lastUsed  time.Time
	inUse     bool
}

// targetPool holds the entries for one fingerprint. The released channel
// carries a nudge whenever a slot frees up so waiters do not have to poll.
type targetPool struct {
	config   *domain.DatabaseConfig
	entries  []*entry
	released chan struct{}

	created   int64
	destroyed int64
	acquired  int64
	timeouts  int64
}

func (tp *targetPool) notifyReleased() {
	select {
	case tp.released <- struct{}{}:
	default:
	}
}

// TargetStats is a point-in-time snapshot for one fingerprint.
type TargetStats struct {
	Fingerprint string `json:"fingerprint"`
	Dialect     string `json:"dialect"`
	Open        int    `json:"open"`
	InUse       int    `json:"in_use"`
	Idle        int    `json:"idle"`
	Created     int64  `json:"total_created"`
	Destroyed   int64  `json:"total_destroyed"`
	Acquired    int64  `json:"total_acquired"`
	Timeouts    int64  `json:"total_timeouts"`
}

// Manager owns every per-target pool. All cross-pool state sits behind one
// mutex; connection work (dialing, health checks, disconnects) always runs
// outside it.
type Manager struct {
	mu      sync.Mutex
	pools   map[string]*targetPool
	opts    Options
	factory Factory
	logger  logging.Logger
	closed  bool
	stop    chan struct{}
	done    chan struct{}
}

// NewManager returns a running Manager and starts its eviction sweep.
func NewManager(opts Options, logger logging.Logger) *Manager {
	return NewManagerWithFactory(opts, logger, func(config *domain.DatabaseConfig) (domain.Adapter, error) {
		return domain.CreateAdapter(config)
	})
}

// NewManagerWithFactory is NewManager with a custom adapter factory.
func NewManagerWithFactory(opts Options, logger logging.Logger, factory Factory) *Manager {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	m := &Manager{
		pools:   make(map[string]*targetPool),
		opts:    opts.withDefaults(),
		factory: factory,
		logger:  logger,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go m.sweepLoop()
	return m
}

// Lease is an exclusive claim on one connection. Callers must Release it;
// releasing twice is a no-op.
type Lease struct {
	manager  *Manager
	pool     *targetPool
	entry    *entry
	released bool
	mu       sync.Mutex
}

// Adapter returns the leased connection.
func (l *Lease) Adapter() domain.Adapter {
	return l.entry.adapter
}

// Fingerprint identifies the target the lease belongs to.
func (l *Lease) Fingerprint() string {
	return l.pool.config.Fingerprint()
}

// Release returns the connection to its pool and wakes one waiter.
func (l *Lease) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.released {
		return
	}
	l.released = true
	l.manager.release(l.pool, l.entry)
}

func (m *Manager) release(tp *targetPool, e *entry) {
	m.mu.Lock()
	e.inUse = false
	e.lastUsed = time.Now()
	m.mu.Unlock()
	tp.notifyReleased()
}

// Acquire hands out a connection for the given target, reusing a healthy
// idle one, dialing a new one under the per-target cap, or waiting for a
// release. It fails with a PoolTimeoutError once AcquireTimeout elapses.
func (m *Manager) Acquire(ctx context.Context, config *domain.DatabaseConfig) (*Lease, error) {
	fingerprint := config.Fingerprint()
	deadline := time.NewTimer(m.opts.AcquireTimeout)
	defer deadline.Stop()

	for {
		lease, wait, err := m.tryAcquire(ctx, fingerprint, config)
		if err != nil {
			return nil, err
		}
		if lease != nil {
			return lease, nil
		}

		select {
		case <-wait:
		case <-ctx.Done():
			m.recordTimeout(fingerprint)
			return nil, ctx.Err()
		case <-deadline.C:
			m.recordTimeout(fingerprint)
			return nil, domain.NewPoolTimeoutError(fingerprint, m.opts.AcquireTimeout)
		}
	}
}

// tryAcquire makes one pass over the target's entries. It returns a lease,
// or a channel to wait on when the pool is full, or an error.
func (m *Manager) tryAcquire(ctx context.Context, fingerprint string, config *domain.DatabaseConfig) (*Lease, <-chan struct{}, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, nil, domain.NewConnectionError(config.Dialect, domain.CodePoolClosed,
			"pool manager is shut down", nil)
	}

	tp, ok := m.pools[fingerprint]
	if !ok {
		tp = &targetPool{config: config, released: make(chan struct{}, 1)}
		m.pools[fingerprint] = tp
	}

	// Claim an idle entry before checking its health so no other caller
	// can grab it between the check and the hand-off.
	for _, e := range tp.entries {
		if e.inUse {
			continue
		}
		e.inUse = true
		e.lastUsed = time.Now()
		m.mu.Unlock()

		if m.healthy(ctx, e.adapter) {
			m.mu.Lock()
			tp.acquired++
			m.mu.Unlock()
			return &Lease{manager: m, pool: tp, entry: e}, nil, nil
		}
		m.logger.Warn("pool: dropping unhealthy connection %s for %s", e.id, fingerprint)
		m.removeEntry(tp, e)
		e.adapter.Disconnect(ctx)
		tp.notifyReleased()
		return m.tryAcquire(ctx, fingerprint, config)
	}

	if len(tp.entries) < m.opts.MaxPerTarget {
		// Reserve the slot before dialing so concurrent acquires cannot
		// overshoot the cap.
		e := &entry{id: uuid.NewString(), createdAt: time.Now(), lastUsed: time.Now(), inUse: true}
		tp.entries = append(tp.entries, e)
		tp.created++
		m.mu.Unlock()

		adapter, err := m.factory(config)
		if err == nil {
			err = adapter.Connect(ctx)
		}
		if err != nil {
			m.removeEntry(tp, e)
			tp.notifyReleased()
			return nil, nil, domain.NewConnectionError(config.Dialect, domain.CodeConnectionFailed,
				"connecting to "+fingerprint+" failed", err)
		}

		m.mu.Lock()
		if m.closed {
			// Shutdown ran while the dial was in flight. The reserved
			// entry must not become a live lease.
			m.mu.Unlock()
			m.removeEntry(tp, e)
			adapter.Disconnect(ctx)
			tp.notifyReleased()
			return nil, nil, domain.NewConnectionError(config.Dialect, domain.CodePoolClosed,
				"pool manager is shut down", nil)
		}
		e.adapter = adapter
		tp.acquired++
		m.mu.Unlock()
		m.logger.Debug("pool: opened connection %s for %s", e.id, fingerprint)
		return &Lease{manager: m, pool: tp, entry: e}, nil, nil
	}

	wait := tp.released
	m.mu.Unlock()
	return nil, wait, nil
}

func (m *Manager) healthy(ctx context.Context, adapter domain.Adapter) bool {
	status, err := adapter.HealthCheck(ctx)
	return err == nil && status != nil && status.Healthy
}

func (m *Manager) removeEntry(tp *targetPool, victim *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range tp.entries {
		if e == victim {
			tp.entries = append(tp.entries[:i], tp.entries[i+1:]...)
			tp.destroyed++
			return
		}
	}
}

func (m *Manager) recordTimeout(fingerprint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tp, ok := m.pools[fingerprint]; ok {
		tp.timeouts++
	}
}

// Stats snapshots every target pool, keyed by fingerprint.
func (m *Manager) Stats() map[string]TargetStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := make(map[string]TargetStats, len(m.pools))
	for fingerprint, tp := range m.pools {
		s := TargetStats{
			Fingerprint: fingerprint,
			Dialect:     string(tp.config.Dialect),
			Open:        len(tp.entries),
			Created:     tp.created,
			Destroyed:   tp.destroyed,
			Acquired:    tp.acquired,
			Timeouts:    tp.timeouts,
		}
		for _, e := range tp.entries {
			if e.inUse {
				s.InUse++
			} else {
				s.Idle++
			}
		}
		stats[fingerprint] = s
	}
	return stats
}

// Shutdown stops the sweep, waits for in-use connections to come back until
// the context expires, then disconnects everything. After Shutdown every
// Acquire fails.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	close(m.stop)
	<-m.done

	for {
		busy := m.closeIdle()
		if busy == 0 {
			return nil
		}
		select {
		case <-time.After(100 * time.Millisecond):
		case <-ctx.Done():
			forced := m.closeAll()
			if forced > 0 {
				m.logger.Warn("pool: shutdown forced %d in-use connections closed", forced)
			}
			return ctx.Err()
		}
	}
}

// closeIdle disconnects every idle entry and reports how many are still
// in use.
func (m *Manager) closeIdle() int {
	m.mu.Lock()
	var victims []*entry
	busy := 0
	for _, tp := range m.pools {
		kept := tp.entries[:0]
		for _, e := range tp.entries {
			if e.inUse {
				kept = append(kept, e)
				busy++
				continue
			}
			victims = append(victims, e)
			tp.destroyed++
		}
		tp.entries = kept
	}
	m.mu.Unlock()

	for _, e := range victims {
		if e.adapter != nil {
			e.adapter.Disconnect(context.Background())
		}
	}
	return busy
}

func (m *Manager) closeAll() int {
	m.mu.Lock()
	var victims []*entry
	forced := 0
	for _, tp := range m.pools {
		for _, e := range tp.entries {
			if e.inUse {
				forced++
			}
			victims = append(victims, e)
			tp.destroyed++
		}
		tp.entries = nil
	}
	m.mu.Unlock()

	for _, e := range victims {
		if e.adapter != nil {
			e.adapter.Disconnect(context.Background())
		}
	}
	return forced
}

func (m *Manager) sweepLoop() {
	defer close(m.done)
	ticker := time.NewTicker(m.opts.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.sweep(time.Now())
		case <-m.stop:
			return
		}
	}
}

// sweep evicts idle entries past IdleTimeout and any entry past
// MaxLifetime. In-use entries are never touched. Pools left with no
// entries are dropped from the registry.
func (m *Manager) sweep(now time.Time) {
	m.mu.Lock()
	var victims []*entry
	for fingerprint, tp := range m.pools {
		evicted := 0
		kept := tp.entries[:0]
		for _, e := range tp.entries {
			if !e.inUse && (now.Sub(e.lastUsed) > m.opts.IdleTimeout || now.Sub(e.createdAt) > m.opts.MaxLifetime) {
				victims = append(victims, e)
				tp.destroyed++
				evicted++
				continue
			}
			kept = append(kept, e)
		}
		tp.entries = kept
		if evicted > 0 {
			m.logger.Debug("pool: evicting %d idle connections for %s", evicted, fingerprint)
		}
		// A pool that lost its last entry drops out of the registry.
		// Waiters only exist on full pools and in-flight dials hold a
		// reserved entry, so nothing can still point at it.
		if len(tp.entries) == 0 {
			delete(m.pools, fingerprint)
			m.logger.Debug("pool: removing empty pool for %s", fingerprint)
		}
	}
	pools := make([]*targetPool, 0, len(m.pools))
	for _, tp := range m.pools {
		pools = append(pools, tp)
	}
	m.mu.Unlock()

	for _, e := range victims {
		if e.adapter != nil {
			e.adapter.Disconnect(context.Background())
		}
	}
	if len(victims) > 0 {
		for _, tp := range pools {
			tp.notifyReleased()
		}
	}
}
