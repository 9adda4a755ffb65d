package domain

import (
	"context"
	"sort"
	"sync"
	"time"
)

// ExecuteOptions tunes a single statement execution.
type ExecuteOptions struct {
	// Timeout bounds the statement; zero means no statement-level deadline.
	Timeout time.Duration `json:"timeout,omitempty"`
	// MaxRows caps the number of rows scanned; zero means unlimited.
	MaxRows int `json:"max_rows,omitempty"`
}

// Adapter is the capability set each dialect driver implements. The query
// builder and the pool manager depend only on this interface.
type Adapter interface {
	// Connect establishes the underlying connection.
	Connect(ctx context.Context) error

	// Disconnect tears the connection down. Safe to call when not connected.
	Disconnect(ctx context.Context) error

	// TestConnection reports whether the target is reachable.
	TestConnection(ctx context.Context) (bool, error)

	// HealthCheck probes the live connection and reports status details.
	HealthCheck(ctx context.Context) (*HealthStatus, error)

	// Execute runs a parameterized statement and returns its result.
	Execute(ctx context.Context, query string, params []interface{}, opts *ExecuteOptions) (*QueryResult, error)

	// GetTables lists user tables in the connected database.
	GetTables(ctx context.Context) ([]string, error)

	// GetTableSchema returns column metadata for one table.
	GetTableSchema(ctx context.Context, tableName string) (*TableSchema, error)

	// Dialect identifies the adapter's SQL dialect.
	Dialect() Dialect
}

// AdapterFactory creates adapters for one dialect.
type AdapterFactory interface {
	// Create builds an unconnected adapter from config.
	Create(config *DatabaseConfig) (Adapter, error)

	// GetDialect reports the dialect this factory serves.
	GetDialect() Dialect
}

// FactoryRegistry maps dialects to adapter factories. A registry instance is
// owned by whoever constructs it; the package-level Register/CreateAdapter
// functions operate on a default registry populated by driver packages at init,
// mirroring database/sql driver registration.
type FactoryRegistry struct {
	mu        sync.RWMutex
	factories map[Dialect]AdapterFactory
}

// NewFactoryRegistry creates an empty registry.
func NewFactoryRegistry() *FactoryRegistry {
	return &FactoryRegistry{
		factories: make(map[Dialect]AdapterFactory),
	}
}

// Register adds or replaces the factory for a dialect.
func (r *FactoryRegistry) Register(factory AdapterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[factory.GetDialect()] = factory
}

// Create builds an adapter for the config's dialect.
func (r *FactoryRegistry) Create(config *DatabaseConfig) (Adapter, error) {
	r.mu.RLock()
	factory, ok := r.factories[config.Dialect]
	r.mu.RUnlock()

	if !ok {
		return nil, NewConnectionError(config.Dialect, CodeUnsupportedDialect,
			"no adapter factory registered", nil)
	}
	return factory.Create(config)
}

// Dialects returns the registered dialect names, sorted.
func (r *FactoryRegistry) Dialects() []Dialect {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Dialect, 0, len(r.factories))
	for d := range r.factories {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

var defaultRegistry = NewFactoryRegistry()

// Register adds a factory to the default registry. Driver packages call this
// from init.
func Register(factory AdapterFactory) {
	defaultRegistry.Register(factory)
}

// CreateAdapter builds an adapter using the default registry.
func CreateAdapter(config *DatabaseConfig) (Adapter, error) {
	return defaultRegistry.Create(config)
}

// RegisteredDialects lists dialects available in the default registry.
func RegisteredDialects() []Dialect {
	return defaultRegistry.Dialects()
}
