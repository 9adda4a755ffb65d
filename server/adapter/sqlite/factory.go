package sqlite

import (
	"github.com/kasuganosora/sqlbridge/pkg/domain"
	"github.com/kasuganosora/sqlbridge/server/adapter/sqlcommon"
)

// Factory creates SQLite adapters.
type Factory struct{}

func init() {
	domain.Register(&Factory{})
}

// GetDialect reports the dialect this factory serves.
func (f *Factory) GetDialect() domain.Dialect {
	return domain.DialectSQLite
}

// Create builds an unconnected SQLite adapter from config.
func (f *Factory) Create(config *domain.DatabaseConfig) (domain.Adapter, error) {
	return sqlcommon.New(config, &Driver{})
}
