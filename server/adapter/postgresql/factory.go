package postgresql

import (
	"github.com/kasuganosora/sqlbridge/pkg/domain"
	"github.com/kasuganosora/sqlbridge/server/adapter/sqlcommon"
)

// Factory creates PostgreSQL adapters.
type Factory struct{}

func init() {
	domain.Register(&Factory{})
}

// GetDialect reports the dialect this factory serves.
func (f *Factory) GetDialect() domain.Dialect {
	return domain.DialectPostgreSQL
}

// Create builds an unconnected PostgreSQL adapter from config.
func (f *Factory) Create(config *domain.DatabaseConfig) (domain.Adapter, error) {
	return sqlcommon.New(config, &Driver{})
}
