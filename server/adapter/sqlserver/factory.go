package sqlserver

import (
	"github.com/kasuganosora/sqlbridge/pkg/domain"
	"github.com/kasuganosora/sqlbridge/server/adapter/sqlcommon"
)

// Factory creates SQL Server adapters.
type Factory struct{}

func init() {
	domain.Register(&Factory{})
}

// GetDialect reports the dialect this factory serves.
func (f *Factory) GetDialect() domain.Dialect {
	return domain.DialectMSSQL
}

// Create builds an unconnected SQL Server adapter from config.
func (f *Factory) Create(config *domain.DatabaseConfig) (domain.Adapter, error) {
	return sqlcommon.New(config, &Driver{})
}
