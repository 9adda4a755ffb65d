package executor

import (
	"context"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
	"github.com/kasuganosora/sqlbridge/pkg/sqlbuilder"
)

// Page is one page of a paginated query plus the totals needed to render
// pager controls.
type Page struct {
	Columns    []domain.ColumnInfo `json:"columns,omitempty"`
	Rows       []domain.Row        `json:"rows"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	TotalRows  int64               `json:"total_rows"`
	TotalPages int                 `json:"total_pages"`
}

// Paginate runs the builder's query bounded to one page and a matching
// COUNT(*) for the totals. page is 1-based; size falls back to 50.
func (e *Executor) Paginate(ctx context.Context, config *domain.DatabaseConfig, b *sqlbuilder.Builder, page, size int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}

	count, err := b.BuildCount()
	if err != nil {
		return nil, err
	}

	// Bound a copy so the caller's builder stays reusable for other pages.
	data, err := b.Clone().Limit(size).Offset((page-1)*size).Build()
	if err != nil {
		return nil, err
	}

	lease, err := e.pool.Acquire(ctx, config)
	if err != nil {
		return nil, err
	}
	defer lease.Release()

	countRes, err := lease.Adapter().Execute(ctx, count.Query, count.Params, nil)
	if err != nil {
		return nil, err
	}
	total := extractCount(countRes)

	dataRes, err := lease.Adapter().Execute(ctx, data.Query, data.Params, nil)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / size
	if int(total)%size != 0 {
		totalPages++
	}
	return &Page{
		Columns:    dataRes.Columns,
		Rows:       dataRes.Rows,
		Page:       page,
		PageSize:   size,
		TotalRows:  total,
		TotalPages: totalPages,
	}, nil
}

// extractCount pulls the single COUNT(*) value out of a result, whatever
// the driver called the column.
func extractCount(result *domain.QueryResult) int64 {
	if result == nil || len(result.Rows) == 0 {
		return 0
	}
	for _, v := range result.Rows[0] {
		switch n := v.(type) {
		case int64:
			return n
		case float64:
			return int64(n)
		}
	}
	return 0
}
