package domain

// Row is a single result row keyed by column name.
type Row map[string]interface{}

// ColumnInfo describes one column of a table or result set.
type ColumnInfo struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Nullable      bool   `json:"nullable"`
	Primary       bool   `json:"primary,omitempty"`
	Default       string `json:"default,omitempty"`
	AutoIncrement bool   `json:"auto_increment,omitempty"`
}

// TableSchema describes the structure of one table.
type TableSchema struct {
	Name    string       `json:"name"`
	Columns []ColumnInfo `json:"columns"`
}

// QueryResult is the uniform result of executing a statement.
// Rows and Columns are populated for row-returning statements; AffectedRows
// and InsertID for DML where the driver reports them.
type QueryResult struct {
	Columns      []ColumnInfo `json:"columns,omitempty"`
	Rows         []Row        `json:"rows,omitempty"`
	RowCount     int64        `json:"row_count"`
	AffectedRows int64        `json:"affected_rows,omitempty"`
	InsertID     int64        `json:"insert_id,omitempty"`
}

// HealthStatus is the outcome of an adapter health check.
type HealthStatus struct {
	Healthy bool                   `json:"healthy"`
	Details map[string]interface{} `json:"details,omitempty"`
}
