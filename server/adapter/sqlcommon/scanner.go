package sqlcommon

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

// ScanRows reads up to maxRows rows into domain types. maxRows <= 0 means
// unlimited.
func ScanRows(rows *sql.Rows, driver Driver, maxRows int) ([]domain.Row, []domain.ColumnInfo, error) {
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, nil, fmt.Errorf("get column types: %w", err)
	}

	columns := make([]domain.ColumnInfo, len(colTypes))
	colNames := make([]string, len(colTypes))
	for i, ct := range colTypes {
		colNames[i] = ct.Name()
		nullable, _ := ct.Nullable()
		columns[i] = domain.ColumnInfo{
			Name:     ct.Name(),
			Type:     driver.MapColumnType(ct.DatabaseTypeName()),
			Nullable: nullable,
		}
	}

	var result []domain.Row
	for rows.Next() {
		if maxRows > 0 && len(result) >= maxRows {
			break
		}
		row, err := scanRow(rows, colNames)
		if err != nil {
			return nil, nil, err
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("rows iteration: %w", err)
	}
	return result, columns, nil
}

func scanRow(rows *sql.Rows, colNames []string) (domain.Row, error) {
	values := make([]interface{}, len(colNames))
	scanTargets := make([]interface{}, len(colNames))
	for i := range values {
		scanTargets[i] = &values[i]
	}

	if err := rows.Scan(scanTargets...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	row := make(domain.Row, len(colNames))
	for i, name := range colNames {
		row[name] = normalizeValue(values[i])
	}
	return row, nil
}

// normalizeValue converts scanned values to JSON-friendly Go types.
func normalizeValue(v interface{}) interface{} {
	if v == nil {
		return nil
	}

	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	case int64, float64, bool, string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
