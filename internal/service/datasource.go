package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lib/pq"
)

// DefaultTableLimit caps rows read from a table when the caller gives none.
const DefaultTableLimit = 1000

// ErrUnknownTable is returned for tables outside the public schema listing.
var ErrUnknownTable = errors.New("unknown table")

// DataSource loads tabular data from a database.
type DataSource interface {
	ListTables(ctx context.Context) ([]string, error)
	// LoadTable returns up to limit rows as string records, header first.
	LoadTable(ctx context.Context, table string, limit int) ([][]string, error)
	Close() error
}

// PostgresDataSource implements DataSource for PostgreSQL
type PostgresDataSource struct {
	db *sql.DB
}

// OpenPostgres connects using a lib/pq connection string or URL.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresDataSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresDataSource{db: db}, nil
}

func (p *PostgresDataSource) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

func (p *PostgresDataSource) ListTables(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name;
	`
	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := []string{}
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}
	return tables, rows.Err()
}

func (p *PostgresDataSource) LoadTable(ctx context.Context, table string, limit int) ([][]string, error) {
	tables, err := p.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	if !contains(tables, table) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	if limit <= 0 {
		limit = DefaultTableLimit
	}

	query := fmt.Sprintf("SELECT * FROM %s LIMIT %d", pq.QuoteIdentifier(table), limit)
	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	records := [][]string{columns}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		record := make([]string, len(columns))
		for i, val := range values {
			record[i] = formatValue(val)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// formatValue renders a scanned column value the way it would appear in a
// CSV export. NULL becomes an empty field.
func formatValue(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format("2006-01-02")
		}
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

func contains(items []string, item string) bool {
	for _, it := range items {
		if it == item {
			return true
		}
	}
	return false
}
