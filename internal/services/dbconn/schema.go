// File: internal/services/dbconn/schema.go
package dbconn

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// IntrospectSchema renders a compact textual schema description of the
// database behind db: each table as "table(col1, col2, ...)", joined with
// ", " across tables. The text is used as grounding context for NL-to-SQL
// translation. Callers treat a failure as soft and substitute an empty
// schema rather than aborting.
func IntrospectSchema(ctx context.Context, db *sql.DB, dbName string) (string, error) {
	tables, err := firstColumnStrings(ctx, db, "SHOW TABLES")
	if err != nil {
		return "", fmt.Errorf("listing tables of %s: %w", dbName, err)
	}

	entries := make([]string, 0, len(tables))
	for _, table := range tables {
		columns, err := firstColumnStrings(ctx, db, fmt.Sprintf("SHOW COLUMNS FROM `%s`", table))
		if err != nil {
			return "", fmt.Errorf("listing columns of %s: %w", table, err)
		}
		entries = append(entries, fmt.Sprintf("%s(%s)", table, strings.Join(columns, ", ")))
	}

	return strings.Join(entries, ", "), nil
}

// firstColumnStrings runs a query and collects the first column of every row
// as a string, discarding the rest. SHOW TABLES yields one column; SHOW
// COLUMNS yields six of which only Field matters here.
func firstColumnStrings(ctx context.Context, db *sql.DB, query string) ([]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []string
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		switch v := values[0].(type) {
		case []byte:
			out = append(out, string(v))
		case string:
			out = append(out, v)
		default:
			out = append(out, fmt.Sprint(v))
		}
	}
	return out, rows.Err()
}
