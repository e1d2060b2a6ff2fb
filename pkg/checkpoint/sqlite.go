package checkpoint

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	// SQLite driver
	_ "modernc.org/sqlite"
)

// SQLiteInspector inspects local stores using the pure-Go SQLite
// driver. Stores are opened read-only; the external CLI owns their
// schema and contents.
type SQLiteInspector struct{}

// NewSQLiteInspector creates a SQLite-backed store inspector.
func NewSQLiteInspector() *SQLiteInspector {
	return &SQLiteInspector{}
}

// Probe verifies the driver works by opening an in-memory database.
func (i *SQLiteInspector) Probe(ctx context.Context) Availability {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return Availability{Reason: err.Error()}
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return Availability{Reason: err.Error()}
	}
	return Availability{Available: true}
}

// HasTable reports whether the named table exists in the store.
func (i *SQLiteInspector) HasTable(ctx context.Context, storePath, table string) (bool, error) {
	db, err := i.open(storePath)
	if err != nil {
		return false, err
	}
	defer db.Close()

	row := db.QueryRowContext(ctx,
		"SELECT 1 FROM sqlite_master WHERE type='table' AND name=? LIMIT 1", table)
	var one int
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Columns returns the column names of the named table.
func (i *SQLiteInspector) Columns(ctx context.Context, storePath, table string) ([]string, error) {
	db, err := i.open(storePath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		fmt.Sprintf("PRAGMA table_info(%s)", quoteIdentifier(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid        int
			name       string
			columnType string
			notNull    int
			dflt       sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &columnType, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}

// MaxValue returns the maximum value of the named column as text.
func (i *SQLiteInspector) MaxValue(ctx context.Context, storePath, table, column string) (string, error) {
	db, err := i.open(storePath)
	if err != nil {
		return "", err
	}
	defer db.Close()

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s DESC LIMIT 1",
		quoteIdentifier(column), quoteIdentifier(table), quoteIdentifier(column))
	var value string
	if err := db.QueryRowContext(ctx, query).Scan(&value); err != nil {
		return "", err
	}
	return value, nil
}

func (i *SQLiteInspector) open(storePath string) (*sql.DB, error) {
	return sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", storePath))
}

// quoteIdentifier escapes a SQLite identifier; column names come from
// the store's own schema, not from trusted input.
func quoteIdentifier(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}
