// Package sqliteio writes Frames into SQLite tables through database/sql.
package sqliteio

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/argentumzz/movie/pkg/frame"
)

// WriteTable replaces table in the database at dsn with the rows of f. The
// drop, create and inserts share one transaction.
func WriteTable(ctx context.Context, dsn, table string, f *frame.Frame) (int64, error) {
	if strings.TrimSpace(dsn) == "" {
		return 0, fmt.Errorf("sqlite: DSN must not be empty")
	}
	if strings.TrimSpace(table) == "" {
		return 0, fmt.Errorf("sqlite: table must not be empty")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return 0, fmt.Errorf("sqlite: open: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	n, err := copyFrame(ctx, tx, table, f)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return n, nil
}

func copyFrame(ctx context.Context, tx *sql.Tx, table string, f *frame.Frame) (int64, error) {
	cols := f.Columns()
	defs := make([]string, len(cols))
	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		names[i] = quote(c.Name())
		defs[i] = names[i] + " " + sqlType(c.Kind())
		marks[i] = "?"
	}
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quote(table)); err != nil {
		return 0, fmt.Errorf("sqlite: drop: %w", err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", quote(table), strings.Join(defs, ", "))); err != nil {
		return 0, fmt.Errorf("sqlite: create: %w", err)
	}
	if len(cols) == 0 {
		return 0, nil
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(table), strings.Join(names, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	args := make([]any, len(cols))
	for r := 0; r < f.Rows(); r++ {
		for i, c := range cols {
			v, err := arg(c, r)
			if err != nil {
				return inserted, err
			}
			args[i] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return inserted, fmt.Errorf("sqlite: insert row %d: %w", r+1, err)
		}
		inserted++
	}
	return inserted, nil
}

func arg(c frame.Column, r int) (any, error) {
	if c.IsNull(r) {
		return nil, nil
	}
	switch c.Kind() {
	case frame.KindTime:
		return frame.Text(c, r), nil
	case frame.KindList:
		b, err := json.Marshal(c.Value(r))
		return string(b), err
	}
	return c.Value(r), nil
}

func sqlType(k frame.Kind) string {
	switch k {
	case frame.KindInt, frame.KindBool:
		return "INTEGER"
	case frame.KindFloat:
		return "REAL"
	}
	return "TEXT"
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
