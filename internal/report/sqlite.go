package report

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"insider-momentum/internal/logger"
)

// runIDColumn tags every stored row with the run that produced it.
const runIDColumn = "run_id"

// SQLiteSink appends tables to a single SQLite table, adding columns as new
// keys appear. All columns are stored as TEXT.
type SQLiteSink struct {
	db    *sql.DB
	table string
}

// OpenSQLite opens (or creates) the database at path.
func OpenSQLite(path, table string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	// a single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)
	if table == "" {
		table = "insider_momentum"
	}
	return &SQLiteSink{db: db, table: table}, nil
}

func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

// Write stores every row of t under runID and returns the number of rows inserted.
func (s *SQLiteSink) Write(ctx context.Context, runID string, t *Table) (int, error) {
	op := logger.StartOperation(ctx, "sqlite.write", "table", s.table, "rows", t.Len())

	if err := s.ensureTable(ctx, t.Columns()); err != nil {
		op.EndWithError(err)
		return 0, err
	}
	if t.Len() == 0 {
		op.End("inserted", 0)
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		op.EndWithError(err)
		return 0, err
	}
	defer tx.Rollback()

	columns := append([]string{runIDColumn}, t.Columns()...)
	quoted := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
		marks[i] = "?"
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(s.table), strings.Join(quoted, ", "), strings.Join(marks, ", ")))
	if err != nil {
		op.EndWithError(err)
		return 0, err
	}
	defer stmt.Close()

	args := make([]any, len(columns))
	for i := range t.Rows() {
		args[0] = runID
		for j, col := range t.Columns() {
			v := t.Cell(i, col)
			if v.Valid {
				args[j+1] = v.ValueOrZero()
			} else {
				args[j+1] = nil
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			op.EndWithError(err)
			return 0, fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		op.EndWithError(err)
		return 0, err
	}
	op.End("inserted", t.Len())
	return t.Len(), nil
}

// Columns lists the table's columns in declaration order.
func (s *SQLiteSink) Columns(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(s.table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

func (s *SQLiteSink) ensureTable(ctx context.Context, columns []string) error {
	create := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s TEXT)", quoteIdent(s.table), quoteIdent(runIDColumn))
	if _, err := s.db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.table, err)
	}

	existing, err := s.Columns(ctx)
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, c := range existing {
		have[strings.ToLower(c)] = true
	}

	for _, c := range columns {
		if have[strings.ToLower(c)] {
			continue
		}
		alter := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TEXT", quoteIdent(s.table), quoteIdent(c))
		if _, err := s.db.ExecContext(ctx, alter); err != nil {
			return fmt.Errorf("failed to add column %s: %w", c, err)
		}
		have[strings.ToLower(c)] = true
		logger.Debug(ctx, "Added sqlite column", "table", s.table, "column", c)
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
