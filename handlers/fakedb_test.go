package handlers

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/clementus360/chat-backend/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeDB is a scripted stand-in for the pgx pool. Each step matches a SQL
// fragment and supplies either rows or an error; every executed statement is
// recorded so tests can assert on the SQL and its bound parameters.

type statement struct {
	sql  string
	args []any
}

type step struct {
	match string
	rows  [][]any
	err   error
}

type fakeDB struct {
	steps []step
	stmts []statement
	tx    *fakeTx
}

var _ database.Pool = (*fakeDB)(nil)

func installFake(t *testing.T, f *fakeDB) {
	t.Helper()
	prev := database.DB
	database.DB = f
	t.Cleanup(func() { database.DB = prev })
}

func (f *fakeDB) find(sql string) *step {
	for i := range f.steps {
		if strings.Contains(sql, f.steps[i].match) {
			return &f.steps[i]
		}
	}
	return nil
}

func (f *fakeDB) record(sql string, args []any) {
	f.stmts = append(f.stmts, statement{sql: sql, args: args})
}

func (f *fakeDB) countStmts(fragment string) int {
	n := 0
	for _, s := range f.stmts {
		if strings.Contains(s.sql, fragment) {
			n++
		}
	}
	return n
}

func (f *fakeDB) stmtMatching(t *testing.T, fragment string) statement {
	t.Helper()
	for _, s := range f.stmts {
		if strings.Contains(s.sql, fragment) {
			return s
		}
	}
	t.Fatalf("No statement matching %q was executed", fragment)
	return statement{}
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.record(sql, args)
	if s := f.find(sql); s != nil && s.err != nil {
		return pgconn.CommandTag{}, s.err
	}
	return pgconn.NewCommandTag("OK 1"), nil
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.record(sql, args)
	s := f.find(sql)
	if s == nil {
		return &fakeRows{}, nil
	}
	if s.err != nil {
		return nil, s.err
	}
	return &fakeRows{data: s.rows}, nil
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.record(sql, args)
	s := f.find(sql)
	if s == nil {
		return fakeRow{err: pgx.ErrNoRows}
	}
	if s.err != nil {
		return fakeRow{err: s.err}
	}
	if len(s.rows) == 0 {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{vals: s.rows[0]}
}

func (f *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	f.tx = &fakeTx{db: f}
	return f.tx, nil
}

// scanInto copies scripted values into scan destinations, following the
// loose converting behavior handlers rely on (nil into pointer fields,
// values into matching pointer targets).
func scanInto(vals []any, dest []any) error {
	if len(vals) != len(dest) {
		return fmt.Errorf("scripted row has %d values, scan wants %d", len(vals), len(dest))
	}
	for i, v := range vals {
		rv := reflect.ValueOf(dest[i]).Elem()
		if v == nil {
			rv.Set(reflect.Zero(rv.Type()))
			continue
		}
		val := reflect.ValueOf(v)
		if val.Type().ConvertibleTo(rv.Type()) {
			rv.Set(val.Convert(rv.Type()))
			continue
		}
		if rv.Kind() == reflect.Ptr && val.Type().ConvertibleTo(rv.Type().Elem()) {
			p := reflect.New(rv.Type().Elem())
			p.Elem().Set(val.Convert(rv.Type().Elem()))
			rv.Set(p)
			continue
		}
		return fmt.Errorf("cannot scan %T into %T", v, dest[i])
	}
	return nil
}

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanInto(r.vals, dest)
}

type fakeRows struct {
	data [][]any
	idx  int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return r.data[r.idx-1], nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx <= len(r.data)
}

func (r *fakeRows) Scan(dest ...any) error {
	return scanInto(r.data[r.idx-1], dest)
}

type fakeTx struct {
	db         *fakeDB
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.db.Exec(ctx, sql, args...)
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.db.Query(ctx, sql, args...)
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.db.QueryRow(ctx, sql, args...)
}

func (t *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *fakeTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }

func (t *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (t *fakeTx) Conn() *pgx.Conn { return nil }
