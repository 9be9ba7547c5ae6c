package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rickgao/mtbridge/internal/instrument"
)

type fakeRows struct {
	rows   [][2]string
	pos    int
	err    error
	closed bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.pos-1]
	*dest[0].(*string) = row[0]
	*dest[1].(*string) = row[1]
	return nil
}

func (r *fakeRows) Values() ([]any, error) {
	row := r.rows[r.pos-1]
	return []any{row[0], row[1]}, nil
}

type fakeQuerier struct {
	rows *fakeRows
	err  error
	sql  string
}

func (q *fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.sql = sql
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}

func TestLoadInstrumentMap(t *testing.T) {
	rows := &fakeRows{rows: [][2]string{
		{"EURUSD", "EURUSD.pro"},
		{" XAUUSD ", "GOLD"},
		{"", "IGNORED"},
	}}
	q := &fakeQuerier{rows: rows}

	m, err := LoadInstrumentMap(context.Background(), q, "public.instruments")
	if err != nil {
		t.Fatalf("LoadInstrumentMap failed: %v", err)
	}

	if len(m) != 2 || m["EURUSD"] != "EURUSD.pro" || m["XAUUSD"] != "GOLD" {
		t.Errorf("LoadInstrumentMap() = %v", m)
	}
	if want := `SELECT universal, broker FROM "public"."instruments" ORDER BY universal`; q.sql != want {
		t.Errorf("sql = %q, want %q", q.sql, want)
	}
	if !rows.closed {
		t.Error("rows were not closed")
	}
}

func TestLoadInstrumentMap_Errors(t *testing.T) {
	boom := errors.New("connection reset")

	tests := []struct {
		name    string
		q       *fakeQuerier
		wantIs  error
		wantMsg string
	}{
		{
			name:   "empty table",
			q:      &fakeQuerier{rows: &fakeRows{}},
			wantIs: instrument.ErrEmptyMap,
		},
		{
			name:   "query failure",
			q:      &fakeQuerier{err: boom},
			wantIs: boom,
		},
		{
			name:   "iteration failure",
			q:      &fakeQuerier{rows: &fakeRows{rows: [][2]string{{"EURUSD", "EURUSD"}}, err: boom}},
			wantIs: boom,
		},
		{
			name: "duplicate universal name",
			q: &fakeQuerier{rows: &fakeRows{rows: [][2]string{
				{"EURUSD", "EURUSD.a"},
				{"eurusd", "EURUSD.b"},
			}}},
			wantIs:  instrument.ErrDuplicate,
			wantMsg: "mapped twice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadInstrumentMap(context.Background(), tt.q, "instruments")
			if err == nil {
				t.Fatal("LoadInstrumentMap() expected error, got nil")
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("error = %v, want %v", err, tt.wantIs)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}
