package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/rickgao/mtbridge/internal/instrument"
)

// Querier is the part of *pgxpool.Pool used to read the instrument map.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// LoadInstrumentMap reads the universal→broker instrument map from table, which
// must have text columns universal and broker. The table name may be schema
// qualified. Universal names are compared case-insensitively; a name mapped
// twice is an error.
func LoadInstrumentMap(ctx context.Context, q Querier, table string) (map[string]string, error) {
	ident := pgx.Identifier(strings.Split(table, "."))
	sql := "SELECT universal, broker FROM " + ident.Sanitize() + " ORDER BY universal"

	rows, err := q.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query instruments: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	seen := make(map[string]string)
	for rows.Next() {
		var universal, broker string
		if err := rows.Scan(&universal, &broker); err != nil {
			return nil, fmt.Errorf("scan instrument: %w", err)
		}
		universal = strings.TrimSpace(universal)
		broker = strings.TrimSpace(broker)
		if universal == "" || broker == "" {
			continue
		}
		key := instrument.Normalize(universal)
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: %q (%q, %q)", instrument.ErrDuplicate, universal, prev, broker)
		}
		seen[key] = broker
		out[universal] = broker
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read instruments: %w", err)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("table %s: %w", table, instrument.ErrEmptyMap)
	}
	return out, nil
}
