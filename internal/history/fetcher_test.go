package history

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
)

type row struct {
	ts  int64
	val int
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name  string
		total int
		limit int
		want  []Page
	}{
		{
			name:  "single page",
			total: 50,
			limit: 100,
			want:  []Page{{0, 50}},
		},
		{
			name:  "exactly one page",
			total: 100,
			limit: 100,
			want:  []Page{{0, 100}},
		},
		{
			name:  "full pages and remainder",
			total: 250,
			limit: 100,
			want:  []Page{{0, 100}, {100, 100}, {200, 50}},
		},
		{
			name:  "full pages only",
			total: 300,
			limit: 100,
			want:  []Page{{0, 100}, {100, 100}, {200, 100}},
		},
		{
			name:  "terminal default",
			total: 4500,
			limit: DefaultTickPageSize,
			want:  []Page{{0, 2000}, {2000, 2000}, {4000, 500}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Plan(tt.total, tt.limit)
			if err != nil {
				t.Fatalf("Plan failed: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Plan(%d, %d) = %v, want %v", tt.total, tt.limit, got, tt.want)
			}
		})
	}
}

func TestPlan_Invalid(t *testing.T) {
	if _, err := Plan(0, 100); !errors.Is(err, ErrInvalidCount) {
		t.Errorf("Plan(0) error = %v, want ErrInvalidCount", err)
	}
	if _, err := Plan(-5, 100); !errors.Is(err, ErrInvalidCount) {
		t.Errorf("Plan(-5) error = %v, want ErrInvalidCount", err)
	}
	if _, err := Plan(10, 0); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("Plan(10, 0) error = %v, want ErrInvalidLimit", err)
	}
}

// pagedSource serves rows with descending timestamps so sorting is observable.
func pagedSource(t *testing.T, requests *[]Page) PageFunc[row] {
	return func(ctx context.Context, p Page) ([]row, error) {
		*requests = append(*requests, p)
		rows := make([]row, p.Count)
		for i := range rows {
			idx := p.Offset + i
			rows[i] = row{ts: int64(100000 - idx), val: idx}
		}
		return rows, nil
	}
}

func TestFetch_Pagination(t *testing.T) {
	var requests []Page
	got, err := Fetch(context.Background(), 250, 100, pagedSource(t, &requests), func(r row) int64 { return r.ts })
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	want := []Page{{0, 100}, {100, 100}, {200, 50}}
	if !slices.Equal(requests, want) {
		t.Errorf("requests = %v, want %v", requests, want)
	}
	if len(got) != 250 {
		t.Fatalf("len(got) = %d, want 250", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].ts > got[i].ts {
			t.Fatalf("result not sorted at %d: %d > %d", i, got[i-1].ts, got[i].ts)
		}
	}
}

func TestFetch_SinglePage(t *testing.T) {
	var requests []Page
	got, err := Fetch(context.Background(), 50, 100, pagedSource(t, &requests), func(r row) int64 { return r.ts })
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !slices.Equal(requests, []Page{{0, 50}}) {
		t.Errorf("requests = %v, want [{0 50}]", requests)
	}
	if len(got) != 50 {
		t.Errorf("len(got) = %d, want 50", len(got))
	}
}

func TestFetch_OrderInvariant(t *testing.T) {
	// Each page returns its rows shuffled; the merged result must not depend on it.
	ts := func(r row) int64 { return r.ts }
	var baseline []row

	for seed := uint64(1); seed <= 5; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed*7))
		fetch := func(ctx context.Context, p Page) ([]row, error) {
			rows := make([]row, p.Count)
			for i := range rows {
				idx := p.Offset + i
				rows[i] = row{ts: int64(idx * 10), val: idx}
			}
			rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
			return rows, nil
		}

		got, err := Fetch(context.Background(), 250, 100, fetch, ts)
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if baseline == nil {
			baseline = got
			continue
		}
		if !slices.Equal(got, baseline) {
			t.Fatalf("seed %d produced a different result", seed)
		}
	}
}

func TestFetch_PageFailureAborts(t *testing.T) {
	boom := errors.New("boom")
	var requests []Page
	fetch := func(ctx context.Context, p Page) ([]row, error) {
		requests = append(requests, p)
		if p.Offset == 100 {
			return nil, boom
		}
		return make([]row, p.Count), nil
	}

	got, err := Fetch(context.Background(), 250, 100, fetch, func(r row) int64 { return r.ts })
	if !errors.Is(err, boom) {
		t.Fatalf("Fetch() error = %v, want boom", err)
	}
	if got != nil {
		t.Errorf("expected no partial result, got %d rows", len(got))
	}
	if len(requests) != 2 {
		t.Errorf("issued %d requests, want 2", len(requests))
	}
}

func TestFetch_InvalidCountNoRequests(t *testing.T) {
	called := false
	fetch := func(ctx context.Context, p Page) ([]row, error) {
		called = true
		return nil, nil
	}
	if _, err := Fetch(context.Background(), 0, 100, fetch, func(r row) int64 { return r.ts }); !errors.Is(err, ErrInvalidCount) {
		t.Errorf("Fetch() error = %v, want ErrInvalidCount", err)
	}
	if called {
		t.Error("no page should be requested for an invalid count")
	}
}
