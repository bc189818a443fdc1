package market

import (
	"reflect"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestSearchFiltersWhereClause(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		filters   SearchFilters
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "no filters keeps the published predicate",
			filters:   SearchFilters{},
			wantWhere: "published = TRUE",
			wantArgs:  []any{},
		},
		{
			name:      "title is lowercased and wrapped for substring match",
			filters:   SearchFilters{Title: "WalkMan"},
			wantWhere: "published = TRUE AND lower(title) LIKE $1",
			wantArgs:  []any{"%walkman%"},
		},
		{
			name:      "price bounds are inclusive",
			filters:   SearchFilters{PriceMin: intPtr(500), PriceMax: intPtr(1000)},
			wantWhere: "published = TRUE AND price_cents >= $1 AND price_cents <= $2",
			wantArgs:  []any{500, 1000},
		},
		{
			name:      "all filters stack with ordered placeholders",
			filters:   SearchFilters{Title: "tape", PriceMin: intPtr(100), PriceMax: intPtr(900)},
			wantWhere: "published = TRUE AND lower(title) LIKE $1 AND price_cents >= $2 AND price_cents <= $3",
			wantArgs:  []any{"%tape%", 100, 900},
		},
		{
			name:      "zero bound still counts as a bound",
			filters:   SearchFilters{PriceMin: intPtr(0)},
			wantWhere: "published = TRUE AND price_cents >= $1",
			wantArgs:  []any{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filters.whereClause()
			if where != tt.wantWhere {
				t.Fatalf("where = %q, want %q", where, tt.wantWhere)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}
