package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/samirrijal/motmap/internal/core/domain"
)

func TestBuildWhere(t *testing.T) {
	cafe := domain.CategoryCafe

	where, args := buildWhere(domain.ListFilter{})
	if where != "" || len(args) != 0 {
		t.Errorf("expected no filter, got %q %v", where, args)
	}

	where, args = buildWhere(domain.ListFilter{Category: &cafe, MinRating: 4, Keyword: " 50%_off "})
	want := " WHERE category = $1 AND rating >= $2 AND (name ILIKE $3 OR address ILIKE $3 OR review ILIKE $3)"
	if where != want {
		t.Errorf("unexpected where:\n got %q\nwant %q", where, want)
	}
	if len(args) != 3 || args[0] != "CAFE" || args[1] != 4 || args[2] != `%50\%\_off%` {
		t.Errorf("unexpected args: %#v", args)
	}
}

func TestOrderBy(t *testing.T) {
	cases := map[domain.SortOrder]string{
		"":                  " ORDER BY id",
		domain.SortByID:     " ORDER BY id",
		domain.SortByRating: " ORDER BY rating DESC, id",
		domain.SortByRecent: " ORDER BY created_at DESC, id DESC",
	}
	for in, want := range cases {
		if got := orderBy(in); got != want {
			t.Errorf("orderBy(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMapError(t *testing.T) {
	if mapError(nil) != nil {
		t.Error("expected nil")
	}
	if !errors.Is(mapError(pgx.ErrNoRows), domain.ErrNotFound) {
		t.Error("expected ErrNotFound for no rows")
	}
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "restaurants_name_address_key"})
	if !errors.Is(mapError(dup), domain.ErrDuplicate) {
		t.Error("expected ErrDuplicate for unique violation")
	}
	other := errors.New("boom")
	if mapError(other) != other {
		t.Error("expected other errors to pass through")
	}
}
