package seed_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/motmap/internal/core/domain"
	"github.com/samirrijal/motmap/internal/pkg/seed"
)

func TestLoadFile_BundledSeeds(t *testing.T) {
	path := filepath.Join("..", "..", "..", "data", "seeds", "restaurants.json")
	records, err := seed.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 5)

	rs, err := seed.Restaurants(records)
	require.NoError(t, err)
	assert.Equal(t, "명동교자", rs[0].Name)
	assert.Equal(t, domain.CategoryKorean, rs[0].Category)
	assert.InDelta(t, 37.563692, rs[0].Location.Lat, 1e-9)
	assert.Equal(t, domain.CategoryJapanese, rs[4].Category)
}

func TestDecode_UnknownField(t *testing.T) {
	_, err := seed.Decode(strings.NewReader(`[{"name":"x","stars":5}]`))
	assert.Error(t, err)
}

func TestRestaurants_Invalid(t *testing.T) {
	lat, lon := 37.5, 127.0
	bad := 200.0

	tests := []struct {
		name string
		rec  seed.Record
		want error
	}{
		{"missing coordinate", seed.Record{Name: "a", Address: "b", Category: "CAFE", Rating: 3, Latitude: &lat}, domain.ErrInvalidLocation},
		{"longitude out of range", seed.Record{Name: "a", Address: "b", Category: "CAFE", Rating: 3, Latitude: &lat, Longitude: &bad}, domain.ErrInvalidLocation},
		{"bad rating", seed.Record{Name: "a", Address: "b", Category: "CAFE", Rating: 7, Latitude: &lat, Longitude: &lon}, domain.ErrInvalidRating},
		{"bad category", seed.Record{Name: "a", Address: "b", Category: "BBQ", Rating: 3, Latitude: &lat, Longitude: &lon}, domain.ErrInvalidCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := seed.Restaurants([]seed.Record{tt.rec})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := seed.LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
