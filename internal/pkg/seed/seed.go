// Package seed reads restaurant records from JSON files used by the seeder
// and the bulk importer.
package seed

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/samirrijal/motmap/internal/core/domain"
	"github.com/samirrijal/motmap/internal/pkg/geospatial"
)

// Record is one restaurant in a seed or import file.
type Record struct {
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Category  string   `json:"category"`
	Rating    int      `json:"rating"`
	Review    string   `json:"review"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Input converts the record to a service input.
func (r Record) Input() domain.RestaurantInput {
	return domain.RestaurantInput{
		Name:      r.Name,
		Address:   r.Address,
		Category:  domain.Category(r.Category),
		Rating:    r.Rating,
		Review:    r.Review,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
}

// Decode reads a JSON array of records.
func Decode(r io.Reader) ([]Record, error) {
	var out []Record
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return out, nil
}

// LoadFile reads records from path.
func LoadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Restaurants validates every record and converts it to a domain.Restaurant
// ready for batch insertion. The first invalid record aborts with its index.
func Restaurants(records []Record) ([]domain.Restaurant, error) {
	out := make([]domain.Restaurant, 0, len(records))
	for i, rec := range records {
		in := rec.Input()
		in.Normalize()
		if !geospatial.IsValidLocationPtr(in.Latitude, in.Longitude) {
			return nil, fmt.Errorf("record %d: %w", i, domain.Errorf(domain.ErrInvalidLocation, "%q", in.Name))
		}
		if err := in.ValidateFields(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		var r domain.Restaurant
		in.Apply(&r)
		out = append(out, r)
	}
	return out, nil
}
