package http

import (
	"errors"
	"log/slog"
	"sort"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
)

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		path, pattern string
		want          bool
	}{
		{"/api/restaurants", "/api/restaurants", true},
		{"/api/restaurants/42", "/api/restaurants/:id", true},
		{"/api/restaurants/category/KOREAN", "/api/restaurants/category/:category", true},
		{"/api/restaurants/category", "/api/restaurants/category/:category", false},
		{"/api/restaurants/42/extra", "/api/restaurants/:id", false},
		{"/api/restaurants/nearby", "/api/restaurants/*", true},
		{"/api/restaurants", "/api/restaurants/*", true},
		{"/v1/restaurants/1", "/api/restaurants/*", false},
	}

	for _, tt := range tests {
		if got := matchPattern(tt.path, tt.pattern); got != tt.want {
			t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.path, tt.pattern, got, tt.want)
		}
	}
}

func TestETagMatches(t *testing.T) {
	const etag = `W/"abc123"`
	tests := []struct {
		header string
		want   bool
	}{
		{"", false},
		{`W/"abc123"`, true},
		{`"abc123"`, true},
		{`"zzz", W/"abc123"`, true},
		{"*", true},
		{`W/"other"`, false},
	}
	for _, tt := range tests {
		if got := etagMatches(tt.header, etag); got != tt.want {
			t.Errorf("etagMatches(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestAccessLevel(t *testing.T) {
	tests := []struct {
		status int
		err    error
		want   slog.Level
	}{
		{200, nil, slog.LevelInfo},
		{304, nil, slog.LevelInfo},
		{404, nil, slog.LevelWarn},
		{503, nil, slog.LevelError},
		{200, errors.New("write failed"), slog.LevelError},
	}
	for _, tt := range tests {
		if got := accessLevel(tt.status, tt.err); got != tt.want {
			t.Errorf("accessLevel(%d, %v) = %v, want %v", tt.status, tt.err, got, tt.want)
		}
	}
}

func TestOverlapping(t *testing.T) {
	const (
		all    = "restaurants.events.>"
		korean = "restaurants.events.*.KOREAN"
		cafe   = "restaurants.events.*.CAFE"
	)
	active := func(subjects ...string) map[string]*nats.Subscription {
		m := make(map[string]*nats.Subscription, len(subjects))
		for _, s := range subjects {
			m[s] = nil
		}
		return m
	}
	sorted := func(in []string) []string {
		sort.Strings(in)
		return in
	}

	assert.Equal(t, []string{all}, overlapping(active(all), korean), "narrowing drops the catch-all")
	assert.Empty(t, overlapping(active(korean), cafe), "categories coexist")
	assert.Equal(t, []string{cafe, korean}, sorted(overlapping(active(korean, cafe), all)), "widening drops every category")
	assert.Empty(t, overlapping(active(), all))
}
