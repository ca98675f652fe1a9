package main

import (
	"testing"

	"streamlist/internal/domain"
)

func TestFormatResults_OrderAndCountryCodes(t *testing.T) {
	avail := func(codes ...string) map[string]domain.AvailabilityEntry {
		m := make(map[string]domain.AvailabilityEntry, len(codes))
		for _, c := range codes {
			m[c] = domain.AvailabilityEntry{}
		}
		return m
	}

	movies := []domain.Movie{
		{Title: "Alpha", ReleaseDate: "2020-05-01", VoteAverage: 8.0, Availability: avail("US")},
		{Title: "Beta", ReleaseDate: "2023-03-10", VoteAverage: 7.5, Availability: avail("SE", "US")},
		{Title: "Gamma", ReleaseDate: "2010-01-01", VoteAverage: 9.0, Availability: avail("US", "DE", "SE")},
		{Title: "Undated", ReleaseDate: "", VoteAverage: 9.9, Availability: avail("US")},
	}

	lines := formatResults(movies)

	want := []string{
		"Gamma (2010)\t9.0\tDE,SE,US",
		"Alpha (2020)\t8.0\tUS",
		"Beta (2023)\t7.5\tSE,US",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %q", len(lines), len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}

	// Re-rendering the same input must produce the same output.
	again := formatResults(movies)
	for i := range lines {
		if again[i] != lines[i] {
			t.Fatalf("line %d changed between calls: %q vs %q", i, lines[i], again[i])
		}
	}
}
