package importer

import (
	"strings"
	"time"
)

// sequenceWidth is the zero-padding of the per-day sequence suffix.
const sequenceWidth = 3

// NumberGenerator synthesizes property numbers for rows that arrive without
// one: the registration date's digits followed by a zero-padded per-day
// sequence. Counters live on the struct, not in package state, so concurrent
// runs and tests get independent counters. Within one run the numbers are
// unique; across runs uniqueness needs Seed with the store's current maximum.
type NumberGenerator struct {
	counters map[string]int
}

// NewNumberGenerator creates a generator with empty counters.
func NewNumberGenerator() *NumberGenerator {
	return &NumberGenerator{counters: make(map[string]int)}
}

// Next returns the next property number for a canonical YYYY-MM-DD
// registration date. An empty date falls back to today.
func (g *NumberGenerator) Next(registerDate string) string {
	key := DateKey(registerDate)
	g.counters[key]++
	return key + pad(g.counters[key], sequenceWidth)
}

// Seed initializes a date key's counter to the given already-used maximum.
// It marks the key as seen but never lowers an existing counter.
func (g *NumberGenerator) Seed(dateKey string, maxUsed int) {
	if cur, ok := g.counters[dateKey]; !ok || maxUsed > cur {
		g.counters[dateKey] = maxUsed
	}
}

// Seen reports whether the date key has a counter yet.
func (g *NumberGenerator) Seen(dateKey string) bool {
	_, ok := g.counters[dateKey]
	return ok
}

// DateKey converts a canonical YYYY-MM-DD date to its YYYYMMDD digits.
// An empty input yields today's key.
func DateKey(registerDate string) string {
	if registerDate == "" {
		return time.Now().Format("20060102")
	}
	return strings.ReplaceAll(registerDate, "-", "")
}
