package importer

import "testing"

func TestNumberGeneratorSequence(t *testing.T) {
	gen := NewNumberGenerator()

	want := []string{"20250101001", "20250101002", "20250101003"}
	for i, expected := range want {
		got := gen.Next("2025-01-01")
		if got != expected {
			t.Errorf("call %d: got %s, want %s", i+1, got, expected)
		}
	}
}

func TestNumberGeneratorIndependentDates(t *testing.T) {
	gen := NewNumberGenerator()

	gen.Next("2025-01-01")
	gen.Next("2025-01-01")

	if got := gen.Next("2025-01-02"); got != "20250102001" {
		t.Errorf("new date should start at 001, got %s", got)
	}
	if got := gen.Next("2025-01-01"); got != "20250101003" {
		t.Errorf("first date should continue at 003, got %s", got)
	}
}

func TestNumberGeneratorSeed(t *testing.T) {
	gen := NewNumberGenerator()

	gen.Seed("20250101", 7)
	if got := gen.Next("2025-01-01"); got != "20250101008" {
		t.Errorf("seeded counter should continue from max, got %s", got)
	}

	// Seeding never lowers an advanced counter
	gen.Seed("20250101", 2)
	if got := gen.Next("2025-01-01"); got != "20250101009" {
		t.Errorf("lower seed must not rewind counter, got %s", got)
	}
}

func TestNumberGeneratorSeenAfterZeroSeed(t *testing.T) {
	gen := NewNumberGenerator()

	if gen.Seen("20250101") {
		t.Fatal("fresh generator should not have seen any key")
	}
	gen.Seed("20250101", 0)
	if !gen.Seen("20250101") {
		t.Error("zero seed must still mark the key as seen")
	}
}

func TestNumberGeneratorSequenceOverflowWidens(t *testing.T) {
	gen := NewNumberGenerator()
	gen.Seed("20250101", 999)

	if got := gen.Next("2025-01-01"); got != "202501011000" {
		t.Errorf("counter past padding width should widen, got %s", got)
	}
}

func TestDateKey(t *testing.T) {
	if got := DateKey("2025-01-01"); got != "20250101" {
		t.Errorf("DateKey = %s, want 20250101", got)
	}
	if got := DateKey(""); len(got) != 8 {
		t.Errorf("empty date should yield today's 8-digit key, got %s", got)
	}
}
