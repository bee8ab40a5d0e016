package importer

import (
	"errors"
	"testing"

	"listing-hub/internal/models"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		policy DatePolicy
		want   string
	}{
		{"canonical passthrough", "2023-12-09", DateClamp, "2023-12-09"},
		{"two digit year 2000s", "23-12-09", DateClamp, "2023-12-09"},
		{"two digit year 1990s", "98-03-15", DateClamp, "1998-03-15"},
		{"boundary year 90", "90-01-01", DateClamp, "1990-01-01"},
		{"boundary year 89", "89-01-01", DateClamp, "2089-01-01"},
		{"dotted form", "2024.01.05", DateClamp, "2024-01-05"},
		{"dotted two digit year", "24.1.5", DateClamp, "2024-01-05"},
		{"trailing time stripped", "2023-12-09 14:30", DateClamp, "2023-12-09"},
		{"iso time stripped", "2023-12-09T14:30:00", DateClamp, "2023-12-09"},
		{"slash layout", "2023/12/09", DateClamp, "2023-12-09"},
		{"compact layout", "20231209", DateClamp, "2023-12-09"},
		{"korean layout", "2023년 12월 09일", DateClamp, "2023-12-09"},
		{"empty becomes null", "", DateClamp, ""},
		{"free text becomes null", "입주협의", DateClamp, ""},
		{"day over 31 clamped to 19", "2023-05-99", DateClamp, "2023-05-19"},
		{"day zero clamped to 1", "2023-05-00", DateClamp, "2023-05-01"},
		{"month over 12 clamped to 12", "2023-13-05", DateClamp, "2023-12-05"},
		{"month zero clamped to 1", "2023-00-05", DateClamp, "2023-01-05"},
		{"out of range nulled under null policy", "2023-05-99", DateNull, ""},
		{"in range unaffected by null policy", "2023-05-09", DateNull, "2023-05-09"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDate(tt.raw, tt.policy)
			if err != nil {
				t.Fatalf("NormalizeDate(%q, %s) unexpected error: %v", tt.raw, tt.policy, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeDate(%q, %s) = %q, want %q", tt.raw, tt.policy, got, tt.want)
			}
		})
	}
}

func TestNormalizeDateReject(t *testing.T) {
	_, err := NormalizeDate("2023-05-99", DateReject)
	if !errors.Is(err, ErrDateOutOfRange) {
		t.Fatalf("expected ErrDateOutOfRange, got %v", err)
	}

	got, err := NormalizeDate("2023-05-09", DateReject)
	if err != nil || got != "2023-05-09" {
		t.Fatalf("in-range date under reject: got %q, %v", got, err)
	}
}

func TestNormalizeDateIdempotent(t *testing.T) {
	once, err := NormalizeDate("23.12.9", DateClamp)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := NormalizeDate(once, DateClamp)
	if err != nil {
		t.Fatal(err)
	}
	if once != twice {
		t.Errorf("normalization not idempotent: %q then %q", once, twice)
	}
}

func TestNormalizeBool(t *testing.T) {
	truthy := []string{"true", "TRUE", "True", "1", "yes", "Y", " y "}
	for _, raw := range truthy {
		if !NormalizeBool(raw) {
			t.Errorf("NormalizeBool(%q) = false, want true", raw)
		}
	}

	falsy := []string{"false", "0", "no", "n", "", "아니오", "maybe"}
	for _, raw := range falsy {
		if NormalizeBool(raw) {
			t.Errorf("NormalizeBool(%q) = true, want false", raw)
		}
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw    string
		policy StatusPolicy
		want   models.ListingStatus
	}{
		{"거래가능", StatusLenient, models.StatusAvailable},
		{"확인필요", StatusLenient, models.StatusAvailable},
		{"재확인", StatusLenient, models.StatusAvailable},
		{"거래보류", StatusLenient, models.StatusOnHold},
		{"보류", StatusLenient, models.StatusOnHold},
		{"계약완료", StatusLenient, models.StatusCompleted},
		{"철회", StatusLenient, models.StatusWithdrawn},
		{"", StatusLenient, models.StatusAvailable},
		{"이상한값", StatusLenient, models.StatusAvailable},

		{"거래가능", StatusStrict, models.StatusAvailable},
		{"확인필요", StatusStrict, models.StatusAvailable},
		{"거래완료", StatusStrict, models.StatusCompleted},
		{"매물철회", StatusStrict, models.StatusWithdrawn},
		// Aliases fall outside the strict allow-list
		{"보류", StatusStrict, models.StatusAvailable},
		{"계약완료", StatusStrict, models.StatusAvailable},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy)+"/"+tt.raw, func(t *testing.T) {
			if got := NormalizeStatus(tt.raw, tt.policy); got != tt.want {
				t.Errorf("NormalizeStatus(%q, %s) = %s, want %s", tt.raw, tt.policy, got, tt.want)
			}
		})
	}
}

func TestExtractFloors(t *testing.T) {
	intPtr := func(n int) *int { return &n }

	tests := []struct {
		name        string
		raw         string
		wantCurrent *int
		wantTotal   *int
	}{
		{"both halves", "15/20", intPtr(15), intPtr(20)},
		{"current only", "15", intPtr(15), nil},
		{"with suffixes", "15층/20층", intPtr(15), intPtr(20)},
		{"basement notation keeps digits", "B1/5", intPtr(1), intPtr(5)},
		{"empty", "", nil, nil},
		{"no digits", "저층/고층", nil, nil},
		{"missing total", "3/", intPtr(3), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, total := ExtractFloors(tt.raw)
			if !intPtrEqual(current, tt.wantCurrent) {
				t.Errorf("current = %v, want %v", fmtIntPtr(current), fmtIntPtr(tt.wantCurrent))
			}
			if !intPtrEqual(total, tt.wantTotal) {
				t.Errorf("total = %v, want %v", fmtIntPtr(total), fmtIntPtr(tt.wantTotal))
			}
		})
	}
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func fmtIntPtr(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
