package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"listing-hub/internal/models"
)

// memStore is an in-memory ListingStore. failNumbers marks property numbers
// whose insert fails; a bulk insert containing any of them fails whole.
type memStore struct {
	listings    map[string]models.Listing
	order       []string
	failNumbers map[string]bool
	bulkCalls   int
	insertCalls int
}

func newMemStore(failNumbers ...string) *memStore {
	fail := make(map[string]bool, len(failNumbers))
	for _, n := range failNumbers {
		fail[n] = true
	}
	return &memStore{
		listings:    make(map[string]models.Listing),
		failNumbers: fail,
	}
}

func (s *memStore) BulkInsert(listings []models.Listing) error {
	s.bulkCalls++
	for _, l := range listings {
		if s.failNumbers[l.PropertyNumber] {
			return fmt.Errorf("bulk insert rejected row %s", l.PropertyNumber)
		}
	}
	for _, l := range listings {
		s.put(l)
	}
	return nil
}

func (s *memStore) Insert(l *models.Listing) error {
	s.insertCalls++
	if s.failNumbers[l.PropertyNumber] {
		return fmt.Errorf("insert rejected row %s", l.PropertyNumber)
	}
	s.put(*l)
	return nil
}

func (s *memStore) MaxSequenceForDate(dateKey string) (int, error) {
	max := 0
	for number := range s.listings {
		if !strings.HasPrefix(number, dateKey) {
			continue
		}
		suffix := number[len(dateKey):]
		n := 0
		if _, err := fmt.Sscanf(suffix, "%d", &n); err == nil && n > max {
			max = n
		}
	}
	return max, nil
}

func (s *memStore) put(l models.Listing) {
	if _, exists := s.listings[l.PropertyNumber]; !exists {
		s.order = append(s.order, l.PropertyNumber)
	}
	s.listings[l.PropertyNumber] = l
}

func makeListings(n int) []models.Listing {
	listings := make([]models.Listing, n)
	for i := range listings {
		listings[i] = models.Listing{
			PropertyNumber: fmt.Sprintf("20250101%03d", i+1),
			PropertyName:   fmt.Sprintf("매물 %d", i+1),
			Status:         models.StatusAvailable,
			RegisterDate:   "2025-01-01",
		}
	}
	return listings
}

func TestUploadAllBatchesSucceed(t *testing.T) {
	store := newMemStore()
	u := NewUploader(store, 10, time.Millisecond, 10)

	result := u.Upload(makeListings(25))

	if result.SuccessCount != 25 || result.ErrorCount != 0 {
		t.Fatalf("success=%d errors=%d, want 25/0", result.SuccessCount, result.ErrorCount)
	}
	if store.bulkCalls != 3 {
		t.Errorf("bulkCalls = %d, want 3", store.bulkCalls)
	}
	if store.insertCalls != 0 {
		t.Errorf("insertCalls = %d, want 0 when bulk succeeds", store.insertCalls)
	}
}

func TestUploadFallbackIsolatesBadRow(t *testing.T) {
	// Row 5 poisons the first batch; the bulk insert fails and every row of
	// that batch is retried individually exactly once.
	store := newMemStore("20250101005")
	u := NewUploader(store, 10, time.Millisecond, 10)

	result := u.Upload(makeListings(20))

	if result.SuccessCount != 19 {
		t.Errorf("SuccessCount = %d, want 19", result.SuccessCount)
	}
	if result.ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1", result.ErrorCount)
	}
	if store.insertCalls != 10 {
		t.Errorf("insertCalls = %d, want 10 (one per row of the failed batch)", store.insertCalls)
	}
	if len(result.Errors) != 1 || result.Errors[0].PropertyNumber != "20250101005" {
		t.Fatalf("Errors = %+v, want single entry for 20250101005", result.Errors)
	}
	if result.Errors[0].Row != 4 {
		t.Errorf("failed row index = %d, want 4", result.Errors[0].Row)
	}
}

func TestUploadPreservesInputOrder(t *testing.T) {
	store := newMemStore("20250101002")
	u := NewUploader(store, 3, time.Millisecond, 10)

	u.Upload(makeListings(5))

	want := []string{"20250101001", "20250101003", "20250101004", "20250101005"}
	for i, number := range want {
		if store.order[i] != number {
			t.Fatalf("order[%d] = %s, want %s (full order %v)", i, store.order[i], number, store.order)
		}
	}
}

func TestUploadErrorSamplingBounded(t *testing.T) {
	failing := make([]string, 8)
	for i := range failing {
		failing[i] = fmt.Sprintf("20250101%03d", i+1)
	}
	store := newMemStore(failing...)
	u := NewUploader(store, 50, time.Millisecond, 3)

	result := u.Upload(makeListings(8))

	if result.ErrorCount != 8 {
		t.Errorf("ErrorCount = %d, want 8", result.ErrorCount)
	}
	if len(result.Errors) != 3 {
		t.Errorf("sampled Errors = %d, want 3", len(result.Errors))
	}
	if len(result.FailedRows) != 8 {
		t.Errorf("FailedRows = %d, want all 8", len(result.FailedRows))
	}
}

func TestUploadEmptyInput(t *testing.T) {
	store := newMemStore()
	u := NewUploader(store, 10, time.Millisecond, 10)

	result := u.Upload(nil)
	if result.Total != 0 || result.SuccessCount != 0 || result.ErrorCount != 0 {
		t.Errorf("empty upload result = %+v", result)
	}
	if store.bulkCalls != 0 {
		t.Errorf("bulkCalls = %d, want 0", store.bulkCalls)
	}
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "failed_rows.json")

	result := &UploadResult{
		FailedRows: []RowError{
			{Row: 3, PropertyNumber: "20250101004", Status: "거래가능", Error: "insert rejected"},
		},
	}
	if err := result.WriteReport(path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var rows []RowError
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].PropertyNumber != "20250101004" {
		t.Errorf("report rows = %+v", rows)
	}
}

func TestWriteReportSkipsWhenNoFailures(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "failed_rows.json")

	result := &UploadResult{SuccessCount: 5}
	if err := result.WriteReport(path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("report file should not exist when there are no failures")
	}
}
