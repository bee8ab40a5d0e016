package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"listing-hub/internal/models"
)

func TestTransformBasicRow(t *testing.T) {
	csv := strings.Join([]string{
		"매물번호,매물명,매물종류,거래유형,매물상태,소재지,동,호,금액,해당층/총층,등록일,입주가능일,공유여부,사진여부,소유자명,담당자메모",
		`20231209001,한강뷰 아파트,아파트,매매,거래가능,"서울시 용산구, 한강로",101,1503,"12억",15/20,23-12-09,2024.01.05,true,1,김철수,조용한 매물`,
	}, "\n")

	p := New(newMemStore(), Options{})
	result, err := p.Transform(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}

	if result.TotalRows != 1 || result.Skipped != 0 || len(result.Listings) != 1 {
		t.Fatalf("result = total %d skipped %d listings %d", result.TotalRows, result.Skipped, len(result.Listings))
	}

	l := result.Listings[0]
	if l.PropertyNumber != "20231209001" {
		t.Errorf("PropertyNumber = %s", l.PropertyNumber)
	}
	if l.PropertyName != "한강뷰 아파트" {
		t.Errorf("PropertyName = %s", l.PropertyName)
	}
	if l.Address != "서울시 용산구, 한강로" {
		t.Errorf("Address = %s", l.Address)
	}
	if l.RegisterDate != "2023-12-09" {
		t.Errorf("RegisterDate = %s, want 2023-12-09", l.RegisterDate)
	}
	if l.MoveInDate == nil || *l.MoveInDate != "2024-01-05" {
		t.Errorf("MoveInDate = %v, want 2024-01-05", l.MoveInDate)
	}
	if l.FloorCurrent == nil || *l.FloorCurrent != 15 {
		t.Errorf("FloorCurrent = %v, want 15", l.FloorCurrent)
	}
	if l.FloorTotal == nil || *l.FloorTotal != 20 {
		t.Errorf("FloorTotal = %v, want 20", l.FloorTotal)
	}
	if l.Status != models.StatusAvailable {
		t.Errorf("Status = %s", l.Status)
	}
	if !l.Shared || !l.HasPhoto {
		t.Errorf("flags: shared=%v has_photo=%v, want both true", l.Shared, l.HasPhoto)
	}
	if l.IsDeleted {
		t.Error("imported row must not be soft-deleted")
	}
}

func TestTransformStripsBOMAndDetectsSemicolon(t *testing.T) {
	csv := "\ufeff매물번호;매물명;매물상태\n20240101001;테스트 매물;확인필요\n"

	p := New(newMemStore(), Options{})
	result, err := p.Transform(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Listings) != 1 {
		t.Fatalf("listings = %d, want 1", len(result.Listings))
	}
	l := result.Listings[0]
	if l.PropertyNumber != "20240101001" {
		t.Errorf("BOM not stripped: PropertyNumber = %q", l.PropertyNumber)
	}
	if l.Status != models.StatusAvailable {
		t.Errorf("확인필요 should normalize to 거래가능, got %s", l.Status)
	}
}

func TestTransformSkipsMalformedRows(t *testing.T) {
	var b strings.Builder
	b.WriteString("매물번호,매물명,매물상태\n")
	for i := 1; i <= 200; i++ {
		if i == 77 {
			// Field count mismatch
			b.WriteString("20240101077,깨진 행\n")
			continue
		}
		fmt.Fprintf(&b, "20240101%03d,매물 %d,거래가능\n", i, i)
	}

	p := New(newMemStore(), Options{})
	result, err := p.Transform(strings.NewReader(b.String()))
	if err != nil {
		t.Fatal(err)
	}

	if result.TotalRows != 200 {
		t.Errorf("TotalRows = %d, want 200", result.TotalRows)
	}
	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", result.Skipped)
	}
	if len(result.Listings) != 199 {
		t.Errorf("listings = %d, want 199", len(result.Listings))
	}
}

func TestTransformGeneratesMissingNumbers(t *testing.T) {
	csv := strings.Join([]string{
		"매물번호,매물명,등록일",
		"20250101001,첫 매물,2025-01-01",
		",번호 없는 매물 A,2025-01-01",
		",번호 없는 매물 B,2025-01-01",
		",다른 날짜 매물,2025-01-02",
	}, "\n")

	p := New(newMemStore(), Options{})
	result, err := p.Transform(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Listings) != 4 {
		t.Fatalf("listings = %d, want 4", len(result.Listings))
	}
	// The generator counts per date independently of explicit numbers.
	if got := result.Listings[1].PropertyNumber; got != "20250101001" {
		t.Errorf("generated number A = %s, want 20250101001", got)
	}
	if got := result.Listings[2].PropertyNumber; got != "20250101002" {
		t.Errorf("generated number B = %s, want 20250101002", got)
	}
	if got := result.Listings[3].PropertyNumber; got != "20250102001" {
		t.Errorf("other-date number = %s, want 20250102001", got)
	}
}

func TestTransformReseedsFromStore(t *testing.T) {
	store := newMemStore()
	store.put(models.Listing{PropertyNumber: "20250101002", RegisterDate: "2025-01-01"})

	csv := strings.Join([]string{
		"매물번호,매물명,등록일",
		",신규 매물,2025-01-01",
	}, "\n")

	p := New(store, Options{ReseedFromStore: true})
	result, err := p.Transform(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}

	if got := result.Listings[0].PropertyNumber; got != "20250101003" {
		t.Errorf("reseeded number = %s, want 20250101003", got)
	}
}

func TestTransformMissingRegisterDateUsesToday(t *testing.T) {
	csv := "매물번호,매물명,등록일\n20250101001,날짜 없는 매물,\n"

	p := New(newMemStore(), Options{})
	result, err := p.Transform(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}

	want := time.Now().Format("2006-01-02")
	if got := result.Listings[0].RegisterDate; got != want {
		t.Errorf("RegisterDate = %s, want today %s", got, want)
	}
}

func TestTransformRejectPolicyDropsRow(t *testing.T) {
	csv := strings.Join([]string{
		"매물번호,매물명,등록일",
		"20230509001,정상 매물,2023-05-09",
		"20230599001,깨진 날짜 매물,2023-05-99",
	}, "\n")

	p := New(newMemStore(), Options{DatePolicy: DateReject})
	result, err := p.Transform(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Listings) != 1 || result.Skipped != 1 {
		t.Errorf("listings = %d skipped = %d, want 1/1", len(result.Listings), result.Skipped)
	}
}

func TestTransformHeaderAliases(t *testing.T) {
	csv := "매물번호,매물유형,거래구분,상태,주소,가격,메모\n20240101001,오피스텔,전세,거래완료,서울시 마포구,3억,빠른 입주 가능\n"

	p := New(newMemStore(), Options{})
	result, err := p.Transform(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}

	l := result.Listings[0]
	if l.PropertyType != "오피스텔" || l.TradeType != "전세" {
		t.Errorf("type/trade = %s/%s", l.PropertyType, l.TradeType)
	}
	if l.Status != models.StatusCompleted {
		t.Errorf("Status = %s, want 거래완료", l.Status)
	}
	if l.Address != "서울시 마포구" || l.Price != "3억" || l.ManagerMemo != "빠른 입주 가능" {
		t.Errorf("aliased fields: %s / %s / %s", l.Address, l.Price, l.ManagerMemo)
	}
}

func TestTransformEmptyFile(t *testing.T) {
	p := New(newMemStore(), Options{})
	if _, err := p.Transform(strings.NewReader("")); err == nil {
		t.Fatal("empty file should be an error")
	}
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	sourcePath := filepath.Join(dir, "listings.csv")
	reportPath := filepath.Join(dir, "failed_rows.json")

	var b strings.Builder
	b.WriteString("\ufeff매물번호,매물명,매물상태,등록일\n")
	for i := 1; i <= 120; i++ {
		fmt.Fprintf(&b, "20250101%03d,매물 %d,거래가능,2025-01-01\n", i, i)
	}
	if err := os.WriteFile(sourcePath, []byte(b.String()), 0644); err != nil {
		t.Fatal(err)
	}

	store := newMemStore("20250101042")
	p := New(store, Options{
		SourcePath:       sourcePath,
		BatchSize:        50,
		BatchDelay:       time.Millisecond,
		ErrorSampleLimit: 10,
		ReportPath:       reportPath,
	})

	transformed, uploaded, err := p.Run()
	if err != nil {
		t.Fatal(err)
	}

	if transformed.TotalRows != 120 {
		t.Errorf("TotalRows = %d, want 120", transformed.TotalRows)
	}
	if uploaded.SuccessCount != 119 || uploaded.ErrorCount != 1 {
		t.Errorf("uploaded = %d/%d, want 119 success, 1 error", uploaded.SuccessCount, uploaded.ErrorCount)
	}
	if len(store.listings) != 119 {
		t.Errorf("store has %d listings, want 119", len(store.listings))
	}
	if _, err := os.Stat(reportPath); err != nil {
		t.Errorf("failure report not written: %v", err)
	}
}
