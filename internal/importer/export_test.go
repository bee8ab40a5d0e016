package importer

import (
	"testing"

	"listing-hub/internal/models"
)

func TestExportHeaderMapsBackToFields(t *testing.T) {
	for _, h := range ExportHeader() {
		if _, ok := headerMapping[h]; !ok {
			t.Errorf("export header %q is not an accepted import header", h)
		}
	}
}

func TestExportRowRoundTrip(t *testing.T) {
	current, total := 15, 20
	moveIn := "2024-01-05"
	l := &models.Listing{
		PropertyNumber: "20231209001",
		PropertyName:   "한강뷰 아파트",
		PropertyType:   "아파트",
		TradeType:      "매매",
		Status:         models.StatusOnHold,
		Address:        "서울시 용산구 한강로",
		Dong:           "101",
		Ho:             "1503",
		Price:          "12억",
		FloorCurrent:   &current,
		FloorTotal:     &total,
		RegisterDate:   "2023-12-09",
		MoveInDate:     &moveIn,
		Shared:         true,
		HasPhoto:       true,
		OwnerName:      "김철수",
	}

	row := ExportRow(l)
	if len(row) != len(ExportColumns) {
		t.Fatalf("row has %d cells, want %d", len(row), len(ExportColumns))
	}

	byHeader := make(map[string]string, len(row))
	for i, col := range ExportColumns {
		byHeader[col.Header] = row[i]
	}

	if byHeader["매물번호"] != "20231209001" {
		t.Errorf("매물번호 = %s", byHeader["매물번호"])
	}
	if byHeader["매물상태"] != "거래보류" {
		t.Errorf("매물상태 = %s", byHeader["매물상태"])
	}
	if byHeader["해당층/총층"] != "15/20" {
		t.Errorf("해당층/총층 = %s", byHeader["해당층/총층"])
	}
	if byHeader["등록일"] != "2023-12-09" {
		t.Errorf("등록일 = %s", byHeader["등록일"])
	}
	if byHeader["입주가능일"] != "2024-01-05" {
		t.Errorf("입주가능일 = %s", byHeader["입주가능일"])
	}
	if byHeader["공유여부"] != "true" || byHeader["영상여부"] != "false" {
		t.Errorf("flags = %s/%s", byHeader["공유여부"], byHeader["영상여부"])
	}
	if byHeader["사용승인일"] != "" {
		t.Errorf("nil date should export empty, got %q", byHeader["사용승인일"])
	}

	// The exported values re-import to the same record
	if NormalizeBool(byHeader["공유여부"]) != true {
		t.Error("exported bool does not re-import")
	}
	if got, _ := NormalizeDate(byHeader["등록일"], DateClamp); got != l.RegisterDate {
		t.Errorf("exported date does not re-import: %s", got)
	}
	cur, tot := ExtractFloors(byHeader["해당층/총층"])
	if cur == nil || *cur != 15 || tot == nil || *tot != 20 {
		t.Error("exported floors do not re-import")
	}
}

func TestFormatFloorsPartial(t *testing.T) {
	n := 3
	if got := formatFloors(&n, nil); got != "3" {
		t.Errorf("current only = %q", got)
	}
	if got := formatFloors(nil, &n); got != "/3" {
		t.Errorf("total only = %q", got)
	}
	if got := formatFloors(nil, nil); got != "" {
		t.Errorf("neither = %q", got)
	}
}
