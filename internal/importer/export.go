package importer

import (
	"fmt"

	"listing-hub/internal/models"
)

// ExportHeader returns the canonical Korean header row.
func ExportHeader() []string {
	headers := make([]string, len(ExportColumns))
	for i, col := range ExportColumns {
		headers[i] = col.Header
	}
	return headers
}

// ExportRow renders one listing in ExportColumns order. Values round-trip
// through the header mapping: a file produced here imports back cleanly.
func ExportRow(l *models.Listing) []string {
	row := make([]string, len(ExportColumns))
	for i, col := range ExportColumns {
		row[i] = exportField(l, col.Field)
	}
	return row
}

func exportField(l *models.Listing, field string) string {
	switch field {
	case fieldPropertyNumber:
		return l.PropertyNumber
	case fieldPropertyName:
		return l.PropertyName
	case fieldPropertyType:
		return l.PropertyType
	case fieldTradeType:
		return l.TradeType
	case fieldStatus:
		return string(l.Status)
	case fieldAddress:
		return l.Address
	case fieldDong:
		return l.Dong
	case fieldHo:
		return l.Ho
	case fieldPrice:
		return l.Price
	case fieldSupplyAreaSqm:
		return l.SupplyAreaSqm
	case fieldSupplyAreaPyeong:
		return l.SupplyAreaPyeong
	case fieldFloors:
		return formatFloors(l.FloorCurrent, l.FloorTotal)
	case fieldRegisterDate:
		return l.RegisterDate
	case fieldMoveInDate:
		return derefString(l.MoveInDate)
	case fieldApprovalDate:
		return derefString(l.ApprovalDate)
	case fieldCompletionDate:
		return derefString(l.CompletionDate)
	case fieldShared:
		return formatBool(l.Shared)
	case fieldHasPhoto:
		return formatBool(l.HasPhoto)
	case fieldHasVideo:
		return formatBool(l.HasVideo)
	case fieldHasAppearance:
		return formatBool(l.HasAppearance)
	case fieldOwnerName:
		return l.OwnerName
	case fieldOwnerID:
		return l.OwnerID
	case fieldOwnerContact:
		return l.OwnerContact
	case fieldContactRelation:
		return l.ContactRelation
	case fieldSpecialNotes:
		return l.SpecialNotes
	case fieldManagerMemo:
		return l.ManagerMemo
	case fieldReRegisterReason:
		return l.ReRegisterReason
	}
	return ""
}

func formatFloors(current, total *int) string {
	switch {
	case current != nil && total != nil:
		return fmt.Sprintf("%d/%d", *current, *total)
	case current != nil:
		return fmt.Sprintf("%d", *current)
	case total != nil:
		return fmt.Sprintf("/%d", *total)
	}
	return ""
}

func formatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
