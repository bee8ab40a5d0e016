package importer

// Internal field names used between the tokenizer and the record builder.
// They match the storage column names except for the combined floors field,
// which is split into floor_current/floor_total during normalization.
const (
	fieldPropertyNumber   = "property_number"
	fieldPropertyName     = "property_name"
	fieldPropertyType     = "property_type"
	fieldTradeType        = "trade_type"
	fieldStatus           = "status"
	fieldAddress          = "address"
	fieldDong             = "dong"
	fieldHo               = "ho"
	fieldPrice            = "price"
	fieldSupplyAreaSqm    = "supply_area_sqm"
	fieldSupplyAreaPyeong = "supply_area_pyeong"
	fieldFloors           = "floors"
	fieldRegisterDate     = "register_date"
	fieldMoveInDate       = "move_in_date"
	fieldApprovalDate     = "approval_date"
	fieldCompletionDate   = "completion_date"
	fieldShared           = "shared"
	fieldHasPhoto         = "has_photo"
	fieldHasVideo         = "has_video"
	fieldHasAppearance    = "has_appearance"
	fieldOwnerName        = "owner_name"
	fieldOwnerID          = "owner_id"
	fieldOwnerContact     = "owner_contact"
	fieldContactRelation  = "contact_relation"
	fieldSpecialNotes     = "special_notes"
	fieldManagerMemo      = "manager_memo"
	fieldReRegisterReason = "re_register_reason"
)

// headerMapping maps the spreadsheet's Korean column headers (including the
// aliases that appear across different exports) to internal field names.
// Headers not in this table are ignored.
var headerMapping = map[string]string{
	"매물번호": fieldPropertyNumber,
	"매물명":  fieldPropertyName,
	"매물종류": fieldPropertyType,
	"매물유형": fieldPropertyType,
	"거래유형": fieldTradeType,
	"거래구분": fieldTradeType,
	"매물상태": fieldStatus,
	"상태":   fieldStatus,
	"소재지":  fieldAddress,
	"주소":   fieldAddress,
	"동":    fieldDong,
	"호":    fieldHo,
	"금액":   fieldPrice,
	"가격":   fieldPrice,
	"매물가격": fieldPrice,

	"공급면적(㎡)": fieldSupplyAreaSqm,
	"공급면적(평)": fieldSupplyAreaPyeong,
	"면적(㎡)":   fieldSupplyAreaSqm,
	"면적(평)":   fieldSupplyAreaPyeong,
	"공급/전용(㎡)": fieldSupplyAreaSqm,
	"공급/전용(평)": fieldSupplyAreaPyeong,

	"해당층/총층": fieldFloors,
	"층":      fieldFloors,

	"등록일":   fieldRegisterDate,
	"등록일자":  fieldRegisterDate,
	"입주가능일": fieldMoveInDate,
	"입주일":   fieldMoveInDate,
	"사용승인일": fieldApprovalDate,
	"준공일":   fieldCompletionDate,

	"공유여부": fieldShared,
	"공유":   fieldShared,
	"사진여부": fieldHasPhoto,
	"사진":   fieldHasPhoto,
	"영상여부": fieldHasVideo,
	"영상":   fieldHasVideo,
	"출연여부": fieldHasAppearance,

	"소유자명":   fieldOwnerName,
	"소유자":    fieldOwnerName,
	"소유자ID":  fieldOwnerID,
	"소유자연락처": fieldOwnerContact,
	"연락처":    fieldOwnerContact,
	"연락처관계":  fieldContactRelation,

	"특이사항":  fieldSpecialNotes,
	"담당자메모": fieldManagerMemo,
	"메모":    fieldManagerMemo,
	"재등록사유": fieldReRegisterReason,
}

// ExportColumn pairs a canonical Korean header with its internal field name.
type ExportColumn struct {
	Header string
	Field  string
}

// ExportColumns is the canonical column order for CSV export, the reverse of
// headerMapping with aliases collapsed.
var ExportColumns = []ExportColumn{
	{"매물번호", fieldPropertyNumber},
	{"매물명", fieldPropertyName},
	{"매물종류", fieldPropertyType},
	{"거래유형", fieldTradeType},
	{"매물상태", fieldStatus},
	{"소재지", fieldAddress},
	{"동", fieldDong},
	{"호", fieldHo},
	{"금액", fieldPrice},
	{"공급면적(㎡)", fieldSupplyAreaSqm},
	{"공급면적(평)", fieldSupplyAreaPyeong},
	{"해당층/총층", fieldFloors},
	{"등록일", fieldRegisterDate},
	{"입주가능일", fieldMoveInDate},
	{"사용승인일", fieldApprovalDate},
	{"준공일", fieldCompletionDate},
	{"공유여부", fieldShared},
	{"사진여부", fieldHasPhoto},
	{"영상여부", fieldHasVideo},
	{"출연여부", fieldHasAppearance},
	{"소유자명", fieldOwnerName},
	{"소유자ID", fieldOwnerID},
	{"소유자연락처", fieldOwnerContact},
	{"연락처관계", fieldContactRelation},
	{"특이사항", fieldSpecialNotes},
	{"담당자메모", fieldManagerMemo},
	{"재등록사유", fieldReRegisterReason},
}
