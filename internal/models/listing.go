package models

import "time"

type Listing struct {
	// 식별 정보
	PropertyNumber string `gorm:"type:varchar(32);primaryKey" json:"property_number"`
	PropertyName   string `gorm:"type:text" json:"property_name,omitempty"`

	// 분류
	PropertyType string        `gorm:"type:varchar(50);index" json:"property_type,omitempty"`
	TradeType    string        `gorm:"type:varchar(50);index" json:"trade_type,omitempty"`
	Status       ListingStatus `gorm:"type:varchar(20);not null;default:'거래가능';index" json:"status"`

	// 위치
	Address string `gorm:"type:text" json:"address,omitempty"`
	Dong    string `gorm:"type:varchar(50)" json:"dong,omitempty"`
	Ho      string `gorm:"type:varchar(50)" json:"ho,omitempty"`

	// 금액・면적 (원본 표기를 그대로 보존)
	Price            string `gorm:"type:varchar(200)" json:"price,omitempty"`
	SupplyAreaSqm    string `gorm:"type:varchar(100)" json:"supply_area_sqm,omitempty"`
	SupplyAreaPyeong string `gorm:"type:varchar(100)" json:"supply_area_pyeong,omitempty"`

	// 층수
	FloorCurrent *int `gorm:"type:int" json:"floor_current,omitempty"`
	FloorTotal   *int `gorm:"type:int" json:"floor_total,omitempty"`

	// 날짜 (정규화된 YYYY-MM-DD 문자열)
	RegisterDate   string  `gorm:"type:varchar(10);not null;index" json:"register_date"`
	MoveInDate     *string `gorm:"type:varchar(10)" json:"move_in_date,omitempty"`
	ApprovalDate   *string `gorm:"type:varchar(10)" json:"approval_date,omitempty"`
	CompletionDate *string `gorm:"type:varchar(10)" json:"completion_date,omitempty"`

	// 플래그
	Shared        bool `gorm:"type:boolean;not null;default:false" json:"shared"`
	HasPhoto      bool `gorm:"type:boolean;not null;default:false" json:"has_photo"`
	HasVideo      bool `gorm:"type:boolean;not null;default:false" json:"has_video"`
	HasAppearance bool `gorm:"type:boolean;not null;default:false" json:"has_appearance"`

	// 소유자・메모
	OwnerName        string `gorm:"type:varchar(100)" json:"owner_name,omitempty"`
	OwnerID          string `gorm:"type:varchar(100)" json:"owner_id,omitempty"`
	OwnerContact     string `gorm:"type:varchar(100)" json:"owner_contact,omitempty"`
	ContactRelation  string `gorm:"type:varchar(100)" json:"contact_relation,omitempty"`
	SpecialNotes     string `gorm:"type:text" json:"special_notes,omitempty"`
	ManagerMemo      string `gorm:"type:text" json:"manager_memo,omitempty"`
	ReRegisterReason string `gorm:"type:text" json:"re_register_reason,omitempty"`

	// 상태 관리 (논리 삭제)
	IsDeleted bool       `gorm:"type:boolean;not null;default:false;index" json:"is_deleted"`
	DeletedAt *time.Time `gorm:"type:datetime" json:"deleted_at,omitempty"`

	// 타임스탬프
	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime;index:idx_listings_created_at,sort:desc" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;autoUpdateTime" json:"updated_at"`
}

// ListingStatus 는 매물 상태
type ListingStatus string

const (
	StatusAvailable ListingStatus = "거래가능"
	StatusOnHold    ListingStatus = "거래보류"
	StatusCompleted ListingStatus = "거래완료"
	StatusWithdrawn ListingStatus = "매물철회"
)

// TableName 은 테이블명을 명시적으로 지정
func (Listing) TableName() string {
	return "listings"
}

// IsActive 는 매물이 삭제되지 않은 상태인지
func (l *Listing) IsActive() bool {
	return !l.IsDeleted
}

// MarkDeleted 는 매물을 논리 삭제
func (l *Listing) MarkDeleted() {
	l.IsDeleted = true
	now := time.Now()
	l.DeletedAt = &now
}

// Restore 는 논리 삭제를 취소
func (l *Listing) Restore() {
	l.IsDeleted = false
	l.DeletedAt = nil
}
