package models

import "time"

// ListingChange represents a detected field change on a listing update
type ListingChange struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyNumber string    `gorm:"type:varchar(32);not null;index" json:"property_number"`
	ChangeType     string    `gorm:"type:varchar(50);not null" json:"change_type"` // status_changed, price_changed, etc.
	OldValue       string    `gorm:"type:text" json:"old_value,omitempty"`
	NewValue       string    `gorm:"type:text" json:"new_value,omitempty"`
	DetectedAt     time.Time `gorm:"type:datetime;not null;autoCreateTime;index" json:"detected_at"`
}

// TableName specifies the table name
func (ListingChange) TableName() string {
	return "listing_changes"
}

// ChangeType constants
const (
	ChangeTypeStatus   = "status_changed"
	ChangeTypePrice    = "price_changed"
	ChangeTypeName     = "name_changed"
	ChangeTypeAddress  = "address_changed"
	ChangeTypeMemo     = "memo_changed"
	ChangeTypeNew      = "new_listing"
	ChangeTypeDeleted  = "listing_deleted"
	ChangeTypeRestored = "listing_restored"
)
