package models

import "time"

// DeleteLog represents a record of physically purged listings
type DeleteLog struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyNumber string    `gorm:"type:varchar(32);not null;index" json:"property_number"`
	PropertyName   string    `gorm:"type:text" json:"property_name"`
	Address        string    `gorm:"type:text" json:"address"`
	SoftDeletedAt  time.Time `gorm:"type:datetime" json:"soft_deleted_at"`
	DeletedAt      time.Time `gorm:"type:datetime;not null;autoCreateTime;index" json:"deleted_at"`
	Reason         string    `gorm:"type:varchar(50);not null" json:"reason"`
}

// TableName specifies the table name
func (DeleteLog) TableName() string {
	return "delete_logs"
}

// DeleteReason constants
const (
	DeleteReasonExpired   = "expired_retention"
	DeleteReasonDuplicate = "duplicate"
	DeleteReasonManual    = "manual_deletion"
	DeleteReasonDataClean = "data_cleanup"
)
