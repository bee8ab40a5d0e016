package models

import "time"

// Notification is a queued Slack message waiting for delivery
type Notification struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyNumber string     `gorm:"type:varchar(32);index" json:"property_number,omitempty"`
	Event          string     `gorm:"type:varchar(30);not null" json:"event"`
	Text           string     `gorm:"type:text;not null" json:"text"`
	Payload        string     `gorm:"type:text" json:"payload,omitempty"` // full JSON body, blocks included
	Status         string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Attempts       int        `gorm:"type:int;not null;default:0" json:"attempts"`
	LastError      string     `gorm:"type:text" json:"last_error,omitempty"`
	NextRetryAt    *time.Time `gorm:"type:datetime;index" json:"next_retry_at,omitempty"`
	SentAt         *time.Time `gorm:"type:datetime" json:"sent_at,omitempty"`
	CreatedAt      time.Time  `gorm:"type:datetime;not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"type:datetime;not null;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (Notification) TableName() string {
	return "notifications"
}

// Notification status constants
const (
	NotificationStatusPending = "pending"
	NotificationStatusSent    = "sent"
	NotificationStatusFailed  = "failed"
)

// Notification event constants
const (
	NotificationEventCreated  = "listing_created"
	NotificationEventUpdated  = "listing_updated"
	NotificationEventDeleted  = "listing_deleted"
	NotificationEventRestored = "listing_restored"
	NotificationEventImport   = "import_completed"
)
