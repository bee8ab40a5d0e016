package models

import "time"

// ImportLog records one CSV import run
type ImportLog struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID      string    `gorm:"type:varchar(36);not null;uniqueIndex" json:"run_id"`
	SourcePath string    `gorm:"type:text;not null" json:"source_path"`
	TotalRows  int       `gorm:"type:int;not null" json:"total_rows"`
	Success    int       `gorm:"type:int;not null" json:"success"`
	Failed     int       `gorm:"type:int;not null" json:"failed"`
	Skipped    int       `gorm:"type:int;not null" json:"skipped"`
	ReportPath string    `gorm:"type:text" json:"report_path,omitempty"`
	StartedAt  time.Time `gorm:"type:datetime;not null" json:"started_at"`
	FinishedAt time.Time `gorm:"type:datetime;not null" json:"finished_at"`
	CreatedAt  time.Time `gorm:"type:datetime;not null;autoCreateTime;index" json:"created_at"`
}

// TableName specifies the table name
func (ImportLog) TableName() string {
	return "import_logs"
}
