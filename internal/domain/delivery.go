package domain

import "time"

// DeliveryRecord is one append-only row of dispatch evidence.
// Aggregate counters live in ExecutionStats; this table answers "what
// happened to delivery X" for diagnosis.
type DeliveryRecord struct {
	ID          string    `gorm:"type:text;primaryKey" json:"id"`
	WorkflowID  string    `gorm:"type:text;not null;index:idx_deliveries_workflow" json:"workflow_id"`
	RecordID    string    `gorm:"type:text;index:idx_deliveries_record" json:"record_id"`
	Success     bool      `json:"success"`
	StatusCode  int       `json:"status_code,omitempty"`
	Error       string    `gorm:"type:text" json:"error,omitempty"`
	ArchiveKey  string    `gorm:"type:text" json:"archive_key,omitempty"`
	DispatchedAt time.Time `json:"dispatched_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for DeliveryRecord.
func (DeliveryRecord) TableName() string {
	return "delivery_records"
}
