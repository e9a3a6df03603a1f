package domain

import "time"

// ExecutionStatus is the outcome classification of a dispatch attempt.
type ExecutionStatus string

const (
	ExecutionStatusSuccess ExecutionStatus = "success"
	ExecutionStatusFailed  ExecutionStatus = "failed"
)

// ExecutionStats holds per-workflow dispatch counters and the most recent outcome.
// A zeroed row is created alongside the workflow and updated exactly once per
// completed dispatch attempt. Invariant after every update:
// TotalExecutions == SuccessfulExecutions + FailedExecutions.
type ExecutionStats struct {
	ID                   uint            `gorm:"primaryKey;autoIncrement" json:"-"`
	WorkflowID           string          `gorm:"type:text;not null;uniqueIndex:idx_exec_stats_workflow" json:"workflow_id"`
	TotalExecutions      int64           `gorm:"default:0" json:"total_executions"`
	SuccessfulExecutions int64           `gorm:"default:0" json:"successful_executions"`
	FailedExecutions     int64           `gorm:"default:0" json:"failed_executions"`
	LastExecution        *time.Time      `json:"last_execution"`
	LastExecutionStatus  ExecutionStatus `gorm:"type:text" json:"last_execution_status,omitempty"`
	LastExecutionError   string          `gorm:"type:text" json:"last_execution_error,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// TableName returns the database table name for ExecutionStats.
func (ExecutionStats) TableName() string {
	return "execution_stats"
}
