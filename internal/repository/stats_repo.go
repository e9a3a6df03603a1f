package repository

import (
	"context"
	"time"

	"github.com/dealerhub/outflow/internal/domain"
	"gorm.io/gorm"
)

// StatsRepository abstracts execution-stats persistence. RecordOutcome must
// be called exactly once per completed dispatch attempt.
type StatsRepository interface {
	Create(ctx context.Context, workflowID string) error
	Get(ctx context.Context, workflowID string) (*domain.ExecutionStats, error)
	RecordOutcome(ctx context.Context, workflowID string, success bool, errorMessage string) error
	Delete(ctx context.Context, workflowID string) error
}

// GormStatsRepository is the database-backed StatsRepository.
type GormStatsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new GormStatsRepository.
func NewStatsRepository(db *gorm.DB) *GormStatsRepository {
	return &GormStatsRepository{db: db}
}

// Create inserts a zeroed stats row for a workflow.
func (r *GormStatsRepository) Create(ctx context.Context, workflowID string) error {
	return r.db.WithContext(ctx).Create(&domain.ExecutionStats{WorkflowID: workflowID}).Error
}

// Get retrieves the stats row for a workflow.
func (r *GormStatsRepository) Get(ctx context.Context, workflowID string) (*domain.ExecutionStats, error) {
	var stats domain.ExecutionStats
	if err := r.db.WithContext(ctx).First(&stats, "workflow_id = ?", workflowID).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// RecordOutcome applies one dispatch outcome in a single UPDATE using column
// arithmetic, so concurrent outcomes for the same workflow cannot lose an
// increment. Total always equals successful + failed afterwards.
func (r *GormStatsRepository) RecordOutcome(ctx context.Context, workflowID string, success bool, errorMessage string) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"total_executions": gorm.Expr("total_executions + 1"),
		"last_execution":   now,
	}
	if success {
		updates["successful_executions"] = gorm.Expr("successful_executions + 1")
		updates["last_execution_status"] = domain.ExecutionStatusSuccess
		updates["last_execution_error"] = ""
	} else {
		updates["failed_executions"] = gorm.Expr("failed_executions + 1")
		updates["last_execution_status"] = domain.ExecutionStatusFailed
		updates["last_execution_error"] = errorMessage
	}
	return r.db.WithContext(ctx).
		Model(&domain.ExecutionStats{}).
		Where("workflow_id = ?", workflowID).
		Updates(updates).Error
}

// Delete removes the stats row for a workflow. Deleting and recreating the
// workflow is the only way counters reset.
func (r *GormStatsRepository) Delete(ctx context.Context, workflowID string) error {
	return r.db.WithContext(ctx).Delete(&domain.ExecutionStats{}, "workflow_id = ?", workflowID).Error
}
