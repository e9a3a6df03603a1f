package repository

import (
	"context"

	"github.com/dealerhub/outflow/internal/domain"
	"gorm.io/gorm"
)

// DeliveryRepository persists per-dispatch evidence rows.
type DeliveryRepository interface {
	Create(ctx context.Context, rec *domain.DeliveryRecord) error
	ListByWorkflow(ctx context.Context, workflowID string, limit, offset int) ([]domain.DeliveryRecord, error)
}

// GormDeliveryRepository is the database-backed DeliveryRepository.
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository creates a new GormDeliveryRepository.
func NewDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// Create appends a delivery record.
func (r *GormDeliveryRepository) Create(ctx context.Context, rec *domain.DeliveryRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// ListByWorkflow retrieves recent deliveries for a workflow, newest first.
func (r *GormDeliveryRepository) ListByWorkflow(ctx context.Context, workflowID string, limit, offset int) ([]domain.DeliveryRecord, error) {
	var recs []domain.DeliveryRecord
	if err := r.db.WithContext(ctx).
		Where("workflow_id = ?", workflowID).
		Limit(limit).
		Offset(offset).
		Order("dispatched_at DESC").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}
