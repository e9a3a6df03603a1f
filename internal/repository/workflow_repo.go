package repository

import (
	"context"

	"github.com/dealerhub/outflow/internal/domain"
	"gorm.io/gorm"
)

// WorkflowRepository abstracts workflow-config persistence so the pipeline
// can be exercised without a live database.
type WorkflowRepository interface {
	Create(ctx context.Context, wf *domain.WorkflowConfig) error
	Update(ctx context.Context, wf *domain.WorkflowConfig) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.WorkflowConfig, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]domain.WorkflowConfig, error)
	ListActive(ctx context.Context, companyID, schemaType string) ([]domain.WorkflowConfig, error)
	UpdateStatus(ctx context.Context, id string, status domain.WorkflowStatus) error
}

// GormWorkflowRepository is the database-backed WorkflowRepository.
type GormWorkflowRepository struct {
	db *gorm.DB
}

// NewWorkflowRepository creates a new GormWorkflowRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *GormWorkflowRepository: repository instance bound to db.
func NewWorkflowRepository(db *gorm.DB) *GormWorkflowRepository {
	return &GormWorkflowRepository{db: db}
}

// Create inserts a new workflow config.
func (r *GormWorkflowRepository) Create(ctx context.Context, wf *domain.WorkflowConfig) error {
	return r.db.WithContext(ctx).Create(wf).Error
}

// Update saves all fields of an existing workflow config.
func (r *GormWorkflowRepository) Update(ctx context.Context, wf *domain.WorkflowConfig) error {
	return r.db.WithContext(ctx).Save(wf).Error
}

// Delete removes a workflow config by ID.
func (r *GormWorkflowRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.WorkflowConfig{}, "id = ?", id).Error
}

// GetByID retrieves a workflow config by its ID.
// Returns:
//   - *domain.WorkflowConfig: workflow if found.
//   - error: gorm.ErrRecordNotFound if no such workflow.
func (r *GormWorkflowRepository) GetByID(ctx context.Context, id string) (*domain.WorkflowConfig, error) {
	var wf domain.WorkflowConfig
	if err := r.db.WithContext(ctx).First(&wf, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &wf, nil
}

// ListByCompany retrieves a company's workflows with pagination.
func (r *GormWorkflowRepository) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]domain.WorkflowConfig, error) {
	var wfs []domain.WorkflowConfig
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Limit(limit).
		Offset(offset).
		Order("created_at DESC").
		Find(&wfs).Error; err != nil {
		return nil, err
	}
	return wfs, nil
}

// ListActive retrieves the active workflows matching a company and schema
// type. This is the per-mutation lookup the engine runs.
func (r *GormWorkflowRepository) ListActive(ctx context.Context, companyID, schemaType string) ([]domain.WorkflowConfig, error) {
	var wfs []domain.WorkflowConfig
	query := r.db.WithContext(ctx).
		Where("company_id = ? AND status = ?", companyID, domain.WorkflowStatusActive)
	if err := query.Find(&wfs).Error; err != nil {
		return nil, err
	}
	// schema_type lives inside the JSON sub-config; filter after load so the
	// query stays portable across sqlite and postgres.
	out := wfs[:0]
	for _, wf := range wfs {
		if wf.TargetSchema.SchemaType == schemaType {
			out = append(out, wf)
		}
	}
	return out, nil
}

// UpdateStatus sets the lifecycle state of a workflow.
func (r *GormWorkflowRepository) UpdateStatus(ctx context.Context, id string, status domain.WorkflowStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.WorkflowConfig{}).
		Where("id = ?", id).
		Update("status", status).Error
}
