package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dealerhub/outflow/internal/domain"
	"github.com/dealerhub/outflow/internal/repository"
	"github.com/dealerhub/outflow/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkflowHandler handles workflow-config CRUD and related endpoints.
type WorkflowHandler struct {
	workflows  repository.WorkflowRepository
	stats      repository.StatsRepository
	deliveries repository.DeliveryRepository
	engine     *service.Engine
}

// NewWorkflowHandler creates a new workflow handler.
// Parameters:
//   - workflows, stats, deliveries: persistence collaborators.
//   - engine: pipeline engine, used for the test-run endpoint.
// Returns:
//   - *WorkflowHandler: initialized handler.
func NewWorkflowHandler(
	workflows repository.WorkflowRepository,
	stats repository.StatsRepository,
	deliveries repository.DeliveryRepository,
	engine *service.Engine,
) *WorkflowHandler {
	return &WorkflowHandler{
		workflows:  workflows,
		stats:      stats,
		deliveries: deliveries,
		engine:     engine,
	}
}

// workflowRequest is the create/update body for a workflow config.
type workflowRequest struct {
	CompanyID    string                    `json:"company_id" binding:"required"`
	Name         string                    `json:"name" binding:"required"`
	Status       domain.WorkflowStatus     `json:"status"`
	TargetSchema domain.TargetSchemaConfig `json:"target_schema"`
	ExportFields domain.ExportFieldsConfig `json:"export_fields"`
	DataMapping  domain.DataMappingConfig  `json:"data_mapping"`
	Auth         domain.AuthConfig         `json:"auth"`
	Notification domain.NotificationConfig `json:"notification"`
}

// Create handles POST /api/v1/workflows.
// A zeroed execution-stats row is created alongside the workflow.
func (h *WorkflowHandler) Create(c *gin.Context) {
	var req workflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workflow payload: " + err.Error()})
		return
	}

	wf := &domain.WorkflowConfig{
		ID:           uuid.New().String(),
		CompanyID:    req.CompanyID,
		Name:         req.Name,
		Status:       req.Status,
		TargetSchema: req.TargetSchema,
		ExportFields: req.ExportFields,
		DataMapping:  req.DataMapping,
		Auth:         req.Auth,
		Notification: req.Notification,
	}
	if wf.Status == "" {
		wf.Status = domain.WorkflowStatusInactive
	}
	wf.Auth.HTTPMethod = http.MethodPost

	ctx := c.Request.Context()
	if err := h.workflows.Create(ctx, wf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create workflow: " + err.Error()})
		return
	}
	if err := h.stats.Create(ctx, wf.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create execution stats: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, wf)
}

// List handles GET /api/v1/workflows?company_id=...
func (h *WorkflowHandler) List(c *gin.Context) {
	companyID := c.Query("company_id")
	if companyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company_id is required"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	wfs, err := h.workflows.ListByCompany(c.Request.Context(), companyID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list workflows: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"workflows": wfs})
}

// Get handles GET /api/v1/workflows/:id.
func (h *WorkflowHandler) Get(c *gin.Context) {
	wf, ok := h.loadWorkflow(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, wf)
}

// Update handles PUT /api/v1/workflows/:id.
// Each sub-config is independently editable; the full config is replaced.
func (h *WorkflowHandler) Update(c *gin.Context) {
	wf, ok := h.loadWorkflow(c)
	if !ok {
		return
	}

	var req workflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workflow payload: " + err.Error()})
		return
	}

	wf.CompanyID = req.CompanyID
	wf.Name = req.Name
	if req.Status != "" {
		wf.Status = req.Status
	}
	wf.TargetSchema = req.TargetSchema
	wf.ExportFields = req.ExportFields
	wf.DataMapping = req.DataMapping
	wf.Auth = req.Auth
	wf.Auth.HTTPMethod = http.MethodPost
	wf.Notification = req.Notification

	if err := h.workflows.Update(c.Request.Context(), wf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update workflow: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, wf)
}

// Delete handles DELETE /api/v1/workflows/:id.
// Deleting the workflow also removes its stats row; recreating the workflow
// is the only way counters reset.
func (h *WorkflowHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	ctx := c.Request.Context()
	if err := h.workflows.Delete(ctx, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete workflow: " + err.Error()})
		return
	}
	if err := h.stats.Delete(ctx, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete execution stats: " + err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// statusRequest is the body for PUT /api/v1/workflows/:id/status.
type statusRequest struct {
	Status domain.WorkflowStatus `json:"status" binding:"required"`
}

// UpdateStatus handles PUT /api/v1/workflows/:id/status.
func (h *WorkflowHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status payload: " + err.Error()})
		return
	}
	if req.Status != domain.WorkflowStatusActive && req.Status != domain.WorkflowStatusInactive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be active or inactive"})
		return
	}

	if err := h.workflows.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

// GetStats handles GET /api/v1/workflows/:id/stats.
func (h *WorkflowHandler) GetStats(c *gin.Context) {
	stats, err := h.stats.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Execution stats not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load execution stats: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListDeliveries handles GET /api/v1/workflows/:id/deliveries.
func (h *WorkflowHandler) ListDeliveries(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	recs, err := h.deliveries.ListByWorkflow(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list deliveries: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deliveries": recs})
}

// TestRun handles POST /api/v1/workflows/:id/test.
// Runs the pipeline synchronously for a sample record without touching
// stats, delivery records, or notifications.
func (h *WorkflowHandler) TestRun(c *gin.Context) {
	wf, ok := h.loadWorkflow(c)
	if !ok {
		return
	}

	var record domain.RecordSnapshot
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sample record: " + err.Error()})
		return
	}

	triggered, payload, result := h.engine.TestRun(c.Request.Context(), wf, record)
	c.JSON(http.StatusOK, gin.H{
		"triggered": triggered,
		"payload":   payload,
		"result":    result,
	})
}

// loadWorkflow fetches the :id workflow, writing the error response itself.
func (h *WorkflowHandler) loadWorkflow(c *gin.Context) (*domain.WorkflowConfig, bool) {
	wf, err := h.workflows.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Workflow not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load workflow: " + err.Error()})
		return nil, false
	}
	return wf, true
}
