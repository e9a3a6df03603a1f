package handler

import (
	"net/http"

	"github.com/dealerhub/outflow/internal/domain"
	"github.com/dealerhub/outflow/internal/schema"
	"github.com/dealerhub/outflow/internal/service"
	"github.com/gin-gonic/gin"
)

// RecordHandler ingests record mutations and feeds them to the pipeline.
type RecordHandler struct {
	engine *service.Engine
}

// NewRecordHandler creates a new record-ingest handler.
func NewRecordHandler(engine *service.Engine) *RecordHandler {
	return &RecordHandler{engine: engine}
}

// Ingest handles POST /api/v1/records/:schema_type.
// The body is the record snapshot at the moment of mutation. Matching
// workflow executions are queued and 202 returned immediately; dispatch
// outcomes never affect this response.
func (h *RecordHandler) Ingest(c *gin.Context) {
	schemaType := c.Param("schema_type")
	if schema.Lookup(schemaType) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown schema type: " + schemaType})
		return
	}

	companyID := c.Query("company_id")
	if companyID == "" {
		companyID = c.GetHeader("X-Company-ID")
	}
	if companyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company_id is required"})
		return
	}

	var record domain.RecordSnapshot
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record payload: " + err.Error()})
		return
	}

	queued, err := h.engine.HandleRecordChange(c.Request.Context(), companyID, schemaType, record)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to match workflows: " + err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"record_id": record.Identity(),
		"queued":    queued,
	})
}
