package handler

import (
	"net/http"

	"github.com/dealerhub/outflow/internal/schema"
	"github.com/gin-gonic/gin"
)

// SchemaHandler serves flattened field descriptors to the workflow builder UI.
type SchemaHandler struct{}

// NewSchemaHandler creates a new schema handler.
func NewSchemaHandler() *SchemaHandler {
	return &SchemaHandler{}
}

// ListTypes handles GET /api/v1/schemas.
func (h *SchemaHandler) ListTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"schema_types": schema.Types(),
	})
}

// GetFields handles GET /api/v1/schemas/:type/fields.
// Returns the addressable field descriptors for the schema type, with
// array-of-sub-document fields expanded into dotted-path children.
func (h *SchemaHandler) GetFields(c *gin.Context) {
	schemaType := c.Param("type")

	desc := schema.Lookup(schemaType)
	if desc == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Unknown schema type: " + schemaType,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"schema_type": desc.SchemaType,
		"version":     desc.Version,
		"fields":      schema.ExtractFields(desc),
	})
}
