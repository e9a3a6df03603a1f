package api

import (
	"github.com/dealerhub/outflow/internal/api/handler"
	"github.com/dealerhub/outflow/internal/api/middleware"
	"github.com/dealerhub/outflow/internal/repository"
	"github.com/dealerhub/outflow/internal/service"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	workflows repository.WorkflowRepository,
	stats repository.StatsRepository,
	deliveries repository.DeliveryRepository,
	engine *service.Engine,
	mode string,
	cors middleware.CORSConfig,
) *gin.Engine {
	switch mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cors))

	healthHandler := handler.NewHealthHandler()
	schemaHandler := handler.NewSchemaHandler()
	workflowHandler := handler.NewWorkflowHandler(workflows, stats, deliveries, engine)
	recordHandler := handler.NewRecordHandler(engine)

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Schema descriptors for the builder UI
		v1.GET("/schemas", schemaHandler.ListTypes)
		v1.GET("/schemas/:type/fields", schemaHandler.GetFields)

		// Workflow configs
		v1.POST("/workflows", workflowHandler.Create)
		v1.GET("/workflows", workflowHandler.List)
		v1.GET("/workflows/:id", workflowHandler.Get)
		v1.PUT("/workflows/:id", workflowHandler.Update)
		v1.DELETE("/workflows/:id", workflowHandler.Delete)
		v1.PUT("/workflows/:id/status", workflowHandler.UpdateStatus)
		v1.GET("/workflows/:id/stats", workflowHandler.GetStats)
		v1.GET("/workflows/:id/deliveries", workflowHandler.ListDeliveries)
		v1.POST("/workflows/:id/test", workflowHandler.TestRun)

		// Record-mutation ingest
		v1.POST("/records/:schema_type", recordHandler.Ingest)
	}

	return r
}
