package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Standard tracing fields, propagated through the call chain via context.
const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldCompanyID is the owning company of the workflow or record
	FieldCompanyID = "company_id"

	// FieldWorkflowID is the outbound workflow being executed
	FieldWorkflowID = "workflow_id"

	// FieldRecordID is the identifier of the mutated record
	FieldRecordID = "record_id"

	// FieldDeliveryID is the dispatch attempt ID (UUID)
	FieldDeliveryID = "delivery_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"
)

// Standard metric fields, attached per log entry for aggregation.
const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldSize is the data size in bytes
	FieldSize = "size"

	// FieldStatus is the operation status
	FieldStatus = "status"
)
