package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// WorkflowStatus represents the lifecycle state of an outbound workflow.
// Values include WorkflowStatusActive and WorkflowStatusInactive.
type WorkflowStatus string

const (
	WorkflowStatusActive   WorkflowStatus = "active"
	WorkflowStatusInactive WorkflowStatus = "inactive"
)

// TriggerOperator identifies a comparison applied by the trigger evaluator.
type TriggerOperator string

const (
	OpEquals             TriggerOperator = "equals"
	OpNotEquals          TriggerOperator = "not_equals"
	OpContains           TriggerOperator = "contains"
	OpStartsWith         TriggerOperator = "starts_with"
	OpEndsWith           TriggerOperator = "ends_with"
	OpIsEmpty            TriggerOperator = "is_empty"
	OpIsNotEmpty         TriggerOperator = "is_not_empty"
	OpGreaterThan        TriggerOperator = "greater_than"
	OpLessThan           TriggerOperator = "less_than"
	OpGreaterThanOrEqual TriggerOperator = "greater_than_or_equal"
	OpLessThanOrEqual    TriggerOperator = "less_than_or_equal"
	OpIsTrue             TriggerOperator = "is_true"
	OpIsFalse            TriggerOperator = "is_false"
	OpBefore             TriggerOperator = "before"
	OpAfter              TriggerOperator = "after"
)

// AuthType identifies how the dispatcher authenticates against the external endpoint.
type AuthType string

const (
	AuthTypeJWT      AuthType = "jwt"
	AuthTypeStandard AuthType = "standard"
	AuthTypeStatic   AuthType = "static"
)

// StringArray is a custom type for storing string arrays as JSON in the database.
type StringArray []string

// Value implements the driver.Valuer interface for database serialization.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan StringArray")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, a)
}

// TargetSchemaConfig holds the trigger condition for one workflow.
// A workflow fires when record[TriggerField] TriggerOperator TriggerValue holds.
type TargetSchemaConfig struct {
	SchemaType      string          `json:"schema_type"`
	TriggerField    string          `json:"trigger_field"`
	TriggerOperator TriggerOperator `json:"trigger_operator"`
	TriggerValue    string          `json:"trigger_value"`
}

// Value implements the driver.Valuer interface for database serialization.
func (c TargetSchemaConfig) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (c *TargetSchemaConfig) Scan(value interface{}) error {
	return scanJSON(value, c, "TargetSchemaConfig")
}

// ExportFieldsConfig is the ordered set of field paths a workflow exports.
// Paths may be dotted for nested array sub-document fields.
type ExportFieldsConfig struct {
	SelectedFields []string `json:"selected_fields"`
}

// Value implements the driver.Valuer interface for database serialization.
func (c ExportFieldsConfig) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (c *ExportFieldsConfig) Scan(value interface{}) error {
	return scanJSON(value, c, "ExportFieldsConfig")
}

// FieldMappingRow is one persisted builder-UI mapping row.
//
// The column naming is inherited from the inbound-mapping UI: for outbound
// workflows TargetField is the internal (projected) key and SourceField is
// the external key it is renamed to. OutboundRules is the only place that
// inversion is applied.
type FieldMappingRow struct {
	SourceField string `json:"source_field"`
	TargetField string `json:"target_field"`
	DataType    string `json:"data_type"`
	IsRequired  bool   `json:"is_required"`
}

// MappingRule is a direction-neutral rename rule consumed by the field mapper.
type MappingRule struct {
	InternalKey string `json:"internal_key"`
	ExternalKey string `json:"external_key"`
}

// DataMappingConfig holds the persisted mapping rows for one workflow.
type DataMappingConfig struct {
	Mappings []FieldMappingRow `json:"mappings"`
}

// OutboundRules converts persisted rows into rename rules for outbound
// delivery: target_field (internal) -> source_field (external).
func (c DataMappingConfig) OutboundRules() []MappingRule {
	rules := make([]MappingRule, 0, len(c.Mappings))
	for _, m := range c.Mappings {
		if m.TargetField == "" || m.SourceField == "" {
			continue
		}
		rules = append(rules, MappingRule{
			InternalKey: m.TargetField,
			ExternalKey: m.SourceField,
		})
	}
	return rules
}

// Value implements the driver.Valuer interface for database serialization.
func (c DataMappingConfig) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (c *DataMappingConfig) Scan(value interface{}) error {
	return scanJSON(value, c, "DataMappingConfig")
}

// Credentials holds endpoint authentication material.
type Credentials struct {
	Token     string `json:"token,omitempty"`
	APIKey    string `json:"api_key,omitempty"`
	APISecret string `json:"api_secret,omitempty"`
}

// AuthConfig holds the delivery endpoint and its authentication settings.
// HTTPMethod is fixed to POST; it is persisted for UI display only.
type AuthConfig struct {
	APIEndpoint          string      `json:"api_endpoint"`
	HTTPMethod           string      `json:"http_method"`
	EnableAuthentication bool        `json:"enable_authentication"`
	AuthType             AuthType    `json:"auth_type"`
	Credentials          Credentials `json:"credentials"`
}

// Value implements the driver.Valuer interface for database serialization.
func (c AuthConfig) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (c *AuthConfig) Scan(value interface{}) error {
	return scanJSON(value, c, "AuthConfig")
}

// NotificationConfig holds the success and error email templates for one workflow.
// Empty subjects/bodies fall back to built-in templates.
type NotificationConfig struct {
	Recipients     StringArray `json:"recipients"`
	SuccessSubject string      `json:"success_subject"`
	SuccessBody    string      `json:"success_body"`
	ErrorSubject   string      `json:"error_subject"`
	ErrorBody      string      `json:"error_body"`
}

// Value implements the driver.Valuer interface for database serialization.
func (c NotificationConfig) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (c *NotificationConfig) Scan(value interface{}) error {
	return scanJSON(value, c, "NotificationConfig")
}

// WorkflowConfig represents one configured vehicle outbound workflow.
// It owns four independently editable sub-configs persisted as JSON columns.
type WorkflowConfig struct {
	ID           string             `gorm:"type:text;primaryKey" json:"id"`
	CompanyID    string             `gorm:"type:text;not null;index:idx_workflows_company" json:"company_id"`
	Name         string             `gorm:"type:text;not null" json:"name"`
	Status       WorkflowStatus     `gorm:"type:text;index:idx_workflows_status;default:inactive" json:"status"`
	TargetSchema TargetSchemaConfig `gorm:"type:text" json:"target_schema"`
	ExportFields ExportFieldsConfig `gorm:"type:text" json:"export_fields"`
	DataMapping  DataMappingConfig  `gorm:"type:text" json:"data_mapping"`
	Auth         AuthConfig         `gorm:"type:text" json:"auth"`
	Notification NotificationConfig `gorm:"type:text" json:"notification"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// TableName returns the database table name for WorkflowConfig.
func (WorkflowConfig) TableName() string {
	return "workflow_configs"
}

// IsActive reports whether the workflow participates in record-change matching.
func (w *WorkflowConfig) IsActive() bool {
	return w.Status == WorkflowStatusActive
}

// scanJSON decodes a JSON database value into dst.
func scanJSON(value interface{}, dst interface{}, typeName string) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan " + typeName)
		}
		bytes = []byte(str)
	}
	if len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, dst)
}
