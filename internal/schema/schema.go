// Package schema describes exportable record schemas and flattens them into
// addressable field descriptors for the workflow builder UI.
package schema

import "fmt"

// FieldType classifies a schema field for the builder UI.
type FieldType string

const (
	TypeString   FieldType = "string"
	TypeNumber   FieldType = "number"
	TypeBoolean  FieldType = "boolean"
	TypeDate     FieldType = "date"
	TypeArray    FieldType = "array"
	TypeObjectID FieldType = "objectid"
)

// FieldSpec declares one field of a schema description.
// An array field whose Elem is non-empty is an array of structured
// sub-documents; an array field with no Elem holds scalar/mixed values.
type FieldSpec struct {
	Name     string
	Type     FieldType
	Required bool
	Elem     []FieldSpec
}

// Description is a static, versioned schema description for one record type.
type Description struct {
	SchemaType string
	Version    string
	Fields     []FieldSpec
}

// FieldDescriptor is one addressable field produced by ExtractFields.
// Nested descriptors carry a dotted FieldName and reference their parent.
type FieldDescriptor struct {
	FieldName   string    `json:"field_name"`
	FieldType   FieldType `json:"field_type"`
	IsArray     bool      `json:"is_array"`
	IsNested    bool      `json:"is_nested"`
	ParentField string    `json:"parent_field,omitempty"`
	IsRequired  bool      `json:"is_required"`
}

// ExtractFields flattens a schema description into addressable field
// descriptors. Array-of-sub-document fields produce one descriptor for the
// parent plus one dotted-path descriptor per sub-field, expanded one level
// deep. Deterministic and side-effect free; invoked at configuration time
// only.
func ExtractFields(desc *Description) []FieldDescriptor {
	if desc == nil {
		return nil
	}
	out := make([]FieldDescriptor, 0, len(desc.Fields))
	for _, f := range desc.Fields {
		if f.Type == TypeArray {
			out = append(out, FieldDescriptor{
				FieldName:  f.Name,
				FieldType:  TypeArray,
				IsArray:    true,
				IsRequired: f.Required,
			})
			for _, sub := range f.Elem {
				out = append(out, FieldDescriptor{
					FieldName:   fmt.Sprintf("%s.%s", f.Name, sub.Name),
					FieldType:   sub.Type,
					IsNested:    true,
					ParentField: f.Name,
					IsRequired:  sub.Required,
				})
			}
			continue
		}
		out = append(out, FieldDescriptor{
			FieldName:  f.Name,
			FieldType:  f.Type,
			IsRequired: f.Required,
		})
	}
	return out
}
