package service

import "github.com/dealerhub/outflow/internal/domain"

// fallbackFields are projected when a workflow has no export fields
// configured, so partially-configured workflows still produce diagnosable
// output instead of an empty payload.
var fallbackFields = []string{"vehicle_stock_id", "make", "model"}

// FieldProjector reduces a record snapshot to the configured field subset.
type FieldProjector struct {
	policy ArrayPolicy
}

// NewFieldProjector creates a FieldProjector using the standard array policy.
func NewFieldProjector() *FieldProjector {
	return &FieldProjector{policy: ArrayPolicyFirst}
}

// Project resolves each selected path against the record and inserts the
// value under the literal dotted key (nested selections are not re-nested).
// Paths that fail to resolve are omitted from the output. An empty path list
// falls back to a small set of identifying fields. Projection is idempotent
// and never mutates the record.
func (p *FieldProjector) Project(record domain.RecordSnapshot, selectedFieldPaths []string) map[string]interface{} {
	paths := selectedFieldPaths
	if len(paths) == 0 {
		paths = fallbackFields
	}

	out := make(map[string]interface{}, len(paths))
	for _, path := range paths {
		if value, ok := ResolvePath(record, path, p.policy); ok {
			out[path] = value
		}
	}
	return out
}
