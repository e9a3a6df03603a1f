package domain

import "fmt"

// RecordSnapshot is the vehicle (or similar) document at the moment of
// mutation, as decoded from JSON. It is read-only input to the pipeline.
type RecordSnapshot map[string]interface{}

// identityFields are consulted in order when a snapshot needs a display
// identifier (delivery records, notification templates).
var identityFields = []string{"vehicle_stock_id", "id", "_id"}

// Identity returns a best-effort identifier for the snapshot, or "" if none
// of the known identifier fields are present.
func (r RecordSnapshot) Identity() string {
	for _, f := range identityFields {
		if v, ok := r[f]; ok && v != nil {
			return stringify(v)
		}
	}
	return ""
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// JSON numbers decode as float64; render integral values without a fraction
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", v)
	}
}
