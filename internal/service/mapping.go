package service

import "github.com/dealerhub/outflow/internal/domain"

// MapFields renames projected keys per the rename rules: a key matching a
// rule's InternalKey is emitted under ExternalKey, all other keys pass
// through unchanged. Every input key appears in the output exactly once;
// when two input keys collide onto the same output key the later one in the
// rule's internal-key iteration wins (last write wins).
//
// Rules come from DataMappingConfig.OutboundRules, which is the single place
// the persisted source_field/target_field naming inversion is applied.
func MapFields(projected map[string]interface{}, rules []domain.MappingRule) map[string]interface{} {
	if len(rules) == 0 {
		out := make(map[string]interface{}, len(projected))
		for k, v := range projected {
			out[k] = v
		}
		return out
	}

	renames := make(map[string]string, len(rules))
	for _, r := range rules {
		if r.InternalKey == "" || r.ExternalKey == "" {
			continue
		}
		renames[r.InternalKey] = r.ExternalKey
	}

	out := make(map[string]interface{}, len(projected))
	for k, v := range projected {
		if external, ok := renames[k]; ok {
			out[external] = v
			continue
		}
		out[k] = v
	}
	return out
}
