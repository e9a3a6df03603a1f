// Package service implements the vehicle outbound pipeline: trigger
// evaluation, field projection, key mapping, delivery dispatch, stats
// tracking, and notifications.
package service

import (
	"strings"

	"github.com/dealerhub/outflow/internal/domain"
)

// ArrayPolicy names the rule used when a path segment lands on an array.
// Resolution code consults the policy rather than hard-coding an index so a
// different rule (indexed, latest-by-timestamp) can be introduced without
// touching call sites.
type ArrayPolicy string

const (
	// ArrayPolicyFirst descends into element 0. This is the business rule
	// for all outbound workflows: nested selections always read the first
	// sub-document of the array.
	ArrayPolicyFirst ArrayPolicy = "first"
)

// pick applies the policy to an array value, returning the chosen element.
func (p ArrayPolicy) pick(list []interface{}) (interface{}, bool) {
	if len(list) == 0 {
		return nil, false
	}
	// Only ArrayPolicyFirst exists today.
	return list[0], true
}

// ResolvePath resolves a dotted field path against a record snapshot.
// Each segment descends one map level; when the current value is an array it
// is narrowed per the policy before descending. A missing segment, an empty
// array, or a non-map intermediate yields (nil, false). Never panics.
func ResolvePath(record domain.RecordSnapshot, path string, policy ArrayPolicy) (interface{}, bool) {
	if record == nil || path == "" {
		return nil, false
	}

	var current interface{} = map[string]interface{}(record)
	for _, segment := range strings.Split(path, ".") {
		if list, ok := current.([]interface{}); ok {
			elem, ok := policy.pick(list)
			if !ok {
				return nil, false
			}
			current = elem
		}

		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		v, ok := m[segment]
		if !ok {
			return nil, false
		}
		current = v
	}

	// Narrowing happens before descending, so a path ending on an array
	// field returns the array itself.
	return current, true
}
