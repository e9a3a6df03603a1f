package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dealerhub/outflow/internal/domain"
)

// TriggerEvaluator decides whether a workflow's trigger condition holds for
// a record snapshot. Evaluation never raises: unresolvable fields, unknown
// operators, and failed coercions all evaluate to false (silent skip).
type TriggerEvaluator struct {
	policy ArrayPolicy
}

// NewTriggerEvaluator creates a TriggerEvaluator using the standard array policy.
func NewTriggerEvaluator() *TriggerEvaluator {
	return &TriggerEvaluator{policy: ArrayPolicyFirst}
}

// Evaluate resolves fieldPath against record and applies the operator with
// triggerValue as the configured comparison operand.
func (e *TriggerEvaluator) Evaluate(record domain.RecordSnapshot, fieldPath string, op domain.TriggerOperator, triggerValue string) bool {
	value, found := ResolvePath(record, fieldPath, e.policy)

	switch op {
	case domain.OpEquals:
		return found && value != nil && looseString(value) == triggerValue
	case domain.OpNotEquals:
		if !found || value == nil {
			return true
		}
		return looseString(value) != triggerValue
	case domain.OpContains:
		return found && value != nil && strings.Contains(looseString(value), triggerValue)
	case domain.OpStartsWith:
		return found && value != nil && strings.HasPrefix(looseString(value), triggerValue)
	case domain.OpEndsWith:
		return found && value != nil && strings.HasSuffix(looseString(value), triggerValue)
	case domain.OpIsEmpty:
		return isEmptyValue(value, found)
	case domain.OpIsNotEmpty:
		return !isEmptyValue(value, found)
	case domain.OpGreaterThan, domain.OpLessThan, domain.OpGreaterThanOrEqual, domain.OpLessThanOrEqual:
		return compareNumeric(value, found, op, triggerValue)
	case domain.OpIsTrue:
		b, ok := value.(bool)
		return found && ok && b
	case domain.OpIsFalse:
		b, ok := value.(bool)
		return found && ok && !b
	case domain.OpBefore, domain.OpAfter:
		return compareDates(value, found, op, triggerValue)
	default:
		return false
	}
}

// isEmptyValue reports whether a resolved value counts as empty: missing,
// nil, or the empty string.
func isEmptyValue(value interface{}, found bool) bool {
	if !found || value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

// compareNumeric coerces both sides to numbers; any failed coercion is false.
func compareNumeric(value interface{}, found bool, op domain.TriggerOperator, triggerValue string) bool {
	if !found {
		return false
	}
	left, ok := looseNumber(value)
	if !ok {
		return false
	}
	right, err := strconv.ParseFloat(strings.TrimSpace(triggerValue), 64)
	if err != nil {
		return false
	}
	switch op {
	case domain.OpGreaterThan:
		return left > right
	case domain.OpLessThan:
		return left < right
	case domain.OpGreaterThanOrEqual:
		return left >= right
	case domain.OpLessThanOrEqual:
		return left <= right
	}
	return false
}

// compareDates coerces both sides to dates; any failed coercion is false.
func compareDates(value interface{}, found bool, op domain.TriggerOperator, triggerValue string) bool {
	if !found {
		return false
	}
	left, ok := looseTime(value)
	if !ok {
		return false
	}
	right, ok := parseTime(triggerValue)
	if !ok {
		return false
	}
	if op == domain.OpBefore {
		return left.Before(right)
	}
	return left.After(right)
}

// looseString renders a value the way loose comparison expects: integral
// floats without a fraction, booleans as true/false.
func looseString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// looseNumber coerces a value to float64: numbers directly, numeric strings
// via parsing.
func looseNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// timeLayouts are the accepted string date formats, tried in order.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// looseTime coerces a value to a time: time.Time directly, strings via the
// accepted layouts, numbers as unix milliseconds.
func looseTime(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		return parseTime(v)
	case float64:
		return time.UnixMilli(int64(v)).UTC(), true
	default:
		return time.Time{}, false
	}
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
