package service

import (
	"testing"

	"github.com/dealerhub/outflow/internal/domain"
)

func TestTriggerEvaluator(t *testing.T) {
	e := NewTriggerEvaluator()

	tests := []struct {
		name   string
		record domain.RecordSnapshot
		field  string
		op     domain.TriggerOperator
		value  string
		want   bool
	}{
		{
			name:   "equals matches string",
			record: domain.RecordSnapshot{"status": "pricing_ready"},
			field:  "status", op: domain.OpEquals, value: "pricing_ready",
			want: true,
		},
		{
			name:   "equals mismatches string",
			record: domain.RecordSnapshot{"status": "draft"},
			field:  "status", op: domain.OpEquals, value: "pricing_ready",
			want: false,
		},
		{
			name:   "equals is loose across number and string",
			record: domain.RecordSnapshot{"year": float64(2021)},
			field:  "year", op: domain.OpEquals, value: "2021",
			want: true,
		},
		{
			name:   "equals never matches missing field",
			record: domain.RecordSnapshot{},
			field:  "status", op: domain.OpEquals, value: "pricing_ready",
			want: false,
		},
		{
			name:   "not_equals true for missing field",
			record: domain.RecordSnapshot{},
			field:  "status", op: domain.OpNotEquals, value: "pricing_ready",
			want: true,
		},
		{
			name:   "contains substring",
			record: domain.RecordSnapshot{"make": "Toyota"},
			field:  "make", op: domain.OpContains, value: "oyo",
			want: true,
		},
		{
			name:   "contains false for missing field",
			record: domain.RecordSnapshot{},
			field:  "make", op: domain.OpContains, value: "oyo",
			want: false,
		},
		{
			name:   "starts_with",
			record: domain.RecordSnapshot{"make": "Toyota"},
			field:  "make", op: domain.OpStartsWith, value: "Toy",
			want: true,
		},
		{
			name:   "ends_with",
			record: domain.RecordSnapshot{"make": "Toyota"},
			field:  "make", op: domain.OpEndsWith, value: "ota",
			want: true,
		},
		{
			name:   "is_empty for missing nested path",
			record: domain.RecordSnapshot{},
			field:  "missing.path", op: domain.OpIsEmpty,
			want: true,
		},
		{
			name:   "is_not_empty false for missing nested path",
			record: domain.RecordSnapshot{},
			field:  "missing.path", op: domain.OpIsNotEmpty,
			want: false,
		},
		{
			name:   "is_empty for nil value",
			record: domain.RecordSnapshot{"variant": nil},
			field:  "variant", op: domain.OpIsEmpty,
			want: true,
		},
		{
			name:   "is_empty for empty string",
			record: domain.RecordSnapshot{"variant": ""},
			field:  "variant", op: domain.OpIsEmpty,
			want: true,
		},
		{
			name:   "is_not_empty for zero number",
			record: domain.RecordSnapshot{"price": float64(0)},
			field:  "price", op: domain.OpIsNotEmpty,
			want: true,
		},
		{
			name:   "greater_than numeric",
			record: domain.RecordSnapshot{"retail_price": float64(25000)},
			field:  "retail_price", op: domain.OpGreaterThan, value: "20000",
			want: true,
		},
		{
			name:   "greater_than coerces numeric string",
			record: domain.RecordSnapshot{"retail_price": "25000"},
			field:  "retail_price", op: domain.OpGreaterThan, value: "20000",
			want: true,
		},
		{
			name:   "greater_than false when coercion fails",
			record: domain.RecordSnapshot{"retail_price": "not a number"},
			field:  "retail_price", op: domain.OpGreaterThan, value: "20000",
			want: false,
		},
		{
			name:   "less_than_or_equal boundary",
			record: domain.RecordSnapshot{"year": float64(2020)},
			field:  "year", op: domain.OpLessThanOrEqual, value: "2020",
			want: true,
		},
		{
			name:   "greater_than_or_equal boundary",
			record: domain.RecordSnapshot{"year": float64(2020)},
			field:  "year", op: domain.OpGreaterThanOrEqual, value: "2020",
			want: true,
		},
		{
			name:   "is_true strict",
			record: domain.RecordSnapshot{"is_sold": true},
			field:  "is_sold", op: domain.OpIsTrue,
			want: true,
		},
		{
			name:   "is_true rejects truthy string",
			record: domain.RecordSnapshot{"is_sold": "true"},
			field:  "is_sold", op: domain.OpIsTrue,
			want: false,
		},
		{
			name:   "is_false strict",
			record: domain.RecordSnapshot{"is_sold": false},
			field:  "is_sold", op: domain.OpIsFalse,
			want: true,
		},
		{
			name:   "before date",
			record: domain.RecordSnapshot{"purchase_date": "2024-01-15"},
			field:  "purchase_date", op: domain.OpBefore, value: "2024-06-01",
			want: true,
		},
		{
			name:   "after date",
			record: domain.RecordSnapshot{"purchase_date": "2024-06-02"},
			field:  "purchase_date", op: domain.OpAfter, value: "2024-06-01",
			want: true,
		},
		{
			name:   "before false when date unparseable",
			record: domain.RecordSnapshot{"purchase_date": "soon"},
			field:  "purchase_date", op: domain.OpBefore, value: "2024-06-01",
			want: false,
		},
		{
			name:   "nested trigger field resolves through first element",
			record: domain.RecordSnapshot{"vehicle_odometer": []interface{}{map[string]interface{}{"reading": float64(75000)}}},
			field:  "vehicle_odometer.reading", op: domain.OpGreaterThan, value: "50000",
			want: true,
		},
		{
			name:   "unknown operator is false",
			record: domain.RecordSnapshot{"status": "x"},
			field:  "status", op: domain.TriggerOperator("matches"), value: "x",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Evaluate(tt.record, tt.field, tt.op, tt.value)
			if got != tt.want {
				t.Errorf("Evaluate(%s %s %q) = %v, want %v", tt.field, tt.op, tt.value, got, tt.want)
			}
		})
	}
}
