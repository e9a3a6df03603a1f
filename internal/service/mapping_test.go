package service

import (
	"reflect"
	"testing"

	"github.com/dealerhub/outflow/internal/domain"
)

func TestMapFieldsRenameAndPassthrough(t *testing.T) {
	projected := map[string]interface{}{
		"vehicle_stock_id": float64(100022),
		"make":             "Alfa Romeo",
	}
	rules := []domain.MappingRule{
		{InternalKey: "vehicle_stock_id", ExternalKey: "vehicle_id"},
	}

	got := MapFields(projected, rules)

	want := map[string]interface{}{
		"vehicle_id": float64(100022),
		"make":       "Alfa Romeo",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MapFields = %v, want %v", got, want)
	}
}

func TestMapFieldsTotalFunction(t *testing.T) {
	// Every input key appears exactly once, renamed or unchanged.
	projected := map[string]interface{}{
		"a": 1, "b": 2, "c": 3,
	}
	rules := []domain.MappingRule{
		{InternalKey: "a", ExternalKey: "x"},
		{InternalKey: "nonexistent", ExternalKey: "y"},
	}

	got := MapFields(projected, rules)

	if len(got) != len(projected) {
		t.Fatalf("expected %d output keys, got %d: %v", len(projected), len(got), got)
	}
	for _, k := range []string{"x", "b", "c"} {
		if _, ok := got[k]; !ok {
			t.Errorf("expected output key %q, got %v", k, got)
		}
	}
	if _, ok := got["y"]; ok {
		t.Error("rule for absent input key must not create an output key")
	}
}

func TestMapFieldsCollisionLastWriteWins(t *testing.T) {
	// Renaming "a" onto the pre-existing key "b": one key survives and the
	// collision is last-write-wins, not an error.
	projected := map[string]interface{}{
		"a": "from-a",
		"b": "from-b",
	}
	rules := []domain.MappingRule{
		{InternalKey: "a", ExternalKey: "b"},
	}

	got := MapFields(projected, rules)

	if len(got) != 1 {
		t.Fatalf("expected collision to collapse to one key, got %v", got)
	}
	if _, ok := got["b"]; !ok {
		t.Fatalf("expected surviving key b, got %v", got)
	}
}

func TestMapFieldsNoRules(t *testing.T) {
	projected := map[string]interface{}{"make": "Toyota"}

	got := MapFields(projected, nil)

	if !reflect.DeepEqual(got, projected) {
		t.Errorf("expected passthrough copy, got %v", got)
	}

	// Output is a copy, not the same map.
	got["make"] = "Honda"
	if projected["make"] != "Toyota" {
		t.Error("MapFields must not alias the input map")
	}
}

func TestOutboundRulesInversion(t *testing.T) {
	// Persisted rows keep the inbound UI's column naming: target_field is
	// the internal key, source_field the external one.
	cfg := domain.DataMappingConfig{
		Mappings: []domain.FieldMappingRow{
			{SourceField: "vehicle_id", TargetField: "vehicle_stock_id", DataType: "number"},
			{SourceField: "", TargetField: "ignored"},
		},
	}

	rules := cfg.OutboundRules()

	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	if rules[0].InternalKey != "vehicle_stock_id" || rules[0].ExternalKey != "vehicle_id" {
		t.Errorf("unexpected rule: %+v", rules[0])
	}
}
