package schema

import "testing"

func TestExtractFields(t *testing.T) {
	desc := &Description{
		SchemaType: "vehicle",
		Fields: []FieldSpec{
			{Name: "make", Type: TypeString, Required: true},
			{Name: "year", Type: TypeNumber},
			{Name: "tags", Type: TypeArray},
			{Name: "vehicle_odometer", Type: TypeArray, Elem: []FieldSpec{
				{Name: "reading", Type: TypeNumber, Required: true},
				{Name: "reading_date", Type: TypeDate},
			}},
		},
	}

	fields := ExtractFields(desc)

	// make, year, tags, vehicle_odometer + 2 nested children
	if len(fields) != 6 {
		t.Fatalf("expected 6 descriptors, got %d", len(fields))
	}

	byName := make(map[string]FieldDescriptor, len(fields))
	for _, f := range fields {
		byName[f.FieldName] = f
	}

	parent, ok := byName["vehicle_odometer"]
	if !ok {
		t.Fatal("expected parent descriptor for vehicle_odometer")
	}
	if !parent.IsArray || parent.IsNested {
		t.Errorf("parent descriptor flags wrong: is_array=%v is_nested=%v", parent.IsArray, parent.IsNested)
	}

	nested, ok := byName["vehicle_odometer.reading"]
	if !ok {
		t.Fatal("expected nested descriptor for vehicle_odometer.reading")
	}
	if !nested.IsNested || nested.IsArray {
		t.Errorf("nested descriptor flags wrong: is_nested=%v is_array=%v", nested.IsNested, nested.IsArray)
	}
	if nested.ParentField != "vehicle_odometer" {
		t.Errorf("expected parent_field vehicle_odometer, got %q", nested.ParentField)
	}
	if nested.FieldType != TypeNumber {
		t.Errorf("expected number type, got %q", nested.FieldType)
	}
	if !nested.IsRequired {
		t.Error("expected vehicle_odometer.reading to be required")
	}

	// Scalar array yields a single non-nested descriptor
	tags, ok := byName["tags"]
	if !ok {
		t.Fatal("expected descriptor for tags")
	}
	if !tags.IsArray || tags.IsNested {
		t.Errorf("scalar array flags wrong: is_array=%v is_nested=%v", tags.IsArray, tags.IsNested)
	}
}

func TestExtractFieldsEmptyElem(t *testing.T) {
	desc := &Description{
		Fields: []FieldSpec{
			{Name: "attachments", Type: TypeArray, Elem: []FieldSpec{}},
		},
	}

	fields := ExtractFields(desc)
	if len(fields) != 1 {
		t.Fatalf("expected only the parent descriptor, got %d", len(fields))
	}
	if fields[0].FieldName != "attachments" || !fields[0].IsArray {
		t.Errorf("unexpected descriptor: %+v", fields[0])
	}
}

func TestExtractFieldsNestedParentsEmitted(t *testing.T) {
	fields := ExtractFields(vehicleDescription)

	parents := make(map[string]bool)
	for _, f := range fields {
		if !f.IsNested {
			parents[f.FieldName] = true
		}
	}
	for _, f := range fields {
		if f.IsNested && !parents[f.ParentField] {
			t.Errorf("nested field %q references unemitted parent %q", f.FieldName, f.ParentField)
		}
	}
}

func TestLookup(t *testing.T) {
	if Lookup("vehicle") == nil {
		t.Error("expected vehicle schema to be registered")
	}
	if Lookup("nope") != nil {
		t.Error("expected nil for unknown schema type")
	}
}
