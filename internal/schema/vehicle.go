package schema

// vehicleDescription is the built-in schema description for vehicle records.
// It mirrors the document shape produced by the vehicle CRUD handlers.
var vehicleDescription = &Description{
	SchemaType: "vehicle",
	Version:    "1",
	Fields: []FieldSpec{
		{Name: "vehicle_stock_id", Type: TypeNumber, Required: true},
		{Name: "company_id", Type: TypeObjectID, Required: true},
		{Name: "make", Type: TypeString, Required: true},
		{Name: "model", Type: TypeString, Required: true},
		{Name: "variant", Type: TypeString},
		{Name: "body_type", Type: TypeString},
		{Name: "year", Type: TypeNumber},
		{Name: "vin", Type: TypeString},
		{Name: "registration_number", Type: TypeString},
		{Name: "colour", Type: TypeString},
		{Name: "status", Type: TypeString, Required: true},
		{Name: "is_sold", Type: TypeBoolean},
		{Name: "retail_price", Type: TypeNumber},
		{Name: "purchase_date", Type: TypeDate},
		{Name: "created_at", Type: TypeDate},
		{Name: "tags", Type: TypeArray},
		{Name: "vehicle_odometer", Type: TypeArray, Elem: []FieldSpec{
			{Name: "reading", Type: TypeNumber, Required: true},
			{Name: "reading_date", Type: TypeDate},
			{Name: "source", Type: TypeString},
		}},
		{Name: "vehicle_pricing", Type: TypeArray, Elem: []FieldSpec{
			{Name: "asking_price", Type: TypeNumber},
			{Name: "trade_price", Type: TypeNumber},
			{Name: "valuation_date", Type: TypeDate},
		}},
		{Name: "vehicle_images", Type: TypeArray, Elem: []FieldSpec{
			{Name: "url", Type: TypeString},
			{Name: "position", Type: TypeNumber},
		}},
	},
}

// registry maps schema_type to its current description.
var registry = map[string]*Description{
	"vehicle": vehicleDescription,
}

// Lookup returns the description registered for schemaType, or nil.
func Lookup(schemaType string) *Description {
	return registry[schemaType]
}

// Types returns the registered schema type names.
func Types() []string {
	types := make([]string, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	return types
}
