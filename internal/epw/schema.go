package epw

import "fmt"

// Kind is the scalar type of a field.
type Kind int

const (
	Integer Kind = iota
	Float
	Text
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Text:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Field is one named, typed position in a schema.
type Field struct {
	Name string
	Kind Kind
}

// FieldSchema is an ordered list of fields. The position of a field is its
// column index.
type FieldSchema struct {
	fields []Field
	index  map[string]int
}

// NewFieldSchema builds a schema from fields in column order. It panics on a
// duplicate name since schemas are static tables.
func NewFieldSchema(fields ...Field) FieldSchema {
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		if _, dup := index[f.Name]; dup {
			panic(fmt.Sprintf("epw: duplicate field %q in schema", f.Name))
		}
		index[f.Name] = i
	}
	return FieldSchema{fields: fields, index: index}
}

// Len returns the number of fields.
func (s FieldSchema) Len() int { return len(s.fields) }

// At returns the field at column i.
func (s FieldSchema) At(i int) Field { return s.fields[i] }

// Index returns the column of name.
func (s FieldSchema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Fields returns a copy of the fields in column order.
func (s FieldSchema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Names returns the field names in column order.
func (s FieldSchema) Names() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}

// Layout describes how the tokens after a header's label are split.
type Layout int

const (
	// Positional binds tokens to metafields by position; leftovers form the
	// nested record set when the header declares fields.
	Positional Layout = iota
	// FreeText keeps everything after the first comma as one text metafield.
	FreeText
	// Opaque binds the metafields positionally and keeps the rest as one
	// unparsed string.
	Opaque
)

// HeaderSpec describes one of the eight header lines.
type HeaderSpec struct {
	Name       string // registry key, e.g. "ground_temperatures"
	Label      string // first token on the line, e.g. "GROUND TEMPERATURES"
	Layout     Layout
	Meta       FieldSchema
	Fields     FieldSchema // nested record fields, empty when HasFields is false
	HasFields  bool
	CountField string // metafield holding the nested record count, "" when unchecked
}

// Registry is the table of header specs in file order plus the data schema.
type Registry struct {
	headers []HeaderSpec
	byName  map[string]int
	data    FieldSchema
}

// Header names in file order.
const (
	Location               = "location"
	DesignConditions       = "design_conditions"
	TypicalExtremePeriods  = "typical_extreme_periods"
	GroundTemperatures     = "ground_temperatures"
	HolidaysDaylightSaving = "holidays_daylight_saving"
	Comments1              = "comments_1"
	Comments2              = "comments_2"
	DataPeriods            = "data_periods"
)

// DataSection is the scope name used for the hourly records.
const DataSection = "data"

// NewRegistry returns the standard EPW schema registry.
func NewRegistry() *Registry {
	headers := []HeaderSpec{
		{
			Name:   Location,
			Label:  "LOCATION",
			Layout: Positional,
			Meta: NewFieldSchema(
				Field{"city", Text},
				Field{"state_province_region", Text},
				Field{"country", Text},
				Field{"source", Text},
				Field{"wmo", Text},
				Field{"latitude", Float},
				Field{"longitude", Float},
				Field{"timezone", Float},
				Field{"elevation", Float},
			),
		},
		{
			Name:   DesignConditions,
			Label:  "DESIGN CONDITIONS",
			Layout: Opaque,
			Meta: NewFieldSchema(
				Field{"number_of_design_conditions", Integer},
				Field{"design_condition_source", Text},
				Field{"unused_field", Text},
			),
			Fields:    NewFieldSchema(Field{"design_conditions", Text}),
			HasFields: true,
		},
		{
			Name:   TypicalExtremePeriods,
			Label:  "TYPICAL/EXTREME PERIODS",
			Layout: Positional,
			Meta:   NewFieldSchema(Field{"number_of_typical_extreme_periods", Integer}),
			Fields: NewFieldSchema(
				Field{"period_name", Text},
				Field{"period_type", Text},
				Field{"start_day", Text},
				Field{"end_day", Text},
			),
			HasFields:  true,
			CountField: "number_of_typical_extreme_periods",
		},
		{
			Name:   GroundTemperatures,
			Label:  "GROUND TEMPERATURES",
			Layout: Positional,
			Meta:   NewFieldSchema(Field{"number_of_ground_temperature_depths", Integer}),
			Fields: NewFieldSchema(
				Field{"depth", Float},
				Field{"soil_conductivity", Float},
				Field{"soil_density", Float},
				Field{"soil_specific_heat", Float},
				Field{"january", Float},
				Field{"february", Float},
				Field{"march", Float},
				Field{"april", Float},
				Field{"may", Float},
				Field{"june", Float},
				Field{"july", Float},
				Field{"august", Float},
				Field{"september", Float},
				Field{"october", Float},
				Field{"november", Float},
				Field{"december", Float},
			),
			HasFields:  true,
			CountField: "number_of_ground_temperature_depths",
		},
		{
			Name:   HolidaysDaylightSaving,
			Label:  "HOLIDAYS/DAYLIGHT SAVINGS",
			Layout: Positional,
			Meta: NewFieldSchema(
				Field{"leapyear_observed", Text},
				Field{"daylight_saving_start_day", Text},
				Field{"daylight_saving_end_day", Text},
				Field{"number_of_holidays", Integer},
			),
			Fields: NewFieldSchema(
				Field{"holiday_name", Text},
				Field{"holiday_day", Text},
			),
			HasFields:  true,
			CountField: "number_of_holidays",
		},
		{
			Name:   Comments1,
			Label:  "COMMENTS 1",
			Layout: FreeText,
			Meta:   NewFieldSchema(Field{"comments_1", Text}),
		},
		{
			Name:   Comments2,
			Label:  "COMMENTS 2",
			Layout: FreeText,
			Meta:   NewFieldSchema(Field{"comments_2", Text}),
		},
		{
			Name:   DataPeriods,
			Label:  "DATA PERIODS",
			Layout: Positional,
			Meta: NewFieldSchema(
				Field{"number_of_data_periods", Integer},
				Field{"number_of_records_per_hour", Integer},
			),
			Fields: NewFieldSchema(
				Field{"data_period_name", Text},
				Field{"start_day_of_week", Text},
				Field{"start_day", Text},
				Field{"end_day", Text},
			),
			HasFields:  true,
			CountField: "number_of_data_periods",
		},
	}

	data := NewFieldSchema(
		Field{"year", Integer},
		Field{"month", Integer},
		Field{"day", Integer},
		Field{"hour", Integer},
		Field{"minute", Integer},
		Field{"data_source_and_uncertainty_flags", Text},
		Field{"dry_bulb_temperature", Float},
		Field{"dew_point_temperature", Float},
		Field{"relative_humidity", Float},
		Field{"atmospheric_station_pressure", Float},
		Field{"extraterrestrial_horizontal_radiation", Float},
		Field{"extraterrestrial_direct_normal_radiation", Float},
		Field{"horizontal_infrared_radiation_intensity", Float},
		Field{"global_horizontal_radiation", Float},
		Field{"direct_normal_radiation", Float},
		Field{"diffuse_horizontal_radiation", Float},
		Field{"global_horizontal_illuminance", Float},
		Field{"direct_normal_illuminance", Float},
		Field{"diffuse_horizontal_illuminance", Float},
		Field{"zenith_luminance", Float},
		Field{"wind_direction", Float},
		Field{"wind_speed", Float},
		Field{"total_sky_cover", Float},
		Field{"opaque_sky_cover", Float},
		Field{"visibility", Float},
		Field{"ceiling_height", Float},
		Field{"present_weather_observation", Integer},
		Field{"present_weather_codes", Text},
		Field{"precipitable_water", Float},
		Field{"aerosol_optical_depth", Float},
		Field{"snow_depth", Float},
		Field{"days_since_last_snowfall", Integer},
		Field{"albedo", Float},
		Field{"liquid_precipitation_depth", Float},
		Field{"liquid_precipitation_quantity", Float},
	)

	byName := make(map[string]int, len(headers))
	for i, h := range headers {
		byName[h.Name] = i
	}
	return &Registry{headers: headers, byName: byName, data: data}
}

// Headers returns the header specs in file order.
func (r *Registry) Headers() []HeaderSpec {
	out := make([]HeaderSpec, len(r.headers))
	copy(out, r.headers)
	return out
}

// Header returns the spec registered under name.
func (r *Registry) Header(name string) (HeaderSpec, error) {
	i, ok := r.byName[name]
	if !ok {
		return HeaderSpec{}, &FieldNotFoundError{Scope: "registry", Field: name}
	}
	return r.headers[i], nil
}

// Data returns the schema of the hourly data records.
func (r *Registry) Data() FieldSchema { return r.data }
