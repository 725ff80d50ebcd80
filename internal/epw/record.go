package epw

// RowPolicy decides what happens to a token run shorter than a whole number of
// records.
type RowPolicy int

const (
	// PadShortRows right-pads the tokens with empty strings. Some published
	// files drop trailing empty fields; this keeps them readable.
	PadShortRows RowPolicy = iota
	// RejectShortRows fails with ErrSchemaMismatch.
	RejectShortRows
)

func (p RowPolicy) String() string {
	if p == RejectShortRows {
		return "reject"
	}
	return "pad"
}

// Record is one row of values in schema order.
type Record []Value

// RecordSet is a column-major table of records sharing one schema.
// It is immutable once built.
type RecordSet struct {
	scope   string
	schema  FieldSchema
	columns [][]Value
	rows    int
}

// Column is a read-only view of one field across all records.
type Column struct {
	field  Field
	values []Value
}

// ParseRecords groups tokens into consecutive runs of schema.Len() values and
// converts each column with its declared kind. scope names the section in
// errors. A token count that is not a whole multiple of the width is padded or
// rejected according to policy.
func ParseRecords(scope string, tokens []string, schema FieldSchema, policy RowPolicy) (*RecordSet, error) {
	width := schema.Len()
	if width == 0 {
		if len(tokens) != 0 {
			return nil, &SchemaMismatchError{Section: scope, Tokens: len(tokens), Width: 0, Reason: "schema has no fields"}
		}
		return &RecordSet{scope: scope, schema: schema}, nil
	}

	if rem := len(tokens) % width; rem != 0 {
		if policy == RejectShortRows {
			return nil, &SchemaMismatchError{Section: scope, Tokens: len(tokens), Width: width, Reason: "token count is not a multiple of the record width"}
		}
		tokens = padTokens(tokens, len(tokens)+width-rem)
	}

	rows := len(tokens) / width
	columns := make([][]Value, width)
	for col := range width {
		field := schema.At(col)
		values := make([]Value, rows)
		for row := range rows {
			raw := tokens[row*width+col]
			v, err := ParseValue(field.Kind, raw)
			if err != nil {
				return nil, &FieldConversionError{Header: scope, Field: field.Name, Kind: field.Kind, Raw: raw, Row: row, Err: err}
			}
			values[row] = v
		}
		columns[col] = values
	}

	return &RecordSet{scope: scope, schema: schema, columns: columns, rows: rows}, nil
}

// padTokens returns tokens extended with empty strings to n entries. The input
// slice is never written to.
func padTokens(tokens []string, n int) []string {
	out := make([]string, n)
	copy(out, tokens)
	return out
}

// Len returns the number of records.
func (rs *RecordSet) Len() int { return rs.rows }

// Schema returns the schema the records were decoded with.
func (rs *RecordSet) Schema() FieldSchema { return rs.schema }

// Field returns the column for name.
func (rs *RecordSet) Field(name string) (Column, error) {
	i, ok := rs.schema.Index(name)
	if !ok {
		return Column{}, &FieldNotFoundError{Scope: rs.scope, Field: name}
	}
	return rs.column(i), nil
}

func (rs *RecordSet) column(i int) Column {
	if rs.rows == 0 {
		return Column{field: rs.schema.At(i)}
	}
	return Column{field: rs.schema.At(i), values: rs.columns[i]}
}

// Row returns record i in schema order.
func (rs *RecordSet) Row(i int) Record {
	rec := make(Record, len(rs.columns))
	for col, values := range rs.columns {
		rec[col] = values[i]
	}
	return rec
}

// Dump returns one slice of encoded tokens per record. NaN encodes as "".
func (rs *RecordSet) Dump() [][]string {
	out := make([][]string, rs.rows)
	for row := range rs.rows {
		line := make([]string, len(rs.columns))
		for col, values := range rs.columns {
			line[col] = values[row].String()
		}
		out[row] = line
	}
	return out
}

// Tokens returns the records flattened in row-major order, the inverse of
// ParseRecords.
func (rs *RecordSet) Tokens() []string {
	width := len(rs.columns)
	out := make([]string, 0, rs.rows*width)
	for row := range rs.rows {
		for _, values := range rs.columns {
			out = append(out, values[row].String())
		}
	}
	return out
}

// Name returns the field name.
func (c Column) Name() string { return c.field.Name }

// Kind returns the field kind.
func (c Column) Kind() Kind { return c.field.Kind }

// Len returns the number of values.
func (c Column) Len() int { return len(c.values) }

// At returns value i.
func (c Column) At(i int) Value { return c.values[i] }

// Values returns a copy of the values.
func (c Column) Values() []Value {
	out := make([]Value, len(c.values))
	copy(out, c.values)
	return out
}

// Floats returns the values as float64. Missing values are NaN.
func (c Column) Floats() []float64 {
	out := make([]float64, len(c.values))
	for i, v := range c.values {
		out[i] = v.Float()
	}
	return out
}

// Ints returns the values as int64.
func (c Column) Ints() []int64 {
	out := make([]int64, len(c.values))
	for i, v := range c.values {
		out[i] = v.Int()
	}
	return out
}

// Texts returns the encoded tokens.
func (c Column) Texts() []string {
	out := make([]string, len(c.values))
	for i, v := range c.values {
		out[i] = v.String()
	}
	return out
}

// Missing returns the number of NaN values.
func (c Column) Missing() int {
	n := 0
	for _, v := range c.values {
		if v.IsMissing() {
			n++
		}
	}
	return n
}
