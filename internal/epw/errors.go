package epw

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every typed error below unwraps to one of these.
var (
	ErrSchemaMismatch      = errors.New("schema mismatch")
	ErrLabelMismatch       = errors.New("label mismatch")
	ErrFieldConversion     = errors.New("field conversion")
	ErrFieldNotFound       = errors.New("field not found")
	ErrRecordCountMismatch = errors.New("record count mismatch")
)

// SchemaMismatchError is returned when a token count cannot be reconciled
// with the width of the schema it is decoded against.
type SchemaMismatchError struct {
	Section string // header name or "data"
	Tokens  int
	Width   int
	Reason  string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("%s: %s: %d tokens for width %d", e.Section, e.Reason, e.Tokens, e.Width)
}

func (e *SchemaMismatchError) Unwrap() error { return ErrSchemaMismatch }

// LabelMismatchError is returned when a header line starts with the wrong label.
type LabelMismatchError struct {
	Header string
	Want   string
	Got    string
}

func (e *LabelMismatchError) Error() string {
	return fmt.Sprintf("%s: expected label %q, got %q", e.Header, e.Want, e.Got)
}

func (e *LabelMismatchError) Unwrap() error { return ErrLabelMismatch }

// FieldConversionError is returned when a token cannot be converted to the
// scalar type declared for its field.
type FieldConversionError struct {
	Header string
	Field  string
	Kind   Kind
	Raw    string
	Row    int // 0-based record index, -1 for metafields
	Err    error
}

func (e *FieldConversionError) Error() string {
	where := e.Header + "." + e.Field
	if e.Row >= 0 {
		where = fmt.Sprintf("%s[%d]", where, e.Row)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: cannot convert %q to %s: %v", where, e.Raw, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: cannot convert %q to %s", where, e.Raw, e.Kind)
}

func (e *FieldConversionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFieldConversion}
	}
	return []error{ErrFieldConversion, e.Err}
}

// FieldNotFoundError is returned when a name is not part of the schema in scope.
type FieldNotFoundError struct {
	Scope string
	Field string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("%s: no field %q", e.Scope, e.Field)
}

func (e *FieldNotFoundError) Unwrap() error { return ErrFieldNotFound }

// RecordCountMismatchError is returned when a header's count metafield
// disagrees with the number of nested records on the line.
type RecordCountMismatchError struct {
	Header     string
	CountField string
	Declared   int64
	Actual     int
}

func (e *RecordCountMismatchError) Error() string {
	return fmt.Sprintf("%s: %s declares %d records, found %d", e.Header, e.CountField, e.Declared, e.Actual)
}

func (e *RecordCountMismatchError) Unwrap() error { return ErrRecordCountMismatch }

// ErrorKind returns a stable label for err, suitable for metric labels.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSchemaMismatch):
		return "schema_mismatch"
	case errors.Is(err, ErrLabelMismatch):
		return "label_mismatch"
	case errors.Is(err, ErrFieldConversion):
		return "field_conversion"
	case errors.Is(err, ErrFieldNotFound):
		return "field_not_found"
	case errors.Is(err, ErrRecordCountMismatch):
		return "record_count_mismatch"
	default:
		return "unknown"
	}
}
