package epw

import "strings"

const separator = ","

// HeaderBlock is one decoded header line.
type HeaderBlock struct {
	spec      HeaderSpec
	meta      []Value
	records   *RecordSet
	opaque    string
	hasOpaque bool
}

// Entry is the result of a name lookup on a header block: a metafield value
// or a nested column.
type Entry struct {
	Value  Value
	Column Column
	Nested bool
}

// Spec returns the spec the block was decoded with.
func (b *HeaderBlock) Spec() HeaderSpec { return b.spec }

// Name returns the registry name of the header.
func (b *HeaderBlock) Name() string { return b.spec.Name }

// Metadata returns the metafield values in declared order.
func (b *HeaderBlock) Metadata() []Value {
	out := make([]Value, len(b.meta))
	copy(out, b.meta)
	return out
}

// Meta returns the metafield called name.
func (b *HeaderBlock) Meta(name string) (Value, error) {
	i, ok := b.spec.Meta.Index(name)
	if !ok {
		return Value{}, &FieldNotFoundError{Scope: b.spec.Name, Field: name}
	}
	return b.meta[i], nil
}

// Records returns the nested record set, if the header declares one.
func (b *HeaderBlock) Records() (*RecordSet, bool) {
	return b.records, b.records != nil
}

// Opaque returns the unparsed payload of an Opaque header.
func (b *HeaderBlock) Opaque() (string, bool) {
	return b.opaque, b.spec.Layout == Opaque
}

// Lookup resolves name against the metafields first, then the nested fields.
func (b *HeaderBlock) Lookup(name string) (Entry, error) {
	if i, ok := b.spec.Meta.Index(name); ok {
		return Entry{Value: b.meta[i]}, nil
	}
	if b.spec.HasFields {
		if _, ok := b.spec.Fields.Index(name); ok {
			if b.spec.Layout == Opaque {
				return Entry{Value: TextValue(b.opaque), Nested: true}, nil
			}
			col, err := b.records.Field(name)
			if err != nil {
				return Entry{}, err
			}
			return Entry{Column: col, Nested: true}, nil
		}
	}
	return Entry{}, &FieldNotFoundError{Scope: b.spec.Name, Field: name}
}

// ParseHeader decodes one header line against spec.
func (c *Codec) ParseHeader(line string, spec HeaderSpec) (*HeaderBlock, error) {
	if spec.Layout == FreeText {
		label, text, _ := strings.Cut(line, separator)
		return c.bindHeader(spec, label, []string{text})
	}

	parts := strings.Split(line, separator)
	return c.bindHeader(spec, parts[0], parts[1:])
}

func (c *Codec) bindHeader(spec HeaderSpec, label string, tokens []string) (*HeaderBlock, error) {
	if label != spec.Label {
		return nil, &LabelMismatchError{Header: spec.Name, Want: spec.Label, Got: label}
	}

	nmeta := spec.Meta.Len()
	if len(tokens) < nmeta {
		if c.policy == RejectShortRows {
			return nil, &SchemaMismatchError{Section: spec.Name, Tokens: len(tokens), Width: nmeta, Reason: "missing metafields"}
		}
		tokens = padTokens(tokens, nmeta)
	}
	if !spec.HasFields && len(tokens) > nmeta {
		return nil, &SchemaMismatchError{Section: spec.Name, Tokens: len(tokens), Width: nmeta, Reason: "unexpected tokens after metafields"}
	}

	meta := make([]Value, nmeta)
	for i := range nmeta {
		field := spec.Meta.At(i)
		v, err := ParseValue(field.Kind, tokens[i])
		if err != nil {
			return nil, &FieldConversionError{Header: spec.Name, Field: field.Name, Kind: field.Kind, Raw: tokens[i], Row: -1, Err: err}
		}
		meta[i] = v
	}

	block := &HeaderBlock{spec: spec, meta: meta}
	if !spec.HasFields {
		return block, nil
	}

	payload := tokens[nmeta:]
	if spec.Layout == Opaque {
		block.hasOpaque = len(payload) > 0
		block.opaque = strings.Join(payload, separator)
		return block, nil
	}

	records, err := ParseRecords(spec.Name, payload, spec.Fields, c.policy)
	if err != nil {
		return nil, err
	}
	block.records = records

	if spec.CountField != "" {
		declared := meta[mustIndex(spec.Meta, spec.CountField)].Int()
		if declared != int64(records.Len()) {
			return nil, &RecordCountMismatchError{Header: spec.Name, CountField: spec.CountField, Declared: declared, Actual: records.Len()}
		}
	}
	return block, nil
}

// FormatHeader encodes a block back into one line.
func (c *Codec) FormatHeader(b *HeaderBlock) string {
	return formatHeader(b)
}

func formatHeader(b *HeaderBlock) string {
	var sb strings.Builder
	sb.WriteString(b.spec.Label)
	for _, v := range b.meta {
		sb.WriteString(separator)
		sb.WriteString(v.String())
	}
	switch {
	case b.spec.Layout == Opaque && b.hasOpaque:
		sb.WriteString(separator)
		sb.WriteString(b.opaque)
	case b.records != nil:
		for _, tok := range b.records.Tokens() {
			sb.WriteString(separator)
			sb.WriteString(tok)
		}
	}
	return sb.String()
}

func mustIndex(s FieldSchema, name string) int {
	i, ok := s.Index(name)
	if !ok {
		panic("epw: count field " + name + " missing from metafields")
	}
	return i
}
