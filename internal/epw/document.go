package epw

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Codec decodes and encodes EPW documents against a registry.
type Codec struct {
	registry *Registry
	policy   RowPolicy
}

// Option configures a Codec.
type Option func(*Codec)

// WithRowPolicy sets how short rows and missing trailing metafields are handled.
func WithRowPolicy(p RowPolicy) Option {
	return func(c *Codec) { c.policy = p }
}

// NewCodec creates a Codec. The default row policy is PadShortRows.
func NewCodec(registry *Registry, opts ...Option) *Codec {
	c := &Codec{registry: registry, policy: PadShortRows}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the registry the codec decodes against.
func (c *Codec) Registry() *Registry { return c.registry }

// Policy returns the row policy in effect.
func (c *Codec) Policy() RowPolicy { return c.policy }

// Document is a decoded EPW file: eight headers in file order and the data
// records. It is immutable and safe for concurrent reads.
type Document struct {
	headers []*HeaderBlock
	data    *RecordSet
}

// Decode builds a Document from lines without line terminators. The first
// eight lines are the headers; every remaining line is one data record.
// Any error aborts decoding and is wrapped with its 1-based line number.
func (c *Codec) Decode(lines []string) (*Document, error) {
	specs := c.registry.headers
	if len(lines) < len(specs) {
		return nil, &SchemaMismatchError{Section: "document", Tokens: len(lines), Width: len(specs), Reason: "fewer lines than headers"}
	}

	headers := make([]*HeaderBlock, len(specs))
	for i, spec := range specs {
		block, err := c.ParseHeader(lines[i], spec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		headers[i] = block
	}

	data, err := c.parseData(lines[len(specs):], len(specs))
	if err != nil {
		return nil, err
	}
	return &Document{headers: headers, data: data}, nil
}

// parseData splits each data line into exactly one record's worth of tokens
// and decodes them in one pass. offset is the number of lines before the first
// data line.
func (c *Codec) parseData(lines []string, offset int) (*RecordSet, error) {
	schema := c.registry.data
	width := schema.Len()

	tokens := make([]string, 0, len(lines)*width)
	for i, line := range lines {
		fields := strings.Split(line, separator)
		switch {
		case len(fields) > width:
			return nil, fmt.Errorf("line %d: %w", offset+i+1,
				&SchemaMismatchError{Section: DataSection, Tokens: len(fields), Width: width, Reason: "too many fields"})
		case len(fields) < width:
			if c.policy == RejectShortRows {
				return nil, fmt.Errorf("line %d: %w", offset+i+1,
					&SchemaMismatchError{Section: DataSection, Tokens: len(fields), Width: width, Reason: "short row"})
			}
			fields = padTokens(fields, width)
		}
		tokens = append(tokens, fields...)
	}

	data, err := ParseRecords(DataSection, tokens, schema, RejectShortRows)
	if err != nil {
		var convErr *FieldConversionError
		if errors.As(err, &convErr) && convErr.Row >= 0 {
			return nil, fmt.Errorf("line %d: %w", offset+convErr.Row+1, err)
		}
		return nil, err
	}
	return data, nil
}

// Encode returns the document as lines without terminators, the inverse of
// Decode.
func (c *Codec) Encode(doc *Document) []string {
	return doc.Lines()
}

// Headers returns the header blocks in file order.
func (d *Document) Headers() []*HeaderBlock {
	out := make([]*HeaderBlock, len(d.headers))
	copy(out, d.headers)
	return out
}

// Header returns the block registered under name.
func (d *Document) Header(name string) (*HeaderBlock, error) {
	for _, h := range d.headers {
		if h.spec.Name == name {
			return h, nil
		}
	}
	return nil, &FieldNotFoundError{Scope: "document", Field: name}
}

// Data returns the hourly records.
func (d *Document) Data() *RecordSet { return d.data }

// Lookup resolves name within one section: a header name or DataSection.
func (d *Document) Lookup(section, name string) (Entry, error) {
	if section == DataSection {
		col, err := d.data.Field(name)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Column: col, Nested: true}, nil
	}
	h, err := d.Header(section)
	if err != nil {
		return Entry{}, err
	}
	return h.Lookup(name)
}

// Lines returns the encoded headers followed by one line per data record.
func (d *Document) Lines() []string {
	lines := make([]string, 0, len(d.headers)+d.data.Len())
	for _, h := range d.headers {
		lines = append(lines, formatHeader(h))
	}
	for _, row := range d.data.Dump() {
		lines = append(lines, strings.Join(row, separator))
	}
	return lines
}

// WriteTo writes the document with each line newline-terminated.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, line := range d.Lines() {
		n, err := io.WriteString(w, line+"\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
