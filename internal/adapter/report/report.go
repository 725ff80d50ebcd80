// Package report renders a YAML summary of a decoded EPW document.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/epw-codec/internal/epw"
)

// Report summarizes one document.
type Report struct {
	Source      string          `yaml:"source"`
	GeneratedAt time.Time       `yaml:"generated_at"`
	Location    Location        `yaml:"location"`
	Headers     []HeaderSummary `yaml:"headers"`
	Data        DataSummary     `yaml:"data"`
}

// Location is the station identity from the LOCATION header.
type Location struct {
	City      string  `yaml:"city"`
	Country   string  `yaml:"country"`
	WMO       string  `yaml:"wmo"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Elevation float64 `yaml:"elevation"`
}

// HeaderSummary lists a header's metafields in declared order.
type HeaderSummary struct {
	Name        string     `yaml:"name"`
	Label       string     `yaml:"label"`
	Metadata    *yaml.Node `yaml:"metadata"`
	Records     *int       `yaml:"records,omitempty"`
	OpaqueBytes int        `yaml:"opaque_bytes,omitempty"`
}

// DataSummary describes the hourly records.
type DataSummary struct {
	Records int            `yaml:"records"`
	First   string         `yaml:"first,omitempty"`
	Last    string         `yaml:"last,omitempty"`
	Missing map[string]int `yaml:"missing,omitempty"`
}

// Build summarizes doc. GeneratedAt is taken from clock in UTC.
func Build(source string, doc *epw.Document, clock clockwork.Clock) (*Report, error) {
	loc, err := location(doc)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Source:      source,
		GeneratedAt: clock.Now().UTC(),
		Location:    loc,
	}

	for _, b := range doc.Headers() {
		h := HeaderSummary{
			Name:     b.Name(),
			Label:    b.Spec().Label,
			Metadata: metadataNode(b),
		}
		if payload, ok := b.Opaque(); ok {
			h.OpaqueBytes = len(payload)
		} else if rs, ok := b.Records(); ok {
			n := rs.Len()
			h.Records = &n
		}
		r.Headers = append(r.Headers, h)
	}

	r.Data = dataSummary(doc.Data())
	return r, nil
}

// Write encodes r as a YAML document.
func Write(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}

func location(doc *epw.Document) (Location, error) {
	b, err := doc.Header(epw.Location)
	if err != nil {
		return Location{}, err
	}
	var loc Location
	texts := map[string]*string{"city": &loc.City, "country": &loc.Country, "wmo": &loc.WMO}
	for name, dst := range texts {
		v, err := b.Meta(name)
		if err != nil {
			return Location{}, err
		}
		*dst = v.Text()
	}
	floats := map[string]*float64{"latitude": &loc.Latitude, "longitude": &loc.Longitude, "elevation": &loc.Elevation}
	for name, dst := range floats {
		v, err := b.Meta(name)
		if err != nil {
			return Location{}, err
		}
		*dst = v.Float()
	}
	return loc, nil
}

// metadataNode builds a mapping node so the keys keep their declared order.
func metadataNode(b *epw.HeaderBlock) *yaml.Node {
	spec := b.Spec()
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i, v := range b.Metadata() {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: spec.Meta.At(i).Name},
			scalarNode(v),
		)
	}
	return node
}

func scalarNode(v epw.Value) *yaml.Node {
	switch {
	case v.IsMissing():
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case v.Kind() == epw.Integer:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v.Int(), 10)}
	case v.Kind() == epw.Float:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(v.Float(), 'g', -1, 64)}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Text()}
	}
}

func dataSummary(rs *epw.RecordSet) DataSummary {
	s := DataSummary{Records: rs.Len()}
	if rs.Len() == 0 {
		return s
	}
	s.First = timestamp(rs.Row(0))
	s.Last = timestamp(rs.Row(rs.Len() - 1))

	for _, f := range rs.Schema().Fields() {
		col, err := rs.Field(f.Name)
		if err != nil {
			continue
		}
		if n := col.Missing(); n > 0 {
			if s.Missing == nil {
				s.Missing = make(map[string]int)
			}
			s.Missing[f.Name] = n
		}
	}
	return s
}

// timestamp formats the leading year, month, day, hour and minute fields.
// EPW hours run 1-24 and are printed as-is.
func timestamp(rec epw.Record) string {
	if len(rec) < 5 {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d",
		rec[0].Int(), rec[1].Int(), rec[2].Int(), rec[3].Int(), rec[4].Int())
}
