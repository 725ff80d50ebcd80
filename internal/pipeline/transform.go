package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/epw-codec/internal/epw"
)

// ErrRoundTrip is returned when re-encoding a decoded document does not
// reproduce its input.
var ErrRoundTrip = errors.New("round trip mismatch")

// RoundTripError reports the first line that changed after decode and encode.
type RoundTripError struct {
	Line int // 1-based
	Want string
	Got  string
}

func (e *RoundTripError) Error() string {
	return fmt.Sprintf("line %d: re-encoded %q, input %q", e.Line, e.Got, e.Want)
}

func (e *RoundTripError) Unwrap() error { return ErrRoundTrip }

// DocumentTransformer implements Transformer with an epw.Codec.
type DocumentTransformer struct {
	codec  *epw.Codec
	verify bool
	logger *slog.Logger
}

// NewTransformer creates a DocumentTransformer. With verify set, every decoded
// document is re-encoded and compared with its input lines.
func NewTransformer(codec *epw.Codec, verify bool, logger *slog.Logger) *DocumentTransformer {
	return &DocumentTransformer{codec: codec, verify: verify, logger: logger}
}

func (t *DocumentTransformer) Transform(_ context.Context, source string, lines []string) (*epw.Document, error) {
	doc, err := t.codec.Decode(lines)
	if err != nil {
		return nil, err
	}
	if !t.verify {
		return doc, nil
	}

	if err := compareLines(lines, t.codec.Encode(doc)); err != nil {
		return nil, err
	}
	t.logger.Debug("round trip verified", "source", source, "lines", len(lines))
	return doc, nil
}

func compareLines(want, got []string) error {
	n := min(len(want), len(got))
	for i := range n {
		if want[i] != got[i] {
			return &RoundTripError{Line: i + 1, Want: want[i], Got: got[i]}
		}
	}
	if len(want) != len(got) {
		return &RoundTripError{Line: n + 1, Want: lineAt(want, n), Got: lineAt(got, n)}
	}
	return nil
}

func lineAt(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}
