package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
)

// maxLineBytes bounds a single line. COMMENTS lines are the longest in
// practice and stay well under this.
const maxLineBytes = 1 << 20

// FileExtractor implements Extractor over the local file system.
type FileExtractor struct{}

// NewFileExtractor creates a FileExtractor.
func NewFileExtractor() *FileExtractor {
	return &FileExtractor{}
}

// Extract reads every line of the file at path.
func (FileExtractor) Extract(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadLines(f)
}

// ReadLines splits r into lines without terminators. A trailing "\r" is
// dropped, so files with CRLF endings decode like LF files.
func ReadLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	return lines, nil
}
