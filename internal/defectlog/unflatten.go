package defectlog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/scan-io-git/pfast/internal/defect"
)

// MaxLineSize bounds a single flat line.
const MaxLineSize = 16 * 1024 * 1024

// ReadLines parses flat lines into a document, in read order. The sequence of every
// record is taken from its first field. An empty line is malformed.
func ReadLines(r io.Reader) (*defect.Document, error) {
	doc := defect.NewDocument()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), MaxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")

		d, err := defect.FromDelimitedLine(line)
		if err != nil {
			var malformed *defect.MalformedRecordError
			if errors.As(err, &malformed) {
				malformed.Line = lineNo
			}
			return nil, err
		}
		doc.Append(d)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &defect.MalformedRecordError{Line: lineNo + 1, Reason: fmt.Sprintf("line longer than %d bytes", MaxLineSize)}
		}
		return nil, err
	}
	return doc, nil
}

// UnflattenFile rebuilds the hierarchical document from the flat file in and writes it to out.
// out is only replaced when every line parsed.
func UnflattenFile(in, out string) (int, error) {
	file, err := os.Open(in)
	if err != nil {
		return 0, &defect.FilesystemError{Op: "open", Path: in, Err: err}
	}
	defer file.Close()

	doc, err := ReadLines(file)
	if err != nil {
		var malformed *defect.MalformedRecordError
		if errors.As(err, &malformed) {
			return 0, fmt.Errorf("unflatten %s: %w", in, err)
		}
		return 0, &defect.FilesystemError{Op: "read", Path: in, Err: err}
	}

	if err := SaveDocument(out, doc); err != nil {
		return 0, err
	}
	return doc.Len(), nil
}
