package defectlog

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/scan-io-git/pfast/internal/defect"
	"github.com/scan-io-git/pfast/pkg/shared/files"
)

const (
	// DedupKeyWidth is the length of the ordinal prefix of a dedup-mode line, separator included.
	DedupKeyWidth = 9

	maxDedupOrdinal = 99999999
)

// FlattenOptions configures a Flattener.
type FlattenOptions struct {
	// Dedup prefixes every line with a fixed-width ordinal instead of the record sequence.
	Dedup bool
	// Coverage, when set, receives a copy of every coverage record.
	Coverage *Coverage
	// SinkName names the sink in error messages.
	SinkName string
}

// Flattener appends the flat form of defect documents to a sink.
// The dedup ordinal runs across every document flattened by the same Flattener.
type Flattener struct {
	w       io.Writer
	opts    FlattenOptions
	ordinal int
}

// NewFlattener returns a Flattener that writes to w.
func NewFlattener(w io.Writer, opts FlattenOptions) *Flattener {
	return &Flattener{w: w, opts: opts}
}

// FlattenFile loads the document at path and appends its lines.
func (f *Flattener) FlattenFile(path string) (int, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return 0, err
	}
	return f.FlattenDocument(doc)
}

// FlattenDocument appends one line per record in document order and returns the number of lines.
// Nothing is written when the document cannot be converted completely.
func (f *Flattener) FlattenDocument(doc *defect.Document) (int, error) {
	if doc.Len() == 0 {
		return 0, nil
	}
	if f.opts.Dedup && f.ordinal+doc.Len() > maxDedupOrdinal {
		return 0, fmt.Errorf("too many defect records for one dedup run: limit is %d", maxDedupOrdinal)
	}

	var buf bytes.Buffer
	ordinal := f.ordinal
	for i, d := range doc.Defects {
		if f.opts.Dedup {
			ordinal++
			buf.WriteString(dedupLine(ordinal, d))
		} else {
			buf.WriteString(d.WithSeq(i + 1).ToDelimitedLine())
		}
		buf.WriteByte('\n')
	}

	if _, err := f.w.Write(buf.Bytes()); err != nil {
		return 0, &defect.FilesystemError{Op: "write", Path: f.opts.SinkName, Err: err}
	}
	f.ordinal = ordinal

	if f.opts.Coverage != nil {
		for _, d := range doc.Defects {
			f.opts.Coverage.Collect(d)
		}
	}
	return doc.Len(), nil
}

// Lines renders doc in the non-dedup flat form, one entry per record.
func Lines(doc *defect.Document) []string {
	lines := make([]string, 0, doc.Len())
	for i, d := range doc.Defects {
		lines = append(lines, d.WithSeq(i+1).ToDelimitedLine())
	}
	return lines
}

// FlattenToFile converts the document at in into the flat file out.
func FlattenToFile(in, out string) (int, error) {
	doc, err := LoadDocument(in)
	if err != nil {
		return 0, err
	}

	var count int
	err = files.WriteFileAtomic(out, func(w io.Writer) error {
		var err error
		count, err = NewFlattener(w, FlattenOptions{SinkName: out}).FlattenDocument(doc)
		return err
	})
	if err != nil {
		return 0, &defect.FilesystemError{Op: "write", Path: out, Err: err}
	}
	return count, nil
}

func dedupLine(ordinal int, d defect.Defect) string {
	return fmt.Sprintf("%08d", ordinal) + defect.FieldSeparator + d.Key()
}

// StripDedupKey removes the ordinal prefix of a dedup-mode line and puts seq in its place.
func StripDedupKey(line string, seq int) (string, error) {
	if len(line) < DedupKeyWidth || line[DedupKeyWidth-1:DedupKeyWidth] != defect.FieldSeparator {
		return "", &defect.MalformedRecordError{Reason: "line has no dedup key prefix"}
	}
	return strconv.Itoa(seq) + defect.FieldSeparator + line[DedupKeyWidth:], nil
}
