package defectlog

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/scan-io-git/pfast/internal/defect"
	"github.com/scan-io-git/pfast/pkg/shared/files"
)

// LoadDocument reads and parses the defect document stored at path.
func LoadDocument(path string) (*defect.Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &defect.DocumentLoadError{Path: path, Err: err}
	}
	defer file.Close()

	doc, err := ParseDocument(file)
	if err != nil {
		return nil, &defect.DocumentLoadError{Path: path, Err: err}
	}
	return doc, nil
}

// ParseDocument decodes a <DEFECTS> document. A UTF-16 byte order mark and
// any encoding named in the XML declaration are honoured.
func ParseDocument(r io.Reader) (*defect.Document, error) {
	doc := defect.NewDocument()
	if err := NewXMLDecoder(r).Decode(doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("document is empty")
		}
		return nil, err
	}
	return doc, nil
}

// NewXMLDecoder returns an XML decoder that converts r to UTF-8 first.
func NewXMLDecoder(r io.Reader) *xml.Decoder {
	decoder := xml.NewDecoder(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	decoder.CharsetReader = charsetReader
	return decoder
}

// charsetReader converts the input to UTF-8 for the label found in the XML declaration.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	normalized := strings.ToLower(strings.TrimSpace(label))
	// UTF-16 input carries a BOM and has already been converted by BOMOverride.
	if strings.HasPrefix(normalized, "utf-16") || normalized == "unicode" {
		return input, nil
	}
	enc, err := htmlindex.Get(normalized)
	if err != nil {
		return nil, fmt.Errorf("unsupported document encoding %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

// WriteDocument encodes doc as an indented UTF-8 XML document.
func WriteDocument(w io.Writer, doc *defect.Document) error {
	if doc == nil {
		doc = defect.NewDocument()
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return err
	}
	if err := encoder.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// SaveDocument atomically replaces the file at path with doc.
func SaveDocument(path string, doc *defect.Document) error {
	err := files.WriteFileAtomic(path, func(w io.Writer) error {
		return WriteDocument(w, doc)
	})
	if err != nil {
		return &defect.FilesystemError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// CountDefects returns the number of top-level records in the document at path,
// or 0 when the document is missing or cannot be parsed.
func CountDefects(path string) int {
	doc, err := LoadDocument(path)
	if err != nil {
		return 0
	}
	return doc.Len()
}
