// Package exitfuncs converts between a plain list of function names and the
// <Models> file that marks those functions as never returning.
package exitfuncs

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/scan-io-git/pfast/internal/defect"
	"github.com/scan-io-git/pfast/internal/defectlog"
	"github.com/scan-io-git/pfast/pkg/shared/files"
)

// Models is the terminating-function model file.
type Models struct {
	XMLName   xml.Name   `xml:"Models"`
	Functions []Function `xml:"Function"`
}

// Function is one modelled function.
type Function struct {
	Name       string              `xml:"name,attr"`
	Properties *FunctionProperties `xml:"FunctionProperties"`
}

// FunctionProperties holds the modelled properties of a function.
type FunctionProperties struct {
	Terminates *Value `xml:"Terminates"`
}

// Value is a property carried in a value attribute.
type Value struct {
	Value string `xml:"value,attr"`
}

// Terminates reports whether the function is modelled as never returning.
func (f Function) Terminates() bool {
	return f.Properties != nil && f.Properties.Terminates != nil &&
		strings.TrimSpace(f.Properties.Terminates.Value) == "1"
}

// ParseNames splits r on whitespace and returns every function name in order.
func ParseNames(r io.Reader) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		names = append(names, strings.Fields(scanner.Text())...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

// WriteModels writes a <Models> document marking every name as terminating.
func WriteModels(w io.Writer, names []string) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<Models>\n")
	for _, name := range names {
		bw.WriteString("  <Function name=\"")
		if err := xml.EscapeText(bw, []byte(name)); err != nil {
			return err
		}
		bw.WriteString("\">\n    <FunctionProperties>\n      <Terminates value=\"1\"/>\n    </FunctionProperties>\n  </Function>\n")
	}
	bw.WriteString("</Models>\n")
	return bw.Flush()
}

// ReadModels parses a <Models> document.
func ReadModels(r io.Reader) (*Models, error) {
	models := &Models{}
	if err := defectlog.NewXMLDecoder(r).Decode(models); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("document is empty")
		}
		return nil, err
	}
	return models, nil
}

// WriteExitFunctions reads function names from textPath and writes the model file to xmlPath.
// It returns the number of functions written.
func WriteExitFunctions(textPath, xmlPath string) (int, error) {
	file, err := os.Open(textPath)
	if err != nil {
		return 0, &defect.FilesystemError{Op: "open", Path: textPath, Err: err}
	}
	defer file.Close()

	names, err := ParseNames(file)
	if err != nil {
		return 0, &defect.FilesystemError{Op: "read", Path: textPath, Err: err}
	}

	err = files.WriteFileAtomic(xmlPath, func(w io.Writer) error {
		return WriteModels(w, names)
	})
	if err != nil {
		return 0, &defect.FilesystemError{Op: "write", Path: xmlPath, Err: err}
	}
	return len(names), nil
}

// ReadExitFunctions writes the name of every terminating function in xmlPath to textPath,
// one per line. It returns the number of names written.
func ReadExitFunctions(xmlPath, textPath string) (int, error) {
	file, err := os.Open(xmlPath)
	if err != nil {
		return 0, &defect.DocumentLoadError{Path: xmlPath, Err: err}
	}
	defer file.Close()

	models, err := ReadModels(file)
	if err != nil {
		return 0, &defect.DocumentLoadError{Path: xmlPath, Err: err}
	}

	var names []string
	for _, f := range models.Functions {
		if f.Terminates() {
			names = append(names, f.Name)
		}
	}

	err = files.WriteFileAtomic(textPath, func(w io.Writer) error {
		for _, name := range names {
			if _, err := fmt.Fprintln(w, name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, &defect.FilesystemError{Op: "write", Path: textPath, Err: err}
	}
	return len(names), nil
}
