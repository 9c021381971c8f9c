package defect

import "encoding/xml"

// SFA is a source-file association: a single location reference.
type SFA struct {
	Line     int    `xml:"LINE"`
	Column   int    `xml:"COLUMN"`
	FileName string `xml:"FILENAME"`
	FilePath string `xml:"FILEPATH"`
}

// Element keeps a DEFECT child element the model does not know about, so that
// records copied between documents stay complete.
type Element struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Inner   string     `xml:",innerxml"`
}

// Defect is one reported static-analysis finding.
// Path holds the trace leading to the defect in execution order.
type Defect struct {
	Seq         int       `xml:"_seq,attr,omitempty"`
	SFA         SFA       `xml:"SFA"`
	DefectCode  string    `xml:"DEFECTCODE"`
	Description string    `xml:"DESCRIPTION"`
	Rank        string    `xml:"RANK"`
	Module      string    `xml:"MODULE"`
	RunID       string    `xml:"RUNID"`
	Function    string    `xml:"FUNCTION"`
	FuncLine    int       `xml:"FUNCLINE"`
	Path        []SFA     `xml:"PATH>SFA"`
	Extra       []Element `xml:",any"`
}

// Document is the hierarchical defect log.
type Document struct {
	XMLName xml.Name `xml:"DEFECTS"`
	Defects []Defect `xml:"DEFECT"`
}

// NewDocument returns an empty defect document.
func NewDocument() *Document {
	return &Document{XMLName: xml.Name{Local: "DEFECTS"}}
}

// Append adds a copy of d to the end of the document.
func (doc *Document) Append(d Defect) {
	doc.Defects = append(doc.Defects, d)
}

// Len returns the number of top-level defect records.
func (doc *Document) Len() int {
	if doc == nil {
		return 0
	}
	return len(doc.Defects)
}

// WithSeq returns a copy of d stamped with the given sequence number.
func (d Defect) WithSeq(seq int) Defect {
	d.Seq = seq
	if d.Path != nil {
		d.Path = append([]SFA(nil), d.Path...)
	}
	return d
}

// Key identifies a defect by every flattened field except its sequence.
// Two defects with equal keys are duplicates.
func (d Defect) Key() string {
	return joinFields(d.naturalFields())
}

// HasCode reports whether the defect code is one of codes.
func (d Defect) HasCode(codes ...string) bool {
	for _, c := range codes {
		if d.DefectCode == c {
			return true
		}
	}
	return false
}
