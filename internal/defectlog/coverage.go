package defectlog

import "github.com/scan-io-git/pfast/internal/defect"

// DefaultCoverageCodes are the reserved defect codes the engine uses for coverage records.
var DefaultCoverageCodes = []string{"98101", "98102"}

// Coverage accumulates coverage records for a single dedup run and numbers them
// with its own counter, which starts at zero for every new Coverage.
type Coverage struct {
	codes []string
	doc   *defect.Document
	seq   int
}

// NewCoverage returns an empty coverage collector for the given codes.
// No codes means DefaultCoverageCodes.
func NewCoverage(codes ...string) *Coverage {
	if len(codes) == 0 {
		codes = DefaultCoverageCodes
	}
	return &Coverage{
		codes: append([]string(nil), codes...),
		doc:   defect.NewDocument(),
	}
}

// Collect appends a stamped copy of d when its code is a coverage code.
func (c *Coverage) Collect(d defect.Defect) bool {
	if !d.HasCode(c.codes...) {
		return false
	}
	c.seq++
	c.doc.Append(d.WithSeq(c.seq))
	return true
}

// Document returns the records collected so far.
func (c *Coverage) Document() *defect.Document {
	return c.doc
}

// Save writes the collected records to path, replacing any earlier coverage file.
func (c *Coverage) Save(path string) error {
	return SaveDocument(path, c.doc)
}
