package list

import (
	"bufio"
	"fmt"
	"io"

	"github.com/scan-io-git/pfast/internal/defect"
	"github.com/scan-io-git/pfast/internal/filter"
)

// WriteListing prints the records of doc accepted by preset, followed by a summary.
func WriteListing(w io.Writer, doc *defect.Document, preset filter.Preset) error {
	listed := filter.Apply(doc, preset)

	bw := bufio.NewWriter(w)
	for _, d := range listed.Defects {
		fmt.Fprintf(bw, "%s%s (%d): warning %s: %s\n", d.SFA.FilePath, d.SFA.FileName, d.SFA.Line, d.DefectCode, d.Description)
		fmt.Fprintf(bw, "\tFUNCTION: %s (%d)\n", d.Function, d.FuncLine)
		fmt.Fprint(bw, "\tPATH: ")
		for _, step := range d.Path {
			fmt.Fprintf(bw, "%d ", step.Line)
		}
		fmt.Fprint(bw, "\n\n")
	}

	noun := "Defects"
	if listed.Len() == 1 {
		noun = "Defect"
	}
	if preset.IsAll() {
		fmt.Fprintf(bw, "%d %s Listed\nNo filter in effect\n", listed.Len(), noun)
	} else {
		fmt.Fprintf(bw, "%d of %d %s Listed\nFilter in effect: %s\n", listed.Len(), doc.Len(), noun, preset.Name)
	}
	return bw.Flush()
}
