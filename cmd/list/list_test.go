package list

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/pfast/internal/defect"
	"github.com/scan-io-git/pfast/internal/filter"
)

func sampleDocument() *defect.Document {
	doc := defect.NewDocument()
	doc.Append(defect.Defect{
		Seq:         1,
		SFA:         defect.SFA{Line: 42, FileName: "toaster.c", FilePath: `c:\src\`},
		DefectCode:  "6011",
		Description: "Dereferencing NULL pointer 'p'.",
		Function:    "ToasterAddDevice",
		FuncLine:    30,
		Path:        []defect.SFA{{Line: 31}, {Line: 40}},
	})
	doc.Append(defect.Defect{
		Seq:         2,
		SFA:         defect.SFA{Line: 1, FileName: "toaster.c", FilePath: `c:\src\`},
		DefectCode:  "98101",
		Description: "Function coverage.",
		Function:    "DriverEntry",
		FuncLine:    1,
	})
	return doc
}

func TestWriteListingUnfiltered(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteListing(&buf, sampleDocument(), filter.Preset{Name: filter.AllDefects}))

	want := "c:\\src\\toaster.c (42): warning 6011: Dereferencing NULL pointer 'p'.\n" +
		"\tFUNCTION: ToasterAddDevice (30)\n" +
		"\tPATH: 31 40 \n" +
		"\n" +
		"c:\\src\\toaster.c (1): warning 98101: Function coverage.\n" +
		"\tFUNCTION: DriverEntry (1)\n" +
		"\tPATH: \n" +
		"\n" +
		"2 Defects Listed\n" +
		"No filter in effect\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteListingFiltered(t *testing.T) {
	presets := filter.DefaultPresets([]string{"98101", "98102"})
	wspmin, err := presets.Get(filter.WSPMin)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteListing(&buf, sampleDocument(), wspmin))
	assert.Contains(t, buf.String(), "1 of 2 Defect Listed\nFilter in effect: wspmin\n")
	assert.NotContains(t, buf.String(), "98101")
}
