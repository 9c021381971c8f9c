package dedup

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/pfast/internal/defect"
	"github.com/scan-io-git/pfast/internal/defectlog"
	"github.com/scan-io-git/pfast/internal/sorter"
)

func record(code string, line int, path ...defect.SFA) defect.Defect {
	return defect.Defect{
		SFA:         defect.SFA{Line: line, Column: 2, FileName: "driver.c", FilePath: `c:\src\`},
		DefectCode:  code,
		Description: "warning " + code,
		Rank:        "2",
		Module:      "driver.sys",
		RunID:       "1",
		Function:    "DriverEntry",
		FuncLine:    10,
		Path:        path,
	}
}

func saveLog(t *testing.T, dir, name string, records ...defect.Defect) string {
	t.Helper()
	doc := defect.NewDocument()
	for i, r := range records {
		doc.Append(r.WithSeq(i + 1))
	}
	path := filepath.Join(dir, name)
	require.NoError(t, defectlog.SaveDocument(path, doc))
	return path
}

func loadLog(t *testing.T, path string) *defect.Document {
	t.Helper()
	doc, err := defectlog.LoadDocument(path)
	require.NoError(t, err)
	return doc
}

func newDeduper(tempDir string) *Deduper {
	return New(sorter.NewInProcess(hclog.NewNullLogger()), tempDir, hclog.NewNullLogger())
}

func assertDense(t *testing.T, doc *defect.Document) {
	t.Helper()
	for i, d := range doc.Defects {
		assert.Equal(t, i+1, d.Seq)
	}
}

func TestRemoveDuplicatesCollapsesDuplicates(t *testing.T) {
	dir := t.TempDir()
	a := record("6011", 30, defect.SFA{Line: 28}, defect.SFA{Line: 29})
	b := record("28182", 12)
	c := a
	in := saveLog(t, dir, "log.xml", a, b, c)

	count, err := newDeduper(t.TempDir()).RemoveDuplicates(Options{Inputs: []string{in}, Output: in})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	out := loadLog(t, in)
	require.Equal(t, 2, out.Len())
	assertDense(t, out)
	assert.Equal(t, a.Key(), out.Defects[0].Key())
	assert.Equal(t, b.Key(), out.Defects[1].Key())
}

func TestRemoveDuplicatesKeepsFirstOccurrenceOrder(t *testing.T) {
	dir := t.TempDir()
	x, y, z := record("3", 1), record("1", 2), record("2", 3)
	in := saveLog(t, dir, "log.xml", x, y, x, z, y)
	out := filepath.Join(dir, "out.xml")

	_, err := newDeduper(t.TempDir()).RemoveDuplicates(Options{Inputs: []string{in}, Output: out})
	require.NoError(t, err)

	doc := loadLog(t, out)
	require.Equal(t, 3, doc.Len())
	assert.Equal(t, []string{"3", "1", "2"}, []string{doc.Defects[0].DefectCode, doc.Defects[1].DefectCode, doc.Defects[2].DefectCode})
}

func TestRemoveDuplicatesPathOrderMatters(t *testing.T) {
	dir := t.TempDir()
	forward := record("6011", 30, defect.SFA{Line: 1}, defect.SFA{Line: 2})
	backward := record("6011", 30, defect.SFA{Line: 2}, defect.SFA{Line: 1})
	in := saveLog(t, dir, "log.xml", forward, backward)

	count, err := newDeduper(t.TempDir()).RemoveDuplicates(Options{Inputs: []string{in}, Output: in})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRemoveDuplicatesMergesInputs(t *testing.T) {
	dir := t.TempDir()
	r1, r2, r3 := record("1", 1), record("2", 2), record("3", 3)
	l1 := saveLog(t, dir, "l1.xml", r1, r2)
	l2 := saveLog(t, dir, "l2.xml", r2, r3)
	out := filepath.Join(dir, "merged.xml")

	count, err := newDeduper(t.TempDir()).RemoveDuplicates(Options{Inputs: []string{l1, l2}, Output: out})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	doc := loadLog(t, out)
	require.Equal(t, 3, doc.Len())
	assertDense(t, doc)
	assert.Equal(t, r3.Key(), doc.Defects[2].Key())
	assert.Equal(t, 2, loadLog(t, l2).Len(), "inputs other than the output stay untouched")
}

func TestRemoveDuplicatesIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	in := saveLog(t, dir, "log.xml", record("1", 1), record("2", 2), record("1", 1), record("3", 3, defect.SFA{Line: 9}))
	once := filepath.Join(dir, "once.xml")
	twice := filepath.Join(dir, "twice.xml")
	d := newDeduper(t.TempDir())

	_, err := d.RemoveDuplicates(Options{Inputs: []string{in}, Output: once})
	require.NoError(t, err)
	_, err = d.RemoveDuplicates(Options{Inputs: []string{once}, Output: twice})
	require.NoError(t, err)

	assert.Equal(t, loadLog(t, once), loadLog(t, twice))
}

func TestRemoveDuplicatesEmptyLog(t *testing.T) {
	dir := t.TempDir()
	in := saveLog(t, dir, "log.xml")

	count, err := newDeduper(t.TempDir()).RemoveDuplicates(Options{Inputs: []string{in}, Output: in})
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, loadLog(t, in).Len())
}

func TestRemoveDuplicatesCoverage(t *testing.T) {
	dir := t.TempDir()
	l1 := saveLog(t, dir, "l1.xml", record("98101", 1), record("6011", 2), record("98102", 3))
	l2 := saveLog(t, dir, "l2.xml", record("98101", 1), record("98101", 7))
	out := filepath.Join(dir, "out.xml")
	coverage := filepath.Join(dir, "coverage.xml")
	require.NoError(t, os.WriteFile(coverage, []byte("stale"), 0644))

	_, err := newDeduper(t.TempDir()).RemoveDuplicates(Options{Inputs: []string{l1, l2}, Output: out, CoverageOutput: coverage})
	require.NoError(t, err)

	doc := loadLog(t, coverage)
	require.Equal(t, 4, doc.Len())
	assertDense(t, doc)
	for _, d := range doc.Defects {
		assert.True(t, d.HasCode(defectlog.DefaultCoverageCodes...))
	}
}

func TestRemoveDuplicatesCoverageCounterPerCall(t *testing.T) {
	dir := t.TempDir()
	in := saveLog(t, dir, "log.xml", record("98101", 1), record("98102", 2))
	coverage := filepath.Join(dir, "coverage.xml")
	d := newDeduper(t.TempDir())

	for i := 0; i < 2; i++ {
		_, err := d.RemoveDuplicates(Options{Inputs: []string{in}, Output: filepath.Join(dir, "out.xml"), CoverageOutput: coverage})
		require.NoError(t, err)
	}

	doc := loadLog(t, coverage)
	require.Equal(t, 2, doc.Len())
	assertDense(t, doc)
}

type failingSorter struct {
	failPass int
	inner    sorter.Sorter
}

func (f *failingSorter) Sort(inputPath, outputPath string, spec sorter.Spec) error {
	if spec.Pass == f.failPass {
		os.WriteFile(outputPath, []byte("partial"), 0644)
		return &defect.SortToolError{Tool: "sortFile", Pass: spec.Pass, ExitCode: 9}
	}
	return f.inner.Sort(inputPath, outputPath, spec)
}

func TestRemoveDuplicatesCleansUpOnSortFailure(t *testing.T) {
	for _, pass := range []int{1, 2} {
		dir := t.TempDir()
		tempDir := t.TempDir()
		in := saveLog(t, dir, "log.xml", record("1", 1), record("1", 1))
		before := loadLog(t, in)

		s := &failingSorter{failPass: pass, inner: sorter.NewInProcess(hclog.NewNullLogger())}
		_, err := New(s, tempDir, hclog.NewNullLogger()).RemoveDuplicates(Options{Inputs: []string{in}, Output: in})

		var sortErr *defect.SortToolError
		require.True(t, errors.As(err, &sortErr), "pass %d", pass)
		assert.Equal(t, 9, sortErr.ExitCode)

		entries, err := os.ReadDir(tempDir)
		require.NoError(t, err)
		assert.Empty(t, entries, "pass %d left temporary files", pass)
		assert.Equal(t, before, loadLog(t, in), "output must not change on failure")
	}
}

func TestRemoveDuplicatesLoadFailure(t *testing.T) {
	dir := t.TempDir()
	tempDir := t.TempDir()
	good := saveLog(t, dir, "good.xml", record("1", 1))
	bad := filepath.Join(dir, "bad.xml")
	require.NoError(t, os.WriteFile(bad, []byte("<DEFECTS><DEFECT>"), 0644))
	out := filepath.Join(dir, "out.xml")

	_, err := New(sorter.NewInProcess(hclog.NewNullLogger()), tempDir, hclog.NewNullLogger()).
		RemoveDuplicates(Options{Inputs: []string{good, bad}, Output: out})

	var loadErr *defect.DocumentLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, bad, loadErr.Path)
	assert.NoFileExists(t, out)

	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRemoveDuplicatesRequiresPaths(t *testing.T) {
	d := newDeduper(t.TempDir())

	_, err := d.RemoveDuplicates(Options{Output: "out.xml"})
	assert.Error(t, err)
	_, err = d.RemoveDuplicates(Options{Inputs: []string{"in.xml"}})
	assert.Error(t, err)
}
