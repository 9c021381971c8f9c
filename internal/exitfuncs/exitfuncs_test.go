package exitfuncs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/pfast/internal/defect"
)

func TestWriteModels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteModels(&buf, []string{"KeBugCheckEx"}))

	want := `<?xml version="1.0" encoding="UTF-8"?>
<Models>
  <Function name="KeBugCheckEx">
    <FunctionProperties>
      <Terminates value="1"/>
    </FunctionProperties>
  </Function>
</Models>
`
	assert.Equal(t, want, buf.String())
}

func TestParseNames(t *testing.T) {
	names, err := ParseNames(strings.NewReader("KeBugCheck  KeBugCheckEx\n\n\tMyPanic\r\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"KeBugCheck", "KeBugCheckEx", "MyPanic"}, names)
}

func TestExitFunctionsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "exit.txt")
	models := filepath.Join(dir, "exit.xml")
	back := filepath.Join(dir, "back.txt")
	require.NoError(t, os.WriteFile(text, []byte("KeBugCheck\nAbort<T> Fail\n"), 0644))

	n, err := WriteExitFunctions(text, models)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = ReadExitFunctions(models, back)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	data, err := os.ReadFile(back)
	require.NoError(t, err)
	assert.Equal(t, "KeBugCheck\nAbort<T>\nFail\n", string(data))
}

func TestReadExitFunctionsSkipsNonTerminating(t *testing.T) {
	dir := t.TempDir()
	models := filepath.Join(dir, "models.xml")
	content := `<Models>
  <Function name="a"><FunctionProperties><Terminates value="1"/></FunctionProperties></Function>
  <Function name="b"><FunctionProperties><Terminates value="0"/></FunctionProperties></Function>
  <Function name="c"/>
</Models>`
	require.NoError(t, os.WriteFile(models, []byte(content), 0644))
	out := filepath.Join(dir, "out.txt")

	n, err := ReadExitFunctions(models, out)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "a\n", string(data))
}

func TestExitFunctionsErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := WriteExitFunctions(filepath.Join(dir, "missing.txt"), filepath.Join(dir, "x.xml"))
	var fsErr *defect.FilesystemError
	assert.True(t, errors.As(err, &fsErr))

	bad := filepath.Join(dir, "bad.xml")
	require.NoError(t, os.WriteFile(bad, []byte("<Models><Function>"), 0644))
	_, err = ReadExitFunctions(bad, filepath.Join(dir, "out.txt"))
	var loadErr *defect.DocumentLoadError
	assert.True(t, errors.As(err, &loadErr))
	assert.NoFileExists(t, filepath.Join(dir, "out.txt"))
}
