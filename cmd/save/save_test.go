package save

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/pfast/internal/registry"

	cmdutil "github.com/scan-io-git/pfast/internal/cmd"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("save", pflag.ContinueOnError)
	flags.Int("max-paths", 256, "")
	flags.Bool("wspmin", false, "")
	flags.String("log", "", "")
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestRunSavesChangedFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved-switches.yml")
	store := registry.New(path)

	require.NoError(t, Run(newFlags(t, "--max-paths=64", "--log=x.xml"), store))

	reloaded, err := registry.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"max-paths"}, reloaded.Names(), "log is never saved")
}

func TestWriteSwitches(t *testing.T) {
	store := registry.New(filepath.Join(t.TempDir(), "saved-switches.yml"))
	require.NoError(t, store.Set("wspmin", "true"))

	var buf bytes.Buffer
	require.NoError(t, WriteSwitches(&buf, newFlags(t, "--max-paths=64"), store))

	assert.Equal(t, "The following switch defaults are in effect:\n"+
		"(switches just saved are indicated with '*')\n"+
		"(switches saved earlier are indicated with '+')\n"+
		"* --max-paths=64\n"+
		"+ --wspmin=true\n", buf.String())
}

func TestWriteSwitchesProductDefaults(t *testing.T) {
	flags := pflag.NewFlagSet("save", pflag.ContinueOnError)
	cmdutil.AddEngineFlags(flags, &cmdutil.EngineOptions{})
	require.NoError(t, flags.Parse(nil))

	var buf bytes.Buffer
	require.NoError(t, WriteSwitches(&buf, flags, registry.New(filepath.Join(t.TempDir(), "s.yml"))))
	assert.NotContains(t, buf.String(), "indicated with")
	assert.Contains(t, buf.String(), "  --max-paths=256\n")
	assert.Contains(t, buf.String(), "  --new-failure=never\n")
}
