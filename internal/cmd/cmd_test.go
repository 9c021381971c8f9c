package cmd

import (
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/pfast/internal/config"
	"github.com/scan-io-git/pfast/internal/registry"
	"github.com/scan-io-git/pfast/internal/sorter"
)

func TestDetermineMode(t *testing.T) {
	assert.Equal(t, ModeArgs, DetermineMode([]string{"log.xml"}))
	assert.Equal(t, ModeFlags, DetermineMode(nil))
}

func TestDefectLog(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PFAST_HOME", dir)
	t.Setenv("PREFASTLOG", "")

	o := &GlobalOptions{}
	path, err := o.DefectLog(&config.Config{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "defects.xml"), path)

	o.LogPath = filepath.Join(dir, "flag")
	path, err = o.DefectLog(&config.Config{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "flag.xml"), path)

	path, err = o.DefectLog(&config.Config{}, filepath.Join(dir, "arg.xml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "arg.xml"), path)
}

func TestCoverage(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PREFASTCOVERAGEFILE", "")

	o := &GlobalOptions{}
	path, err := o.Coverage(&config.Config{})
	require.NoError(t, err)
	assert.Empty(t, path)

	cfg := &config.Config{Coverage: config.Coverage{File: filepath.Join(dir, "cov.xml")}}
	path, err = o.Coverage(cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cov.xml"), path)

	t.Setenv("PREFASTCOVERAGEFILE", filepath.Join(dir, "env.xml"))
	path, err = o.Coverage(cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "env.xml"), path)
}

func TestPreset(t *testing.T) {
	cfg := &config.Config{
		Coverage: config.Coverage{Codes: []string{"98101", "98102"}},
		Filters:  config.Filters{Preset: "wspmin"},
	}

	preset, err := (&GlobalOptions{}).Preset(cfg)
	require.NoError(t, err)
	assert.Equal(t, "wspmin", preset.Name)

	preset, err = (&GlobalOptions{FilterPreset: "(all defects)"}).Preset(cfg)
	require.NoError(t, err)
	assert.True(t, preset.IsAll())

	preset, err = (&GlobalOptions{FilterPreset: "(all defects)", WSPMin: true}).Preset(cfg)
	require.NoError(t, err)
	assert.Equal(t, "wspmin", preset.Name)

	_, err = (&GlobalOptions{FilterPreset: "unknown"}).Preset(cfg)
	assert.Error(t, err)
}

func TestNewSorter(t *testing.T) {
	_, ok := NewSorter(&config.Config{}, nil).(*sorter.InProcess)
	assert.True(t, ok)
	_, ok = NewSorter(&config.Config{Sort: config.Sort{Tool: "sortFile"}}, nil).(*sorter.External)
	assert.True(t, ok)
}

func newEngineFlags() (*pflag.FlagSet, *EngineOptions) {
	o := &EngineOptions{}
	flags := pflag.NewFlagSet("exec", pflag.ContinueOnError)
	AddEngineFlags(flags, o)
	flags.StringVar(new(string), "log", "", "")
	return flags, o
}

func TestApplySavedDefaults(t *testing.T) {
	store, err := registry.Load(filepath.Join(t.TempDir(), "saved-switches.yml"))
	require.NoError(t, err)
	require.NoError(t, store.Set("max-paths", "64"))
	require.NoError(t, store.Set("max-time", "100"))

	flags, o := newEngineFlags()
	require.NoError(t, flags.Parse([]string{"--max-time=7"}))
	require.NoError(t, ApplySavedDefaults(flags, store))
	assert.Equal(t, 64, o.MaxPaths, "saved value applies")
	assert.Equal(t, 7, o.MaxTime, "command line wins")

	engine := config.Engine{MaxPaths: 1, MaxTime: 1, StackHogThreshold: 1}
	o.ApplyEngine(flags, &engine)
	assert.Equal(t, config.Engine{MaxPaths: 64, MaxTime: 7, StackHogThreshold: 1}, engine)
}

func TestApplySavedDefaultsInvalidValue(t *testing.T) {
	store, err := registry.Load(filepath.Join(t.TempDir(), "saved-switches.yml"))
	require.NoError(t, err)
	require.NoError(t, store.Set("max-paths", "many"))

	flags, _ := newEngineFlags()
	require.NoError(t, flags.Parse(nil))
	err = ApplySavedDefaults(flags, store)
	assert.ErrorContains(t, err, "pfast unsave")
}

func TestHasFlags(t *testing.T) {
	flags, _ := newEngineFlags()
	require.NoError(t, flags.Parse(nil))
	assert.False(t, HasFlags(flags))

	flags, _ = newEngineFlags()
	require.NoError(t, flags.Parse([]string{"--list"}))
	assert.True(t, HasFlags(flags))
}

func TestRequireArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"Valid", []string{"in.xml", "out.txt"}, ""},
		{"Missing", []string{"in.xml"}, "missing required arguments: OUT"},
		{"None", nil, "missing required arguments: IN, OUT"},
		{"Extra", []string{"a", "b", "c"}, "unexpected positional arguments: c"},
		{"Empty", []string{"a", " "}, "OUT cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireArgs(tt.args, "IN", "OUT")
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.want)
		})
	}
}
