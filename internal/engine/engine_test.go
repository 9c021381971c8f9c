package engine

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scan-io-git/pfast/internal/config"
)

func defaults() config.Engine {
	return config.Engine{
		MaxPaths:          config.DefaultMaxPaths,
		MaxTime:           config.DefaultMaxTime,
		StackHogThreshold: config.DefaultStackHogThreshold,
		NewFailure:        config.DefaultNewFailure,
		ClExe:             config.DefaultClExe,
		Exclude:           config.DefaultExclude,
	}
}

func TestVariablesDefaults(t *testing.T) {
	vars := Variables(Settings{LogPath: "/logs/defects.xml", Engine: defaults()})

	assert.Equal(t, []string{
		"PREFASTLOG=/logs/defects.xml",
		"_DFA_MAX_PATHS_=256",
		"_PREFAST_MAX_TIME_=5000",
		"PREFAST_INCREASE_HEAP=0",
		"_PRECEDENCE_STACK_THRESHOLD_=1024",
		"_PRECEDENCE_FLAG_INITCRITS_=0",
		"_DFA_NEW_FAILURE_=never",
		"PREFAST_USER_CL_EXE=default",
		"PREFAST_EXCLUDE_LIST=none;",
	}, vars)
}

func TestVariablesOptional(t *testing.T) {
	e := defaults()
	e.EnableCritsWarning = true
	vars := Variables(Settings{Engine: e, Macro: true, OnePass: true, CoverageFile: "cov.xml"})

	for name, want := range map[string]string{
		"_PRECEDENCE_FLAG_INITCRITS_": "1",
		"PREFAST_MACRO":               "1",
		"PREFAST_ONEPASS":             "1",
		"PREFASTCOVERAGEFILE":         "cov.xml",
	} {
		got, ok := Lookup(vars, name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
}

func TestEnvironmentPrependsWrapperDir(t *testing.T) {
	sep := string(os.PathListSeparator)
	env := map[string]string{"PATH": "/usr/bin", "BUILD_PATH": "/ddk/bin"}
	getenv := func(k string) string { return env[k] }

	vars := Environment(Settings{Engine: defaults(), WrapperDir: "/pfast/interceptcl"}, getenv)

	path, _ := Lookup(vars, "PATH")
	assert.Equal(t, "/pfast/interceptcl"+sep+"/usr/bin", path)
	buildPath, _ := Lookup(vars, "BUILD_PATH")
	assert.Equal(t, "/pfast/interceptcl"+sep+"/ddk/bin", buildPath)

	delete(env, "BUILD_PATH")
	vars = Environment(Settings{Engine: defaults(), WrapperDir: "/pfast/interceptcl"}, getenv)
	_, ok := Lookup(vars, "BUILD_PATH")
	assert.False(t, ok)

	vars = Environment(Settings{Engine: defaults()}, getenv)
	_, ok = Lookup(vars, "PATH")
	assert.False(t, ok, "no wrapper dir leaves PATH alone")
}
