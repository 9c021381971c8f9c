package engine

import (
	"os"
	"strconv"
	"strings"

	"github.com/scan-io-git/pfast/internal/config"
)

// Settings are the values exec hands to the analysis engine through the build environment.
type Settings struct {
	LogPath      string
	CoverageFile string
	Macro        bool
	OnePass      bool
	WrapperDir   string
	Engine       config.Engine
}

// Variables returns the engine variables as NAME=value pairs in a fixed order.
// PREFAST_MACRO, PREFAST_ONEPASS and PREFASTCOVERAGEFILE are only set when enabled.
func Variables(s Settings) []string {
	e := s.Engine
	vars := []string{
		"PREFASTLOG=" + s.LogPath,
		"_DFA_MAX_PATHS_=" + strconv.Itoa(e.MaxPaths),
		"_PREFAST_MAX_TIME_=" + strconv.Itoa(e.MaxTime),
		"PREFAST_INCREASE_HEAP=" + strconv.Itoa(e.IncreaseHeap),
		"_PRECEDENCE_STACK_THRESHOLD_=" + strconv.Itoa(e.StackHogThreshold),
		"_PRECEDENCE_FLAG_INITCRITS_=" + boolFlag(e.EnableCritsWarning),
		"_DFA_NEW_FAILURE_=" + e.NewFailure,
		"PREFAST_USER_CL_EXE=" + e.ClExe,
		"PREFAST_EXCLUDE_LIST=" + e.Exclude,
	}
	if s.Macro {
		vars = append(vars, "PREFAST_MACRO=1")
	}
	if s.OnePass {
		vars = append(vars, "PREFAST_ONEPASS=1")
	}
	if s.CoverageFile != "" {
		vars = append(vars, "PREFASTCOVERAGEFILE="+s.CoverageFile)
	}
	return vars
}

// Environment returns Variables plus PATH, and BUILD_PATH when it is set,
// prefixed with the compiler wrapper directory. getenv reads the current environment.
func Environment(s Settings, getenv func(string) string) []string {
	vars := Variables(s)
	if s.WrapperDir == "" {
		return vars
	}
	if getenv == nil {
		getenv = os.Getenv
	}

	addPath := s.WrapperDir + string(os.PathListSeparator)
	vars = append(vars,
		"PREFAST_ADD_PATH="+addPath,
		"PATH="+addPath+getenv("PATH"),
	)
	if buildPath := getenv("BUILD_PATH"); buildPath != "" {
		vars = append(vars, "BUILD_PATH="+addPath+buildPath)
	}
	return vars
}

// Lookup returns the value of name in a NAME=value list.
func Lookup(vars []string, name string) (string, bool) {
	for _, v := range vars {
		if k, value, ok := strings.Cut(v, "="); ok && k == name {
			return value, true
		}
	}
	return "", false
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
