package cmd

import (
	"github.com/spf13/pflag"

	"github.com/scan-io-git/pfast/internal/config"
)

// EngineOptions are the analysis switches shared by exec and save.
type EngineOptions struct {
	MaxPaths           int
	MaxTime            int
	IncreaseHeap       int
	StackHogThreshold  int
	EnableCritsWarning bool
	NewFailure         string
	ClExe              string
	Exclude            string
	Macro              bool
	OnePass            bool

	Reset      bool
	Filter     bool
	RemoveDups bool
	List       bool
}

// AddEngineFlags registers the engine switches on flags.
func AddEngineFlags(flags *pflag.FlagSet, o *EngineOptions) {
	flags.IntVar(&o.MaxPaths, "max-paths", config.DefaultMaxPaths, "Maximum number of paths the engine explores per function")
	flags.IntVar(&o.MaxTime, "max-time", config.DefaultMaxTime, "Maximum analysis time per function, in milliseconds")
	flags.IntVar(&o.IncreaseHeap, "increase-heap", 0, "Additional engine heap, in megabytes")
	flags.IntVar(&o.StackHogThreshold, "stack-hog-threshold", config.DefaultStackHogThreshold, "Stack usage in bytes above which a function is reported")
	flags.BoolVar(&o.EnableCritsWarning, "enable-crits-warning", false, "Report critical sections that are never initialized")
	flags.StringVar(&o.NewFailure, "new-failure", config.DefaultNewFailure, "How the engine models a failing allocation: never, null or throw")
	flags.StringVar(&o.ClExe, "cl-exe", config.DefaultClExe, "Compiler invoked after analysis, 'default' for the one found on PATH")
	flags.StringVar(&o.Exclude, "exclude", config.DefaultExclude, "Semicolon separated list of paths excluded from analysis")
	flags.BoolVar(&o.Macro, "macro", false, "Report defects found inside macro expansions")
	flags.BoolVar(&o.OnePass, "onepass", false, "Analyse and compile in a single pass")

	flags.BoolVar(&o.Reset, "reset", true, "Reset the defect log before the build")
	flags.BoolVar(&o.Filter, "filter", false, "Replace the defect log with its filtered records after the build")
	flags.BoolVar(&o.RemoveDups, "removedups", true, "Remove duplicate defects after the build")
	flags.BoolVar(&o.List, "list", false, "List the defect log after the build")
}

// ApplyEngine copies the engine switches set on the command line, or restored from
// the saved defaults, over the configured values.
func (o *EngineOptions) ApplyEngine(flags *pflag.FlagSet, engine *config.Engine) {
	if flags.Changed("max-paths") {
		engine.MaxPaths = o.MaxPaths
	}
	if flags.Changed("max-time") {
		engine.MaxTime = o.MaxTime
	}
	if flags.Changed("increase-heap") {
		engine.IncreaseHeap = o.IncreaseHeap
	}
	if flags.Changed("stack-hog-threshold") {
		engine.StackHogThreshold = o.StackHogThreshold
	}
	if flags.Changed("enable-crits-warning") {
		engine.EnableCritsWarning = o.EnableCritsWarning
	}
	if flags.Changed("new-failure") {
		engine.NewFailure = o.NewFailure
	}
	if flags.Changed("cl-exe") {
		engine.ClExe = o.ClExe
	}
	if flags.Changed("exclude") {
		engine.Exclude = o.Exclude
	}
}
