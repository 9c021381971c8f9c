package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"

	"github.com/scan-io-git/pfast/internal/config"
	"github.com/scan-io-git/pfast/internal/dedup"
	"github.com/scan-io-git/pfast/internal/filter"
	"github.com/scan-io-git/pfast/internal/registry"
	"github.com/scan-io-git/pfast/internal/runner"
	"github.com/scan-io-git/pfast/internal/sorter"
	"github.com/scan-io-git/pfast/pkg/shared/files"
)

// Mode constants
const (
	ModeArgs  = "args"
	ModeFlags = "flags"
)

// SkipSavedDefaults is the command annotation that keeps saved switches from being applied.
const SkipSavedDefaults = "pfast/skip-saved-defaults"

// DetermineMode determines the mode based on the provided arguments.
func DetermineMode(args []string) string {
	if len(args) > 0 {
		return ModeArgs
	}
	return ModeFlags
}

// GlobalOptions are the switches shared by every command.
type GlobalOptions struct {
	ConfigPath   string
	LogPath      string
	CoverageFile string
	FiltersFile  string
	FilterPreset string
	WSPMin       bool
	Verbose      int
}

// DefectLog resolves the defect log: the positional argument, then --log, then the configured default.
func (o *GlobalOptions) DefectLog(cfg *config.Config, args ...string) (string, error) {
	path := config.GetDefectLog(cfg)
	if len(args) > 0 && args[0] != "" {
		path = args[0]
	} else if o.LogPath != "" {
		path = o.LogPath
	}
	resolved, err := files.ResolveXMLPath(path)
	if err != nil {
		return "", fmt.Errorf("invalid defect log path %q: %w", path, err)
	}
	return resolved, nil
}

// Coverage resolves the coverage file: --coverage-file, then PREFASTCOVERAGEFILE, then the config.
// An empty result disables the coverage side channel.
func (o *GlobalOptions) Coverage(cfg *config.Config) (string, error) {
	path := o.CoverageFile
	if path == "" {
		path = os.Getenv("PREFASTCOVERAGEFILE")
	}
	if path == "" && cfg != nil {
		path = cfg.Coverage.File
	}
	if path == "" {
		return "", nil
	}
	resolved, err := files.ResolveXMLPath(path)
	if err != nil {
		return "", fmt.Errorf("invalid coverage file path %q: %w", path, err)
	}
	return resolved, nil
}

// Preset returns the filter preset selected by --wspmin, --filter-preset or the config.
func (o *GlobalOptions) Preset(cfg *config.Config) (filter.Preset, error) {
	presetsFile := o.FiltersFile
	name := o.FilterPreset
	var codes []string
	if cfg != nil {
		codes = cfg.Coverage.Codes
		presetsFile = config.SetThen(presetsFile, cfg.Filters.File)
		name = config.SetThen(name, cfg.Filters.Preset)
	}
	if o.WSPMin {
		name = filter.WSPMin
	}

	presets, err := filter.LoadPresets(presetsFile, codes)
	if err != nil {
		return filter.Preset{}, err
	}
	return presets.Get(name)
}

// NewSorter returns the configured sort implementation.
func NewSorter(cfg *config.Config, logger hclog.Logger) sorter.Sorter {
	if cfg == nil || cfg.Sort.Tool == "" {
		return sorter.NewInProcess(logger)
	}
	return sorter.NewExternal(cfg.Sort.Tool, runner.New(logger), logger)
}

// NewDeduper returns a Deduper using the configured sort and temp folder.
func NewDeduper(cfg *config.Config, logger hclog.Logger) *dedup.Deduper {
	return dedup.New(NewSorter(cfg, logger), config.GetPfastTempHome(cfg), logger)
}

// HasFlags reports whether any flag was set on the command line.
func HasFlags(flags *pflag.FlagSet) bool {
	hasFlags := false
	flags.Visit(func(*pflag.Flag) {
		hasFlags = true
	})
	return hasFlags
}

// ApplySavedDefaults sets every flag not given on the command line to its saved value.
func ApplySavedDefaults(flags *pflag.FlagSet, store *registry.Store) error {
	var issues []string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed || !registry.Savable(f.Name) {
			return
		}
		value, ok := store.Get(f.Name)
		if !ok {
			return
		}
		if err := flags.Set(f.Name, value); err != nil {
			issues = append(issues, fmt.Sprintf("--%s=%q: %v", f.Name, value, err))
		}
	})
	if len(issues) > 0 {
		return fmt.Errorf("invalid saved switch defaults in %s: %s; run `pfast unsave` to restore the product defaults",
			store.Path(), strings.Join(issues, "; "))
	}
	return nil
}

// RequireArgs checks that args holds exactly one value per name.
func RequireArgs(args []string, names ...string) error {
	var issues []string
	if len(args) < len(names) {
		issues = append(issues, fmt.Sprintf("missing required arguments: %s", strings.Join(names[len(args):], ", ")))
	}
	if len(args) > len(names) {
		issues = append(issues, fmt.Sprintf("unexpected positional arguments: %s", strings.Join(args[len(names):], ", ")))
	}
	for i, arg := range args {
		if i < len(names) && strings.TrimSpace(arg) == "" {
			issues = append(issues, fmt.Sprintf("%s cannot be empty", names[i]))
		}
	}
	if len(issues) > 0 {
		return fmt.Errorf("%s", strings.Join(issues, "; "))
	}
	return nil
}
