package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/scan-io-git/pfast/pkg/shared/files"
)

// Engine defaults exported by exec when the configuration leaves a value unset.
const (
	DefaultMaxPaths          = 256
	DefaultMaxTime           = 5000
	DefaultStackHogThreshold = 1024
	DefaultNewFailure        = "never"
	DefaultClExe             = "default"
	DefaultExclude           = "none;"
)

var newFailureModes = map[string]bool{"never": true, "null": true, "throw": true}

// ValidateConfig checks the global configuration, fills in defaults and creates the pfast folders.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := ValidatePfastConfig(cfg); err != nil {
		return fmt.Errorf("YAML global config: pfast directive is invalid: %w", err)
	}
	if err := ValidateCoverageConfig(&cfg.Coverage); err != nil {
		return fmt.Errorf("YAML global config: coverage directive is invalid: %w", err)
	}
	if err := ValidateEngineConfig(&cfg.Engine); err != nil {
		return fmt.Errorf("YAML global config: engine directive is invalid: %w", err)
	}
	return nil
}

// ValidatePfastConfig resolves the home and temp folders and makes sure they exist.
func ValidatePfastConfig(cfg *Config) error {
	if err := updateFolder(&cfg.Pfast.HomeFolder, "PFAST_HOME", GetPfastHome(cfg)); err != nil {
		return fmt.Errorf("failed to update home folder: %w", err)
	}
	if err := updateFolder(&cfg.Pfast.TempFolder, "PFAST_TEMP_FOLDER", GetPfastTempHome(cfg)); err != nil {
		return fmt.Errorf("failed to update temp folder: %w", err)
	}
	return nil
}

// ValidateCoverageConfig checks that exactly two distinct positive coverage codes are configured.
func ValidateCoverageConfig(coverage *Coverage) error {
	if coverage == nil {
		return fmt.Errorf("coverage configuration is nil")
	}
	if len(coverage.Codes) == 0 {
		coverage.Codes = []string{"98101", "98102"}
		return nil
	}
	if len(coverage.Codes) != 2 {
		return fmt.Errorf("codes must list exactly two defect codes, got %d", len(coverage.Codes))
	}
	for _, code := range coverage.Codes {
		if n, err := strconv.Atoi(code); err != nil || n <= 0 {
			return fmt.Errorf("code %q is not a positive number", code)
		}
	}
	if coverage.Codes[0] == coverage.Codes[1] {
		return fmt.Errorf("codes must be distinct, got %q twice", coverage.Codes[0])
	}
	return nil
}

// ValidateEngineConfig checks the engine values and applies the defaults.
func ValidateEngineConfig(engine *Engine) error {
	if engine == nil {
		return fmt.Errorf("engine configuration is nil")
	}

	values := map[string]int{
		"max_paths":           engine.MaxPaths,
		"max_time":            engine.MaxTime,
		"increase_heap":       engine.IncreaseHeap,
		"stack_hog_threshold": engine.StackHogThreshold,
	}
	for name, value := range values {
		if err := validateNonNegative(value, name); err != nil {
			return err
		}
	}

	engine.MaxPaths = SetThen(engine.MaxPaths, DefaultMaxPaths)
	engine.MaxTime = SetThen(engine.MaxTime, DefaultMaxTime)
	engine.StackHogThreshold = SetThen(engine.StackHogThreshold, DefaultStackHogThreshold)
	engine.NewFailure = SetThen(engine.NewFailure, DefaultNewFailure)
	engine.ClExe = SetThen(engine.ClExe, DefaultClExe)
	engine.Exclude = SetThen(engine.Exclude, DefaultExclude)

	if !newFailureModes[engine.NewFailure] {
		return fmt.Errorf("new_failure must be one of never, null, throw: %q", engine.NewFailure)
	}
	return nil
}

// validateNonNegative checks that a numeric setting is not negative.
func validateNonNegative(value int, name string) error {
	if value < 0 {
		return fmt.Errorf("invalid value for %q: %d cannot be negative", name, value)
	}
	return nil
}

// updateFolder sets folder from envVar or the default, expands it and creates it.
func updateFolder(folder *string, envVar, defaultFolder string) error {
	if envVarValue := os.Getenv(envVar); envVarValue != "" {
		*folder = envVarValue
	} else if *folder == "" {
		*folder = defaultFolder
	}

	expandedPath, err := files.ExpandPath(*folder)
	if err != nil {
		return fmt.Errorf("failed to expand path %q: %w", *folder, err)
	}
	*folder = expandedPath

	if err := files.CreateFolderIfNotExists(expandedPath); err != nil {
		return fmt.Errorf("failed to create folder %q: %w", expandedPath, err)
	}
	return nil
}
