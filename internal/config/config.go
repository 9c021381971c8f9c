package config

import (
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v2"
)

// Config is the global pfast configuration read from config.yml.
type Config struct {
	Pfast     Pfast     `yaml:"pfast"`
	Logger    Logger    `yaml:"logger"`
	Sort      Sort      `yaml:"sort"`
	DefectLog DefectLog `yaml:"defect_log"`
	Coverage  Coverage  `yaml:"coverage"`
	Engine    Engine    `yaml:"engine"`
	Filters   Filters   `yaml:"filters"`
}

// Pfast holds the folders pfast works in.
type Pfast struct {
	HomeFolder string `yaml:"home_folder"`
	TempFolder string `yaml:"temp_folder"`
}

// Logger configures the hclog loggers.
type Logger struct {
	Level           string `yaml:"level"`
	DisableTime     *bool  `yaml:"disable_time"`
	JSONFormat      *bool  `yaml:"json_format"`
	IncludeLocation *bool  `yaml:"include_location"`
}

// Sort selects the sort implementation used to remove duplicates.
// An empty Tool means the in-process sort.
type Sort struct {
	Tool string `yaml:"tool"`
}

// DefectLog holds the default defect log location.
type DefectLog struct {
	Path string `yaml:"path"`
}

// Coverage configures the coverage side channel of removedups.
type Coverage struct {
	Codes []string `yaml:"codes"`
	File  string   `yaml:"file"`
}

// Engine holds the defaults exported to the analysis engine by exec.
type Engine struct {
	MaxPaths           int    `yaml:"max_paths"`
	MaxTime            int    `yaml:"max_time"`
	IncreaseHeap       int    `yaml:"increase_heap"`
	StackHogThreshold  int    `yaml:"stack_hog_threshold"`
	EnableCritsWarning bool   `yaml:"enable_crits_warning"`
	NewFailure         string `yaml:"new_failure"`
	ClExe              string `yaml:"cl_exe"`
	Exclude            string `yaml:"exclude"`
	WrapperDir         string `yaml:"wrapper_dir"`
}

// Filters points at the filter presets file and the preset used by default.
type Filters struct {
	File   string `yaml:"file"`
	Preset string `yaml:"preset"`
}

const configFileName = "config.yml"

// ValidateConfigPath checks that path exists and is not a directory.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes the YAML file at configPath into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// LoadConfig reads the configuration file. An empty path means config.yml in the pfast
// home folder, which may be missing; an explicit path must exist.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		path = filepath.Join(GetPfastHome(cfg), configFileName)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return cfg, nil
		}
	}

	if err := LoadYAML(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config %q: %w", path, err)
	}
	return cfg, nil
}

// GetPfastHome returns the pfast home folder: PFAST_HOME, then the configured folder, then ~/.pfast.
func GetPfastHome(cfg *Config) string {
	if home := os.Getenv("PFAST_HOME"); home != "" {
		return home
	}
	if cfg != nil && cfg.Pfast.HomeFolder != "" {
		return cfg.Pfast.HomeFolder
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pfast"
	}
	return filepath.Join(home, ".pfast")
}

// GetPfastTempHome returns the folder for temporary files.
func GetPfastTempHome(cfg *Config) string {
	if cfg != nil && cfg.Pfast.TempFolder != "" {
		return cfg.Pfast.TempFolder
	}
	return filepath.Join(GetPfastHome(cfg), "tmp")
}

// GetDefectLog returns the default defect log: PREFASTLOG, then defect_log.path, then defects.xml in the home folder.
func GetDefectLog(cfg *Config) string {
	if env := os.Getenv("PREFASTLOG"); env != "" {
		return env
	}
	if cfg != nil && cfg.DefectLog.Path != "" {
		return cfg.DefectLog.Path
	}
	return filepath.Join(GetPfastHome(cfg), "defects.xml")
}

// GetSavedSwitchesPath returns the location of the persisted switch defaults.
func GetSavedSwitchesPath(cfg *Config) string {
	return filepath.Join(GetPfastHome(cfg), "saved-switches.yml")
}

// GetPfastArtifactsHome returns the folder receiving the exec run artifacts.
func GetPfastArtifactsHome(cfg *Config) string {
	return filepath.Join(GetPfastHome(cfg), "artifacts")
}
