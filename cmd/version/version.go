package version

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/pfast/internal/config"
)

var (
	AppConfig     *config.Config
	CoreVersion   = "unknown"
	GolangVersion = "unknown"
	BuildTime     = "unknown"
	jsonOutput    bool
)

// Versions holds version information for the binary and the tools it drives.
type Versions struct {
	Version       string `json:"version"`
	GolangVersion string `json:"golang_version"`
	BuildTime     string `json:"build_time"`
	SortTool      string `json:"sort_tool"`
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// NewVersionCmd creates a new cobra.Command for the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "version",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Print the version number of the application",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printVersionInfo(cmd.OutOrStdout(), currentVersions(), jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the version information as JSON")
	return cmd
}

func currentVersions() Versions {
	sortTool := "in-process"
	if AppConfig != nil && AppConfig.Sort.Tool != "" {
		sortTool = AppConfig.Sort.Tool
	}
	return Versions{
		Version:       CoreVersion,
		GolangVersion: GolangVersion,
		BuildTime:     BuildTime,
		SortTool:      sortTool,
	}
}

// printVersionInfo prints the version information as text or JSON.
func printVersionInfo(w io.Writer, versions Versions, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(versions)
	}
	fmt.Fprintf(w, "Core Version: v%s\n", versions.Version)
	fmt.Fprintf(w, "Go Version: %s\n", versions.GolangVersion)
	fmt.Fprintf(w, "Build Time: %s\n", versions.BuildTime)
	fmt.Fprintf(w, "Sort Tool: %s\n", versions.SortTool)
	return nil
}
