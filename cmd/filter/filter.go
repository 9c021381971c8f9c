package filter

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/pfast/internal/config"
	"github.com/scan-io-git/pfast/internal/defectlog"
	"github.com/scan-io-git/pfast/pkg/shared/errors"

	cmdutil "github.com/scan-io-git/pfast/internal/cmd"
	presets "github.com/scan-io-git/pfast/internal/filter"
)

// Global variables for configuration and command arguments
var (
	AppConfig *config.Config
	globals   *cmdutil.GlobalOptions
	logger    hclog.Logger

	exampleFilterUsage = `  # Keep only the records accepted by a preset
  pfast filter defects.xml security.xml --filter-preset security

  # Drop the coverage records in place
  pfast filter defects.xml defects.xml --wspmin`

	FilterCmd = &cobra.Command{
		Use:                   "filter IN OUT",
		Short:                 "Write the defects accepted by the selected filter preset",
		Example:               exampleFilterUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runFilter,
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, opts *cmdutil.GlobalOptions, l hclog.Logger) {
	AppConfig = cfg
	globals = opts
	logger = l
}

func runFilter(cmd *cobra.Command, args []string) error {
	if err := cmdutil.RequireArgs(args, "IN", "OUT"); err != nil {
		logger.Error("invalid command arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid arguments: %w", err), errors.ExitUsage)
	}

	preset, err := globals.Preset(AppConfig)
	if err != nil {
		return errors.NewCommandError(err, errors.ExitUsage)
	}

	count, err := Run(args[0], args[1], preset)
	if err != nil {
		logger.Error("failed to filter the defect log", "error", err)
		return errors.FromPipelineError(err)
	}

	logger.Info("defect log filtered", "input", args[0], "output", args[1], "filter", preset.Name, "defects", count)
	return nil
}

// Run writes the records of the log at in accepted by preset to out and returns their number.
func Run(in, out string, preset presets.Preset) (int, error) {
	doc, err := defectlog.LoadDocument(in)
	if err != nil {
		return 0, err
	}
	filtered := presets.Apply(doc, preset)
	if err := defectlog.SaveDocument(out, filtered); err != nil {
		return 0, err
	}
	return filtered.Len(), nil
}

func init() {
	FilterCmd.Flags().BoolP("help", "h", false, "Show help for filter command.")
}
