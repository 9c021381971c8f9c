package removedups

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/pfast/internal/config"
	"github.com/scan-io-git/pfast/internal/dedup"
	"github.com/scan-io-git/pfast/pkg/shared/errors"

	cmdutil "github.com/scan-io-git/pfast/internal/cmd"
)

// RunOptionsRemoveDups holds the arguments of the removedups command.
type RunOptionsRemoveDups struct {
	Inputs []string
	Output string
}

// Global variables for configuration and command arguments
var (
	AppConfig         *config.Config
	globals           *cmdutil.GlobalOptions
	logger            hclog.Logger
	removeDupsOptions RunOptionsRemoveDups

	exampleRemoveDupsUsage = `  # Remove duplicates from the default defect log in place
  pfast removedups

  # Remove duplicates from a specific log in place
  pfast removedups build/defects.xml

  # Merge several logs into one without duplicates
  pfast removedups amd64.xml x86.xml merged.xml

  # Same, with explicit flags
  pfast removedups -i amd64.xml -i x86.xml -o merged.xml --coverage-file coverage.xml`

	RemoveDupsCmd = &cobra.Command{
		Use:                   "removedups [LOG | IN... OUT] [-i IN]... [-o OUT]",
		Short:                 "Merge defect logs and drop duplicate defects",
		Example:               exampleRemoveDupsUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runRemoveDups,
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, opts *cmdutil.GlobalOptions, l hclog.Logger) {
	AppConfig = cfg
	globals = opts
	logger = l
}

func runRemoveDups(cmd *cobra.Command, args []string) error {
	mode := cmdutil.DetermineMode(args)

	if err := validateRemoveDupsArgs(&removeDupsOptions, args, mode); err != nil {
		logger.Error("invalid command arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid arguments: %w", err), errors.ExitUsage)
	}

	inputs, output, err := prepareRemoveDupsTargets(&removeDupsOptions, args, mode)
	if err != nil {
		logger.Error("failed to prepare removedups targets", "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to prepare removedups targets: %w", err), errors.ExitUsage)
	}

	coverage, err := globals.Coverage(AppConfig)
	if err != nil {
		return errors.NewCommandError(err, errors.ExitUsage)
	}

	count, err := cmdutil.NewDeduper(AppConfig, logger).RemoveDuplicates(dedup.Options{
		Inputs:         inputs,
		Output:         output,
		CoverageOutput: coverage,
		CoverageCodes:  AppConfig.Coverage.Codes,
	})
	if err != nil {
		logger.Error("failed to remove duplicate defects", "error", err)
		return errors.FromPipelineError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d unique defect(s) written to %s\n", count, output)
	return nil
}

func init() {
	RemoveDupsCmd.Flags().StringSliceVarP(&removeDupsOptions.Inputs, "input", "i", nil, "Defect log to merge (repeat flag or use comma-separated values)")
	RemoveDupsCmd.Flags().StringVarP(&removeDupsOptions.Output, "output", "o", "", "Defect log receiving the unique defects")
	RemoveDupsCmd.Flags().BoolP("help", "h", false, "Show help for removedups command.")
}
