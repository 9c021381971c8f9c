package reset

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/pfast/internal/config"
	"github.com/scan-io-git/pfast/internal/defect"
	"github.com/scan-io-git/pfast/pkg/shared/errors"
	"github.com/scan-io-git/pfast/pkg/shared/files"

	cmdutil "github.com/scan-io-git/pfast/internal/cmd"
)

// Global variables for configuration and command arguments
var (
	AppConfig *config.Config
	globals   *cmdutil.GlobalOptions
	logger    hclog.Logger

	ResetCmd = &cobra.Command{
		Use:                   "reset [LOG]",
		Short:                 "Delete the defect log",
		Example:               "  pfast reset\n  pfast reset build/defects.xml",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runReset,
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, opts *cmdutil.GlobalOptions, l hclog.Logger) {
	AppConfig = cfg
	globals = opts
	logger = l
}

func runReset(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		err := fmt.Errorf("unexpected positional arguments: %v", args[1:])
		logger.Error("invalid command arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid arguments: %w", err), errors.ExitUsage)
	}

	log, err := globals.DefectLog(AppConfig, args...)
	if err != nil {
		return errors.NewCommandError(err, errors.ExitUsage)
	}
	if err := Run(log); err != nil {
		logger.Error("failed to reset the defect log", "error", err)
		return errors.FromPipelineError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "The PREfast Defect Log file was reset:\n\t%q\n", log)
	return nil
}

// Run deletes the defect log at path. A missing log is already reset.
func Run(path string) error {
	if err := files.RemoveIfExists(path); err != nil {
		return &defect.FilesystemError{Op: "delete", Path: path, Err: err}
	}
	return nil
}

func init() {
	ResetCmd.Flags().BoolP("help", "h", false, "Show help for reset command.")
}
