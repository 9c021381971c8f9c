package flatten

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/pfast/internal/config"
	"github.com/scan-io-git/pfast/internal/defectlog"
	"github.com/scan-io-git/pfast/pkg/shared/errors"
	"github.com/scan-io-git/pfast/pkg/shared/files"

	cmdutil "github.com/scan-io-git/pfast/internal/cmd"
)

// Global variables for configuration and command arguments
var (
	AppConfig *config.Config
	globals   *cmdutil.GlobalOptions
	logger    hclog.Logger

	exampleFlattenUsage = `  # Convert a defect log into one tab separated line per defect
  pfast flatten defects.xml defects.txt`

	FlattenCmd = &cobra.Command{
		Use:                   "flatten IN OUT",
		Short:                 "Convert a defect log into the flat line-per-defect form",
		Example:               exampleFlattenUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runFlatten,
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, opts *cmdutil.GlobalOptions, l hclog.Logger) {
	AppConfig = cfg
	globals = opts
	logger = l
}

func runFlatten(cmd *cobra.Command, args []string) error {
	if err := cmdutil.RequireArgs(args, "IN", "OUT"); err != nil {
		logger.Error("invalid command arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid arguments: %w", err), errors.ExitUsage)
	}

	in, err := files.ExpandPath(args[0])
	if err != nil {
		return errors.NewCommandError(err, errors.ExitUsage)
	}
	out, err := files.ExpandPath(args[1])
	if err != nil {
		return errors.NewCommandError(err, errors.ExitUsage)
	}

	count, err := defectlog.FlattenToFile(in, out)
	if err != nil {
		logger.Error("failed to flatten the defect log", "error", err)
		return errors.FromPipelineError(err)
	}

	logger.Info("defect log flattened", "input", in, "output", out, "defects", count)
	return nil
}

func init() {
	FlattenCmd.Flags().BoolP("help", "h", false, "Show help for flatten command.")
}
