package unflatten

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

	exampleUnflattenUsage = `  # Rebuild a defect log from its flat form
  pfast unflatten defects.txt defects.xml`

	UnflattenCmd = &cobra.Command{
		Use:                   "unflatten IN OUT",
		Short:                 "Rebuild a defect log from the flat line-per-defect form",
		Example:               exampleUnflattenUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runUnflatten,
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, opts *cmdutil.GlobalOptions, l hclog.Logger) {
	AppConfig = cfg
	globals = opts
	logger = l
}

func runUnflatten(cmd *cobra.Command, args []string) error {
	if err := cmdutil.RequireArgs(args, "IN", "OUT"); err != nil {
		logger.Error("invalid command arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid arguments: %w", err), errors.ExitUsage)
	}

	in, err := files.ExpandPath(args[0])
	if err != nil {
		return errors.NewCommandError(err, errors.ExitUsage)
	}
	out, err := files.ResolveXMLPath(args[1])
	if err != nil {
		return errors.NewCommandError(err, errors.ExitUsage)
	}

	count, err := defectlog.UnflattenFile(in, out)
	if err != nil {
		logger.Error("failed to unflatten the flat file", "error", err)
		return errors.FromPipelineError(err)
	}

	logger.Info("defect log rebuilt", "input", in, "output", out, "defects", count)
	return nil
}

func init() {
	UnflattenCmd.Flags().BoolP("help", "h", false, "Show help for unflatten command.")
}
