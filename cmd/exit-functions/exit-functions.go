package exitfunctions

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/pfast/internal/config"
	"github.com/scan-io-git/pfast/internal/exitfuncs"
	"github.com/scan-io-git/pfast/pkg/shared/errors"
	"github.com/scan-io-git/pfast/pkg/shared/files"

	cmdutil "github.com/scan-io-git/pfast/internal/cmd"
)

// Global variables for configuration and command arguments
var (
	AppConfig *config.Config
	globals   *cmdutil.GlobalOptions
	logger    hclog.Logger

	WriteExitFunctionsCmd = &cobra.Command{
		Use:                   "write-exit-functions TEXT XML",
		Short:                 "Model the functions listed in a text file as never returning",
		Example:               "  pfast write-exit-functions exitfuncs.txt exitfuncs.xml",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runWriteExitFunctions,
	}

	ReadExitFunctionsCmd = &cobra.Command{
		Use:                   "read-exit-functions XML TEXT",
		Short:                 "List the functions a model file marks as never returning",
		Example:               "  pfast read-exit-functions exitfuncs.xml exitfuncs.txt",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runReadExitFunctions,
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, opts *cmdutil.GlobalOptions, l hclog.Logger) {
	AppConfig = cfg
	globals = opts
	logger = l
}

func runWriteExitFunctions(cmd *cobra.Command, args []string) error {
	text, xml, err := preparePaths(args, "TEXT", "XML")
	if err != nil {
		return err
	}

	count, err := exitfuncs.WriteExitFunctions(text, xml)
	if err != nil {
		logger.Error("failed to write the exit function models", "error", err)
		return errors.FromPipelineError(err)
	}
	logger.Info("exit function models written", "path", xml, "functions", count)
	return nil
}

func runReadExitFunctions(cmd *cobra.Command, args []string) error {
	xml, text, err := preparePaths(args, "XML", "TEXT")
	if err != nil {
		return err
	}

	count, err := exitfuncs.ReadExitFunctions(xml, text)
	if err != nil {
		logger.Error("failed to read the exit function models", "error", err)
		return errors.FromPipelineError(err)
	}
	logger.Info("exit functions listed", "path", text, "functions", count)
	return nil
}

func preparePaths(args []string, names ...string) (string, string, error) {
	if err := cmdutil.RequireArgs(args, names...); err != nil {
		logger.Error("invalid command arguments", "error", err)
		return "", "", errors.NewCommandError(fmt.Errorf("invalid arguments: %w", err), errors.ExitUsage)
	}
	first, err := files.ExpandPath(args[0])
	if err != nil {
		return "", "", errors.NewCommandError(err, errors.ExitUsage)
	}
	second, err := files.ExpandPath(args[1])
	if err != nil {
		return "", "", errors.NewCommandError(err, errors.ExitUsage)
	}
	return first, second, nil
}

func init() {
	WriteExitFunctionsCmd.Flags().BoolP("help", "h", false, "Show help for write-exit-functions command.")
	ReadExitFunctionsCmd.Flags().BoolP("help", "h", false, "Show help for read-exit-functions command.")
}
