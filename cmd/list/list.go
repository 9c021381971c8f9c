package list

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/pfast/internal/config"
	"github.com/scan-io-git/pfast/internal/defectlog"
	"github.com/scan-io-git/pfast/internal/filter"
	"github.com/scan-io-git/pfast/pkg/shared/errors"

	cmdutil "github.com/scan-io-git/pfast/internal/cmd"
)

// Global variables for configuration and command arguments
var (
	AppConfig *config.Config
	globals   *cmdutil.GlobalOptions
	logger    hclog.Logger

	exampleListUsage = `  # List the default defect log
  pfast list

  # List a specific log without the coverage records
  pfast list build/defects.xml --wspmin`

	ListCmd = &cobra.Command{
		Use:                   "list [LOG]",
		Short:                 "Print the filtered defect log as text",
		Example:               exampleListUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runList,
	}

	CountCmd = &cobra.Command{
		Use:                   "count [LOG]",
		Short:                 "Print the number of defects; the exit status is the count",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(cmd, args, false)
		},
	}

	CountFCmd = &cobra.Command{
		Use:                   "countf [LOG]",
		Short:                 "Print the number of filtered defects; the exit status is the count",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(cmd, args, true)
		},
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, opts *cmdutil.GlobalOptions, l hclog.Logger) {
	AppConfig = cfg
	globals = opts
	logger = l
}

func runList(cmd *cobra.Command, args []string) error {
	log, err := resolveLog(args)
	if err != nil {
		return err
	}

	preset, err := globals.Preset(AppConfig)
	if err != nil {
		return errors.NewCommandError(err, errors.ExitUsage)
	}

	doc, err := defectlog.LoadDocument(log)
	if err != nil {
		logger.Error("failed to load the defect log", "error", err)
		return errors.FromPipelineError(err)
	}

	logger.Info("contents of defect log", "path", log)
	if err := WriteListing(cmd.OutOrStdout(), doc, preset); err != nil {
		return errors.NewCommandError(err, errors.ExitFileAccess)
	}
	return nil
}

func runCount(cmd *cobra.Command, args []string, filtered bool) error {
	log, err := resolveLog(args)
	if err != nil {
		return err
	}

	doc, err := defectlog.LoadDocument(log)
	if err != nil {
		logger.Error("failed to load the defect log", "error", err)
		return errors.FromPipelineError(err)
	}

	if filtered {
		preset, err := globals.Preset(AppConfig)
		if err != nil {
			return errors.NewCommandError(err, errors.ExitUsage)
		}
		doc = filter.Apply(doc, preset)
		logger.Info("number of filtered defects in defect log", "path", log, "filter", preset.Name)
	} else {
		logger.Info("number of unfiltered defects in defect log", "path", log)
	}

	fmt.Fprintln(cmd.OutOrStdout(), doc.Len())
	if doc.Len() > 0 {
		return errors.NewExitStatus(doc.Len())
	}
	return nil
}

func resolveLog(args []string) (string, error) {
	if len(args) > 1 {
		err := fmt.Errorf("unexpected positional arguments: %v", args[1:])
		logger.Error("invalid command arguments", "error", err)
		return "", errors.NewCommandError(fmt.Errorf("invalid arguments: %w", err), errors.ExitUsage)
	}
	log, err := globals.DefectLog(AppConfig, args...)
	if err != nil {
		return "", errors.NewCommandError(err, errors.ExitUsage)
	}
	return log, nil
}

func init() {
	ListCmd.Flags().BoolP("help", "h", false, "Show help for list command.")
	CountCmd.Flags().BoolP("help", "h", false, "Show help for count command.")
	CountFCmd.Flags().BoolP("help", "h", false, "Show help for countf command.")
}
