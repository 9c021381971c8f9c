package tosarif

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/pfast/internal/config"
	"github.com/scan-io-git/pfast/internal/defectlog"
	"github.com/scan-io-git/pfast/internal/filter"
	"github.com/scan-io-git/pfast/internal/sarif"
	"github.com/scan-io-git/pfast/pkg/shared/errors"
	"github.com/scan-io-git/pfast/pkg/shared/files"

	cmdutil "github.com/scan-io-git/pfast/internal/cmd"
)

// RunOptionsToSarif holds the arguments of the to-sarif command.
type RunOptionsToSarif struct {
	Input               string
	OutputPath          string
	Filtered            bool
	SortByLevel         bool
	RemoveDuplicateFlow bool
}

// Global variables for configuration and command arguments
var (
	AppConfig       *config.Config
	globals         *cmdutil.GlobalOptions
	logger          hclog.Logger
	toSarifOptions  RunOptionsToSarif
	defaultFileName = "defects.sarif"

	exampleToSarifUsage = `  # Export the default defect log as SARIF into the current folder
  pfast to-sarif -o .

  # Export the filtered records of a specific log
  pfast to-sarif -i build/defects.xml -o build/defects.sarif --filtered --wspmin`

	ToSarifCmd = &cobra.Command{
		Use:                   "to-sarif [-i LOG] -o PATH [--filtered] [--sort-by-level]",
		Short:                 "Export a defect log as a SARIF 2.1.0 report",
		Example:               exampleToSarifUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runToSarif,
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, opts *cmdutil.GlobalOptions, l hclog.Logger) {
	AppConfig = cfg
	globals = opts
	logger = l
}

func runToSarif(cmd *cobra.Command, args []string) error {
	if err := cmdutil.RequireArgs(args); err != nil {
		logger.Error("invalid command arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid arguments: %w", err), errors.ExitUsage)
	}
	if toSarifOptions.OutputPath == "" {
		err := fmt.Errorf("missing required flags: output")
		logger.Error("invalid command arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid arguments: %w", err), errors.ExitUsage)
	}

	input, err := globals.DefectLog(AppConfig, toSarifOptions.Input)
	if err != nil {
		return errors.NewCommandError(err, errors.ExitUsage)
	}
	outputFile, outputFolder, err := files.DetermineFileFullPath(toSarifOptions.OutputPath, defaultFileName)
	if err != nil {
		return errors.NewCommandError(err, errors.ExitUsage)
	}
	if err := files.CreateFolderIfNotExists(outputFolder); err != nil {
		return errors.NewCommandError(err, errors.ExitFileAccess)
	}

	doc, err := defectlog.LoadDocument(input)
	if err != nil {
		logger.Error("failed to load the defect log", "error", err)
		return errors.FromPipelineError(err)
	}
	if toSarifOptions.Filtered {
		preset, err := globals.Preset(AppConfig)
		if err != nil {
			return errors.NewCommandError(err, errors.ExitUsage)
		}
		doc = filter.Apply(doc, preset)
	}

	report, err := sarif.FromDocument(doc, logger)
	if err != nil {
		return errors.NewCommandError(err, errors.ExitUsage)
	}
	if toSarifOptions.RemoveDuplicateFlow {
		report.RemoveDataflowDuplicates()
	}
	if toSarifOptions.SortByLevel {
		report.SortResultsByLevel()
	}

	if err := report.WriteFile(outputFile); err != nil {
		logger.Error("failed to write the SARIF report", "error", err)
		return errors.FromPipelineError(err)
	}

	severity := report.CollectSeverityInfo()
	logger.Info("SARIF report written", "path", outputFile,
		"total", severity["total"], "error", severity["error"], "warning", severity["warning"], "note", severity["note"])
	return nil
}

func init() {
	ToSarifCmd.Flags().StringVarP(&toSarifOptions.Input, "input", "i", "", "Defect log to export (default is the current defect log)")
	ToSarifCmd.Flags().StringVarP(&toSarifOptions.OutputPath, "output", "o", "", "Output file or folder for the SARIF report")
	ToSarifCmd.Flags().BoolVar(&toSarifOptions.Filtered, "filtered", false, "Export only the records accepted by the selected filter preset")
	ToSarifCmd.Flags().BoolVar(&toSarifOptions.SortByLevel, "sort-by-level", false, "Order results error, warning, note")
	ToSarifCmd.Flags().BoolVar(&toSarifOptions.RemoveDuplicateFlow, "dedup-flows", true, "Drop repeated code flows of a result")
	ToSarifCmd.Flags().BoolP("help", "h", false, "Show help for to-sarif command.")
}
