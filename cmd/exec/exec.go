package exec

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/pfast/internal/config"
	"github.com/scan-io-git/pfast/internal/engine"
	"github.com/scan-io-git/pfast/internal/filter"
	"github.com/scan-io-git/pfast/internal/runner"
	"github.com/scan-io-git/pfast/pkg/shared/artifacts"
	"github.com/scan-io-git/pfast/pkg/shared/errors"

	cmdutil "github.com/scan-io-git/pfast/internal/cmd"
)

// RunOptionsExec holds the arguments of the exec command.
type RunOptionsExec struct {
	cmdutil.EngineOptions
	DryRun bool
}

// Global variables for configuration and command arguments
var (
	AppConfig   *config.Config
	globals     *cmdutil.GlobalOptions
	logger      hclog.Logger
	execOptions RunOptionsExec

	exampleExecUsage = `  # Run a build under analysis and list the new defects
  pfast exec --list build -cZ

  # Show what would happen without running anything
  pfast exec -n --filter --wspmin nmake /f makefile

  # Keep the previous defects and raise the path limit
  pfast exec --reset=false --max-paths 512 build`

	ExecCmd = &cobra.Command{
		Use:                   "exec [flags] BUILD [ARGS...]",
		Short:                 "Run a build with the analysis engine and post-process the defect log",
		Example:               exampleExecUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runExec,
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, opts *cmdutil.GlobalOptions, l hclog.Logger) {
	AppConfig = cfg
	globals = opts
	logger = l
}

func runExec(cmd *cobra.Command, args []string) error {
	if err := validateExecArgs(&execOptions, args); err != nil {
		logger.Error("invalid command arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid arguments: %w", err), errors.ExitUsage)
	}

	engineCfg := AppConfig.Engine
	execOptions.ApplyEngine(cmd.Flags(), &engineCfg)
	if err := config.ValidateEngineConfig(&engineCfg); err != nil {
		logger.Error("invalid engine switches", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid arguments: %w", err), errors.ExitUsage)
	}

	log, err := globals.DefectLog(AppConfig)
	if err != nil {
		return errors.NewCommandError(err, errors.ExitUsage)
	}
	coverage, err := globals.Coverage(AppConfig)
	if err != nil {
		return errors.NewCommandError(err, errors.ExitUsage)
	}
	preset := filter.Preset{Name: filter.AllDefects}
	if execOptions.Filter || execOptions.List {
		if preset, err = globals.Preset(AppConfig); err != nil {
			return errors.NewCommandError(err, errors.ExitUsage)
		}
	}

	settings := engine.Settings{
		LogPath:      log,
		CoverageFile: coverage,
		Macro:        execOptions.Macro,
		OnePass:      execOptions.OnePass,
		WrapperDir:   engineCfg.WrapperDir,
		Engine:       engineCfg,
	}
	s := &session{
		options:       &execOptions,
		log:           log,
		coverage:      coverage,
		coverageCodes: AppConfig.Coverage.Codes,
		preset:        preset,
		env:           engine.Environment(settings, os.Getenv),
		runner:        runner.New(logger),
		deduper:       cmdutil.NewDeduper(AppConfig, logger),
		out:           cmd.OutOrStdout(),
		logger:        logger,
	}

	result, err := s.run(args)
	if err != nil {
		logger.Error("exec failed", "error", err)
		return errors.FromPipelineError(err)
	}
	if !execOptions.DryRun {
		if _, err := artifacts.SaveArtifactJSON(config.GetPfastArtifactsHome(AppConfig), logger, "exec", args[0], result); err != nil {
			logger.Warn("failed to save the exec artifact", "error", err)
		}
	}
	if result.Status != 0 {
		return errors.NewExitStatus(result.Status)
	}
	return nil
}

func init() {
	ExecCmd.Flags().SetInterspersed(false)
	cmdutil.AddEngineFlags(ExecCmd.Flags(), &execOptions.EngineOptions)
	ExecCmd.Flags().BoolVarP(&execOptions.DryRun, "dry-run", "n", false, "Print the steps and the build command without running them")
	ExecCmd.Flags().BoolP("help", "h", false, "Show help for exec command.")
}
