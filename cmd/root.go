package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/pfast/cmd/exec"
	exitfunctions "github.com/scan-io-git/pfast/cmd/exit-functions"
	"github.com/scan-io-git/pfast/cmd/filter"
	"github.com/scan-io-git/pfast/cmd/flatten"
	"github.com/scan-io-git/pfast/cmd/list"
	"github.com/scan-io-git/pfast/cmd/removedups"
	"github.com/scan-io-git/pfast/cmd/reset"
	"github.com/scan-io-git/pfast/cmd/save"
	tohtml "github.com/scan-io-git/pfast/cmd/to-html"
	tosarif "github.com/scan-io-git/pfast/cmd/to-sarif"
	"github.com/scan-io-git/pfast/cmd/unflatten"
	"github.com/scan-io-git/pfast/cmd/version"
	"github.com/scan-io-git/pfast/internal/config"
	"github.com/scan-io-git/pfast/internal/logger"
	"github.com/scan-io-git/pfast/internal/registry"
	"github.com/scan-io-git/pfast/pkg/shared/errors"

	cmdutil "github.com/scan-io-git/pfast/internal/cmd"
)

var (
	AppConfig     *config.Config
	globalOptions cmdutil.GlobalOptions
	rootCmd       = &cobra.Command{
		Use:                   "pfast [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "pfast drives PREfast analysis builds and manages their defect logs.",
		Long: `pfast runs a build under the PREfast analysis engine and post-processes the defect log
	it produces: duplicate removal, filtering, listing, flat-file conversion and SARIF export.
	`,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globalOptions.ConfigPath, "config", "", "Config file (default is $PFAST_HOME/config.yml)")
	flags.StringVar(&globalOptions.LogPath, "log", "", "Defect log to work on (default is PREFASTLOG or $PFAST_HOME/defects.xml)")
	flags.StringVar(&globalOptions.CoverageFile, "coverage-file", "", "File receiving the coverage records found while removing duplicates")
	flags.StringVar(&globalOptions.FiltersFile, "filters-file", "", "YAML file with additional filter presets")
	flags.StringVar(&globalOptions.FilterPreset, "filter-preset", "", "Filter preset applied by list, countf, filter and exec (default is '(all defects)')")
	flags.BoolVar(&globalOptions.WSPMin, "wspmin", false, "Shorthand for --filter-preset=wspmin")
	flags.IntVar(&globalOptions.Verbose, "verbose", 1, "Verbosity from 0 (errors only) to 3 (trace)")

	rootCmd.AddCommand(
		flatten.FlattenCmd,
		unflatten.UnflattenCmd,
		removedups.RemoveDupsCmd,
		list.ListCmd,
		list.CountCmd,
		list.CountFCmd,
		filter.FilterCmd,
		reset.ResetCmd,
		exec.ExecCmd,
		save.SaveCmd,
		save.UnsaveCmd,
		exitfunctions.WriteExitFunctionsCmd,
		exitfunctions.ReadExitFunctionsCmd,
		tosarif.ToSarifCmd,
		tohtml.ToHTMLCmd,
		version.NewVersionCmd(),
	)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	err := rootCmd.Execute()
	if err == nil {
		return errors.ExitOK
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
	}
	return errors.ExitCodeFor(err)
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(globalOptions.ConfigPath)
	if err != nil {
		return errors.NewCommandError(fmt.Errorf("initializing config file function is crashed: %w", err), errors.ExitUsage)
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return errors.NewCommandError(err, errors.ExitUsage)
	}

	if cmd.Annotations[cmdutil.SkipSavedDefaults] == "" {
		store, err := registry.Load(config.GetSavedSwitchesPath(cfg))
		if err != nil {
			return errors.NewCommandError(fmt.Errorf("%w; run `pfast unsave` to restore the product defaults", err), errors.ExitUsage)
		}
		if err := cmdutil.ApplySavedDefaults(cmd.Flags(), store); err != nil {
			return errors.NewCommandError(err, errors.ExitUsage)
		}
	}

	if cmd.Flags().Changed("verbose") {
		level, err := logger.LevelFromVerbosity(globalOptions.Verbose)
		if err != nil {
			return errors.NewCommandError(err, errors.ExitUsage)
		}
		cfg.Logger.Level = level
	}
	AppConfig = cfg

	version.Init(AppConfig)
	flatten.Init(AppConfig, &globalOptions, logger.NewLogger(AppConfig, "core-flatten"))
	unflatten.Init(AppConfig, &globalOptions, logger.NewLogger(AppConfig, "core-unflatten"))
	removedups.Init(AppConfig, &globalOptions, logger.NewLogger(AppConfig, "core-removedups"))
	list.Init(AppConfig, &globalOptions, logger.NewLogger(AppConfig, "core-list"))
	filter.Init(AppConfig, &globalOptions, logger.NewLogger(AppConfig, "core-filter"))
	reset.Init(AppConfig, &globalOptions, logger.NewLogger(AppConfig, "core-reset"))
	exec.Init(AppConfig, &globalOptions, logger.NewLogger(AppConfig, "core-exec"))
	save.Init(AppConfig, &globalOptions, logger.NewLogger(AppConfig, "core-save"))
	exitfunctions.Init(AppConfig, &globalOptions, logger.NewLogger(AppConfig, "core-exit-functions"))
	tosarif.Init(AppConfig, &globalOptions, logger.NewLogger(AppConfig, "core-to-sarif"))
	tohtml.Init(AppConfig, &globalOptions, logger.NewLogger(AppConfig, "core-to-html"))
	return nil
}
