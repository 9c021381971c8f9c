package save

import (
	"bufio"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/scan-io-git/pfast/internal/config"
	"github.com/scan-io-git/pfast/internal/registry"
	"github.com/scan-io-git/pfast/pkg/shared/errors"

	cmdutil "github.com/scan-io-git/pfast/internal/cmd"
)

// Global variables for configuration and command arguments
var (
	AppConfig   *config.Config
	globals     *cmdutil.GlobalOptions
	logger      hclog.Logger
	saveOptions cmdutil.EngineOptions

	exampleSaveUsage = `  # Make the coverage records hidden and raise the path limit for every later run
  pfast save --wspmin --max-paths 512

  # Show the switch defaults currently in effect
  pfast save`

	SaveCmd = &cobra.Command{
		Use:                   "save [flags]",
		Short:                 "Persist the given switches as defaults for later runs",
		Example:               exampleSaveUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Annotations:           map[string]string{cmdutil.SkipSavedDefaults: "true"},
		RunE:                  runSave,
	}

	UnsaveCmd = &cobra.Command{
		Use:                   "unsave",
		Short:                 "Forget every saved switch default",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Annotations:           map[string]string{cmdutil.SkipSavedDefaults: "true"},
		RunE:                  runUnsave,
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, opts *cmdutil.GlobalOptions, l hclog.Logger) {
	AppConfig = cfg
	globals = opts
	logger = l
}

func runSave(cmd *cobra.Command, args []string) error {
	if err := cmdutil.RequireArgs(args); err != nil {
		logger.Error("invalid command arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid arguments: %w", err), errors.ExitUsage)
	}

	store, err := registry.Load(config.GetSavedSwitchesPath(AppConfig))
	if err != nil {
		return errors.NewCommandError(err, errors.ExitFileAccess)
	}

	if err := Run(cmd.Flags(), store); err != nil {
		logger.Error("failed to save switch defaults", "error", err)
		return errors.NewCommandError(err, errors.ExitFileAccess)
	}
	logger.Debug("switch defaults saved", "path", store.Path())

	if err := WriteSwitches(cmd.OutOrStdout(), cmd.Flags(), store); err != nil {
		return errors.NewCommandError(err, errors.ExitFileAccess)
	}
	return nil
}

func runUnsave(cmd *cobra.Command, args []string) error {
	if err := cmdutil.RequireArgs(args); err != nil {
		logger.Error("invalid command arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid arguments: %w", err), errors.ExitUsage)
	}

	store, err := registry.Load(config.GetSavedSwitchesPath(AppConfig))
	if err != nil {
		logger.Warn("saved switch defaults are unreadable and will be discarded", "error", err)
		store = registry.New(config.GetSavedSwitchesPath(AppConfig))
	}
	store.Clear()
	if err := store.Save(); err != nil {
		logger.Error("failed to clear switch defaults", "error", err)
		return errors.NewCommandError(err, errors.ExitFileAccess)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Switch settings have been restored to product defaults.")
	return nil
}

// Run stores every savable flag set on the command line.
func Run(flags *pflag.FlagSet, store *registry.Store) error {
	var err error
	flags.Visit(func(f *pflag.Flag) {
		if err != nil || !registry.Savable(f.Name) {
			return
		}
		err = store.Set(f.Name, f.Value.String())
	})
	if err != nil {
		return err
	}
	return store.Save()
}

// WriteSwitches prints every savable switch with the value in effect.
func WriteSwitches(w io.Writer, flags *pflag.FlagSet, store *registry.Store) error {
	var justSaved, savedEarlier bool
	flags.VisitAll(func(f *pflag.Flag) {
		if !registry.Savable(f.Name) {
			return
		}
		if f.Changed {
			justSaved = true
		} else if _, ok := store.Get(f.Name); ok {
			savedEarlier = true
		}
	})

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "The following switch defaults are in effect:")
	if justSaved {
		fmt.Fprintln(bw, "(switches just saved are indicated with '*')")
	}
	if savedEarlier {
		fmt.Fprintln(bw, "(switches saved earlier are indicated with '+')")
	}
	flags.VisitAll(func(f *pflag.Flag) {
		if !registry.Savable(f.Name) {
			return
		}
		marker, value := "  ", f.DefValue
		if f.Changed {
			marker, value = "* ", f.Value.String()
		} else if saved, ok := store.Get(f.Name); ok {
			marker, value = "+ ", saved
		}
		fmt.Fprintf(bw, "%s--%s=%s\n", marker, f.Name, value)
	})
	return bw.Flush()
}

func init() {
	cmdutil.AddEngineFlags(SaveCmd.Flags(), &saveOptions)
	SaveCmd.Flags().BoolP("help", "h", false, "Show help for save command.")
	UnsaveCmd.Flags().BoolP("help", "h", false, "Show help for unsave command.")
}
