package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/siyuan-infoblox/pyaz/pkg/errors"
	"github.com/siyuan-infoblox/pyaz/pkg/linter"
	"github.com/siyuan-infoblox/pyaz/pkg/report"
	"github.com/siyuan-infoblox/pyaz/pkg/utils"
	"github.com/siyuan-infoblox/pyaz/pkg/version"
)

const (
	UseDescription   = "pyaz [flags] PATH..."
	ShortDescription = "Python import alphabetizer - checks that Python imports are sorted"
	LongDescription  = `pyaz is a command-line tool that checks the order of imports in Python sources.

It reports:
  AZ100  import statements in the wrong order
  AZ200  names inside a from-import in the wrong order
  AZ300  adjacent from-imports of the same module that should be combined
  AZ400  names of __all__ in the wrong order

Imports are ordered as __future__ imports first, then third-party modules,
then first-party modules (--app-names), then relative imports. When
--app-names is not given, first-party names come from the nearest
pyproject.toml ([tool.pyaz] app-names, project.name or tool.poetry.name).

Each PATH can be a .py or .pyi file or a directory. Directories are
searched recursively, skipping hidden directories, virtualenvs and caches.`
)

var (
	appNames        []string
	outputFormat    string
	colorMode       string
	parallel        int
	excludePatterns []string
	exitZero        bool
	showStatistics  bool
	configFile      string
	logFile         string
	verbose         bool
	showVersion     bool
)

var rootCmd *cobra.Command

func init() {
	initConfig()
	rootCmd = newRootCmd()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           UseDescription,
		Short:         ShortDescription,
		Long:          LongDescription,
		Args:          validateArgs,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	configureRootFlags(cmd)
	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringSliceVar(&appNames, appNamesFlagName, viper.GetStringSlice(appNamesKey), "Comma-separated first-party package names (e.g., myapp,myapp_tests)")
	bindFlagToConfig(flags.Lookup(appNamesFlagName), appNamesKey)

	flags.StringVar(&outputFormat, formatFlagName, viper.GetString(formatKey), "Output format: text, json or yaml")
	bindFlagToConfig(flags.Lookup(formatFlagName), formatKey)

	flags.StringVar(&colorMode, colorFlagName, viper.GetString(colorKey), "Colorize text output: auto, always or never")
	bindFlagToConfig(flags.Lookup(colorFlagName), colorKey)

	flags.IntVarP(&parallel, parallelFlagName, "j", viper.GetInt(parallelKey), "Number of files checked in parallel (0 means one per CPU)")
	bindFlagToConfig(flags.Lookup(parallelFlagName), parallelKey)

	flags.StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeKey), "Exclude files matching regex (can be repeated)")
	bindFlagToConfig(flags.Lookup(excludeFlagName), excludeKey)

	flags.BoolVar(&exitZero, exitZeroFlagName, viper.GetBool(exitZeroKey), "Exit with status 0 even if problems were found")
	bindFlagToConfig(flags.Lookup(exitZeroFlagName), exitZeroKey)

	flags.BoolVar(&showStatistics, statisticsFlagName, viper.GetBool(statisticsKey), "Print the number of problems per code")
	bindFlagToConfig(flags.Lookup(statisticsFlagName), statisticsKey)

	flags.StringVar(&logFile, logFileFlagName, viper.GetString(logFilenameKey), "Path of the log file")
	bindFlagToConfig(flags.Lookup(logFileFlagName), logFilenameKey)

	flags.BoolVar(&verbose, verboseFlagName, viper.GetBool(logVerboseKey), "Log at debug level")
	bindFlagToConfig(flags.Lookup(verboseFlagName), logVerboseKey)

	flags.StringVar(&configFile, configFlagName, "", "Config file (default is ./"+defaultConfigFile+")")
	flags.BoolVarP(&showVersion, versionFlagName, "v", false, "Show version information")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

func validateArgs(cmd *cobra.Command, args []string) error {
	// The version flag needs no paths
	if showVersion {
		return nil
	}
	return cobra.MinimumNArgs(1)(cmd, args)
}

// runOptions is the resolved configuration of one run
type runOptions struct {
	format     report.Format
	color      report.ColorMode
	statistics bool
	exitZero   bool
	linter     linter.LinterConfig
}

func resolveOptions() (runOptions, error) {
	var opts runOptions

	format, err := report.ParseFormat(viper.GetString(formatKey))
	if err != nil {
		return opts, err
	}
	opts.format = format

	mode, err := report.ParseColorMode(viper.GetString(colorKey))
	if err != nil {
		return opts, err
	}
	opts.color = mode

	n := viper.GetInt(parallelKey)
	if n < 0 {
		return opts, fmt.Errorf("%w: %d", errors.ErrInvalidParallel, n)
	}

	excludes, err := utils.CompileExcludes(viper.GetStringSlice(excludeKey))
	if err != nil {
		return opts, err
	}

	opts.statistics = viper.GetBool(statisticsKey)
	opts.exitZero = viper.GetBool(exitZeroKey)
	opts.linter = linter.LinterConfig{
		AppNames: viper.GetStringSlice(appNamesKey),
		Parallel: n,
		Excludes: excludes,
	}
	return opts, nil
}

func run(cmd *cobra.Command, args []string) error {
	if showVersion {
		fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
		return nil
	}

	// PYAZ_ variables may also come from a .env file; real environment wins
	_ = godotenv.Load()
	if err := loadConfig(configFile); err != nil {
		return err
	}
	configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))

	opts, err := resolveOptions()
	if err != nil {
		return err
	}
	opts.color.Apply()
	if len(opts.linter.AppNames) > 0 {
		slog.Info(fmt.Sprintf(errors.InfoMsgAppNames, strings.Join(opts.linter.AppNames, ", ")))
	}

	results, err := linter.New(opts.linter).ProcessPaths(cmd.Context(), args)
	if err != nil {
		return err
	}

	rep := report.New(results)
	if opts.format == report.FormatText {
		for _, fe := range rep.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), errors.InfoMsgErrorProcessing+"\n", fe.Path, fe.Error)
		}
	}

	if err := rep.Write(cmd.OutOrStdout(), opts.format); err != nil {
		return err
	}

	if opts.statistics {
		// Keep machine-readable stdout parseable
		statsOut := cmd.OutOrStdout()
		if opts.format != report.FormatText {
			statsOut = cmd.ErrOrStderr()
		}
		if err := rep.WriteStatistics(statsOut); err != nil {
			return err
		}
	}

	summary := fmt.Sprintf(errors.InfoMsgCheckedCount, rep.Files, len(rep.Problems))
	if len(rep.Errors) > 0 {
		summary += fmt.Sprintf(errors.InfoMsgErrorCount, len(rep.Errors))
	}
	slog.Info(summary)

	if opts.exitZero || !rep.HasProblems() {
		return nil
	}
	if len(rep.Errors) > 0 {
		return fmt.Errorf(errors.ErrMsgFilesFailedToProcess, len(rep.Errors))
	}
	return errors.ErrDiagnosticsFound
}

// Execute runs the root command. Problems found in the checked files only
// set the exit status; any other error is also printed.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !stderrors.Is(err, errors.ErrDiagnosticsFound) {
		rootCmd.PrintErrln("Error:", err)
	}
	return err
}
