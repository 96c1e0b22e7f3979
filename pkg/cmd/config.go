package cmd

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/siyuan-infoblox/pyaz/pkg/errors"
)

const (
	configBaseName    = "pyaz"
	defaultConfigFile = "." + configBaseName + ".yaml"

	appNamesFlagName   = "app-names"
	formatFlagName     = "format"
	colorFlagName      = "color"
	parallelFlagName   = "parallel"
	excludeFlagName    = "exclude"
	exitZeroFlagName   = "exit-zero"
	statisticsFlagName = "statistics"
	configFlagName     = "config"
	logFileFlagName    = "log-file"
	verboseFlagName    = "verbose"
	versionFlagName    = "version"

	appNamesKey   = "app_names"
	formatKey     = "format"
	colorKey      = "color"
	parallelKey   = "parallel"
	excludeKey    = "exclude"
	exitZeroKey   = "exit_zero"
	statisticsKey = "statistics"

	defaultFormat     = "text"
	defaultColor      = "auto"
	defaultParallel   = 0 // one worker per CPU
	defaultExitZero   = false
	defaultStatistics = false

	envPrefix = "PYAZ"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = "." + configBaseName + ".log"
	defaultLogLevel      = "info"
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

// initConfig resets viper to the built-in defaults and the PYAZ_ environment.
// Flags are bound afterwards, by configureRootFlags.
func initConfig() {
	viper.Reset()
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(appNamesKey, []string{})
	viper.SetDefault(formatKey, defaultFormat)
	viper.SetDefault(colorKey, defaultColor)
	viper.SetDefault(parallelKey, defaultParallel)
	viper.SetDefault(excludeKey, []string{})
	viper.SetDefault(exitZeroKey, defaultExitZero)
	viper.SetDefault(statisticsKey, defaultStatistics)

	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)
}

// loadConfig reads the YAML config file. Without an explicit path the
// working directory's .pyaz.yaml is used if it exists.
func loadConfig(path string) error {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = defaultConfigFile
	}

	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		if !explicit && stderrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%s: %w", errors.ErrMsgFailedToReadConfig, err)
	}
	return nil
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Numeric slog levels are accepted too, e.g. -4 for debug
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger points the default slog logger at a rotating log file.
// It logs at the configured level, or at Debug when verbose is set.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
