package cmd

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName        = "bts"
	configFileName        = configBaseName + ".yaml"
	defaultHomeFolderName = ".bts"

	homeFlagName       = "home"
	excludeFlagName    = "exclude"
	verboseFlagName    = "verbose"
	logFileFlagName    = "log-file"
	maxDepthFlagName   = "max-depth"
	withParentFlagName = "with-parent"
	appendFlagName     = "append"
	formatFlagName     = "format"
	parallelFlagName   = "parallel"

	homeConfigKey        = "home"
	maxDepthConfigKey    = "copy.max_depth"
	excludeConfigKey     = "copy.exclude"
	listThreadsConfigKey = "list.parallel"

	defaultMaxDepth = 32

	envPrefix     = "BTS"
	legacyHomeEnv = "BT_HOME"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = configBaseName + ".log"
	defaultLogLevel      = "info"
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

var logWriter *lumberjack.Logger

// setupConfig registers defaults and environment lookups. The config file
// itself lives in the snippet home and is read once flags are parsed.
func setupConfig() {
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	if err := viper.BindEnv(homeConfigKey, legacyHomeEnv, envPrefix+"_HOME"); err != nil {
		panic(err)
	}

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(homeConfigKey, defaultHome())
	viper.SetDefault(maxDepthConfigKey, defaultMaxDepth)
	viper.SetDefault(excludeConfigKey, []string{})
	viper.SetDefault(listThreadsConfigKey, runtime.NumCPU())

	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)
}

// defaultHome resolves ~/.bts, falling back to a relative .bts folder when the
// user has no home directory.
func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return defaultHomeFolderName
	}

	return filepath.Join(home, defaultHomeFolderName)
}

// currentHome returns the configured snippet home with a leading ~ expanded.
func currentHome() string {
	return expandHome(viper.GetString(homeConfigKey))
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(userHome, strings.TrimPrefix(path, "~"))
}

// loadConfigFile merges <home>/bts.yaml into viper when it exists.
func loadConfigFile(home string) error {
	viper.SetConfigFile(filepath.Join(home, configFileName))

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return err
	}

	return nil
}

// uintFlagOrConfig prefers an explicitly set flag and otherwise falls back to
// the config/env value for key.
func uintFlagOrConfig(flags *pflag.FlagSet, name, key string) uint {
	if flag := flags.Lookup(name); flag != nil && flag.Changed {
		if value, err := flags.GetUint(name); err == nil {
			return value
		}
	}

	return viper.GetUint(key)
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

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// resolveLogPath places relative log files inside the snippet home so that
// instantiating into the working directory never leaves a log behind.
func resolveLogPath(home, logPath string) string {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	if filepath.IsAbs(logPath) {
		return logPath
	}

	return filepath.Join(home, logPath)
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(home, logPath string, verbose bool) {
	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	if logWriter != nil {
		_ = logWriter.Close()
	}

	logWriter = &lumberjack.Logger{
		Filename:   resolveLogPath(home, logPath),
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
