package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// AppName is the identity sent with every Inhibit call and used for
	// default file names.
	AppName = "wakeful"

	BaseDirName    = ".config/wakeful"
	HistoryDBName  = "wakeful.db"
	StatusFileName = "wakeful.status"
	PidFileName    = "wakeful.pid"
)

var Config *viper.Viper

var globalFlagsToConfigKey = map[string]string{
	"config-path": "config_path",
	"debug":       "debug",
}

func GetConfigPath() string {
	return Config.GetString("config_path")
}

func GetStatusPath() string {
	return Config.GetString("status_path")
}

func GetPIDFilePath() string {
	return Config.GetString("pid_path")
}

func GetHistoryDBPath() string {
	return filepath.Join(Config.GetString("config_path"), HistoryDBName)
}

func GetHistoryEnabled() bool {
	return Config.GetBool("history.enabled")
}

func GetDebug() bool {
	return Config.GetBool("debug")
}

func GetInhibitAppName() string {
	return Config.GetString("inhibit.app_name")
}

func GetLockReason() string {
	return Config.GetString("inhibit.lock_reason")
}

func GetSleepReason() string {
	return Config.GetString("inhibit.sleep_reason")
}

// GetPollInterval returns the control loop poll interval, falling back to
// one second when the configured value does not parse.
func GetPollInterval() time.Duration {
	interval, err := time.ParseDuration(Config.GetString("daemon.poll_interval"))
	if err != nil || interval <= 0 {
		return time.Second
	}
	return interval
}

func InitializeConfig(cmd *cobra.Command) ([]string, error) {
	Config = viper.New()

	// Set config path from user input
	configPath, err := cmd.Parent().Flags().GetString("config-path")
	if err != nil {
		panic("Unable to determine config path")
	}
	Config.AddConfigPath(configPath)

	// Set config name
	Config.SetConfigName("config")
	Config.SetConfigType("toml")

	// Set defaults
	Config.SetDefault("debug", false)
	Config.SetDefault("status_path", filepath.Join(os.TempDir(), StatusFileName))
	Config.SetDefault("pid_path", filepath.Join(os.TempDir(), PidFileName))
	Config.SetDefault("daemon.poll_interval", "1s")
	Config.SetDefault("inhibit.app_name", AppName)
	Config.SetDefault("inhibit.lock_reason", "wakeful prevents automatic locking")
	Config.SetDefault("inhibit.sleep_reason", "wakeful is preventing automatic sleep")
	Config.SetDefault("history.enabled", true)

	// Setup env reading
	Config.SetEnvPrefix("wakeful")

	// Load config file
	if err := Config.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found - create config path and write config with defaults
			err := os.MkdirAll(configPath, 0o755)
			if err != nil {
				panic(err)
			}
			Config.SafeWriteConfig()
		} else {
			// Config file was found but another error occurred
			panic(err)
		}
	}

	// In order to get environment variables mapped into config sections, we need to replace . with _
	Config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Config.AutomaticEnv() // read in environment variables that match

	// Bind the current command's flags to viper
	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			// Is this a global flag
			configKey, ok := globalFlagsToConfigKey[f.Name]
			if !ok {
				return
			}

			// Apply the viper config value to the flag when the flag is not set and viper has a value
			if !f.Changed && Config.IsSet(configKey) {
				cmd.Flags().Set(f.Name, fmt.Sprintf("%v", Config.Get(configKey)))
			} else {
				Config.Set(configKey, fmt.Sprintf("%v", f.Value))
			}
		})
	}

	return []string{}, nil
}
