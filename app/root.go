// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/guit-county/guit-portal/internal/config"
	"github.com/guit-county/guit-portal/internal/logger"
)

const (
	// EnvConfigPath is the env var holding the config directory.
	EnvConfigPath = "GUIT_PORTAL_CONFIG"

	keyConfigPath = "config"
)

var rootCmd = &cobra.Command{
	Use:   "guit-portal",
	Short: "guit-portal is the back office of the Guit County website",
	Long: `guit-portal serves the json api of the Guit County website: the content
collections, the public data feed, uploads, site settings and the admin accounts.`,
	Args:          cobra.OnlyValidArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().String(keyConfigPath, "", "Directory of main.toml (default ./etc/)")

	_ = viper.BindPFlag(keyConfigPath, rootCmd.PersistentFlags().Lookup(keyConfigPath))
	_ = viper.BindEnv(keyConfigPath, EnvConfigPath)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads .env and the config of the --config flag or GUIT_PORTAL_CONFIG.
func loadConfig() (config.Config, error) {
	config.LoadEnv()

	path := viper.GetString(keyConfigPath)
	if path != "" && path[len(path)-1] != '/' {
		path += "/"
	}

	return config.ReadConfig(path)
}

// initLogger sets up the global logger from cfg.
func initLogger(cfg *config.Config) error {
	return logger.Init(cfg.Log)
}
