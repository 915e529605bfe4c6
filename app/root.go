// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/Zsh123456-BOOP/jnu-web/internal/config"
	"github.com/Zsh123456-BOOP/jnu-web/internal/logger"
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(
		&configPath,
		"config",
		"c",
		"./etc/",
		"Directory holding main.toml",
	)
}

var (
	configPath string // Path to the configuration directory

	cfg config.Config

	rootCmd = &cobra.Command{
		Use:   "jnu-web",
		Short: "jnu-web serves the API of the research lab website",
		Long: `jnu-web serves the JSON API behind the public site of the research lab
and its admin console: modules, contents, team members, uploads and site settings.`,
		Args:         cobra.OnlyValidArgs,
		SilenceUsage: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration and initializes the global logger.
func loadConfig() error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	if cfg.Log.AppName == "" {
		cfg.Log.AppName = "jnu-web"
	}

	if cfg.Log.ServiceName == "" {
		cfg.Log.ServiceName = "api"
	}

	if cfg.Log.LogLevel == "" {
		cfg.Log.LogLevel = "info"
	}

	return logger.Init(cfg.Log)
}
