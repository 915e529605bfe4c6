package app

import (
	"github.com/spf13/cobra"

	"github.com/Zsh123456-BOOP/jnu-web/internal/daemon"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")
	startCmd.Flags().BoolVar(&fastShutdown, "fast-shutdown", false, "Stop without the health drain period")

	rootCmd.AddCommand(startCmd)
}

var (
	devMode      bool
	fastShutdown bool

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the jnu-web API service",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if err := loadConfig(); err != nil {
				return err
			}

			if devMode {
				cfg.DevMode = true
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := daemon.New(cmd.Context(), &cfg)
			if err != nil {
				return err
			}

			d.SetFastShutdown(fastShutdown)

			return d.Start()
		},
	}
)
