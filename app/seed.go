package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zsh123456-BOOP/jnu-web/internal/daemon"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the admin account and the default site settings",
	Long: `Create the admin account and the default site settings when they are
missing. Running it again changes nothing. Without a configured admin
password a random one is generated and printed once.`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return loadConfig()
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := daemon.OpenDB(&cfg)
		if err != nil {
			return err
		}

		password, err := daemon.Seed(cmd.Context(), &cfg, db)
		if err != nil {
			return err
		}

		if password != "" {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "admin user %q created with password %s\n", cfg.Admin.Username, password)
		}

		return nil
	},
}
