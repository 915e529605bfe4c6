package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zsh123456-BOOP/jnu-web/internal/daemon"
)

func init() { //nolint: gochecknoinits
	settingsCmd.AddCommand(settingsListCmd, settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

var (
	settingsCmd = &cobra.Command{
		Use:   "settings",
		Short: "Inspect or reset the stored site settings",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadConfig()
		},
	}

	settingsListCmd = &cobra.Command{
		Use:   "list",
		Short: "Print every stored settings row",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := daemon.OpenDB(&cfg)
			if err != nil {
				return err
			}

			rows, err := daemon.StoredSettings(cmd.Context(), db)
			if err != nil {
				return err
			}

			for _, r := range rows {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", r.Key, r.UpdatedAt.Format("2006-01-02 15:04:05"), r.ValueJSON)
			}

			return nil
		},
	}

	settingsResetCmd = &cobra.Command{
		Use:   "reset KEY",
		Short: "Delete a stored settings row, domains fall back to their defaults",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := daemon.OpenDB(&cfg)
			if err != nil {
				return err
			}

			return daemon.ResetSetting(cmd.Context(), db, args[0])
		},
	}
)
