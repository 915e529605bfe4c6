package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zsh123456-BOOP/jnu-web/internal/config"
)

func init() { //nolint: gochecknoinits
	configDumpCmd.Flags().BoolVar(&dumpJSON, "json", false, "Dump as JSON instead of TOML")

	configCmd.AddCommand(configDumpCmd)
	rootCmd.AddCommand(configCmd)
}

var (
	dumpJSON bool

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	configDumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration with secrets masked",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := config.ReadConfig(configPath)
			if err != nil {
				return err
			}

			dump := config.DumpConfig
			if dumpJSON {
				dump = config.DumpConfigJSON
			}

			out, err := dump(config.Redacted(c))
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), out)

			return err
		},
	}
)
