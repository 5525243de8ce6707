package main

import (
	"github.com/spf13/cobra"

	"finorbit/internal/cli"
	"finorbit/internal/config"
	"finorbit/internal/log"
)

// app is the state shared by every command once the root hook has run.
type app struct {
	cfg    *config.Config
	logger *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "finorbit",
		Short: "Personal finance dashboards",
		Long: `finorbit serves the personal finance dashboards: net worth, spending,
savings and investments, rendered from page documents in PAYLOAD_DIR.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadAndValidateConfig()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = cli.SetupLogger(cfg)
			return nil
		},
	}
	cmd.AddCommand(newServeCmd(a), newRenderCmd(a))
	return cmd
}
