package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"finorbit/internal/cli"
	"finorbit/internal/log"
	"finorbit/internal/pages"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		out   string
		focus string
	)
	cmd := &cobra.Command{
		Use:       "render <page>",
		Short:     "Render one dashboard page to HTML",
		Long:      "Render one dashboard page to stdout, or to a file with --out.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: pageNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := cli.LoadPayloads(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			srv, err := cli.NewServer(a.cfg, store, a.logger)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := srv.RenderPage(ctx, &buf, args[0], focus); err != nil {
				return err
			}
			if out == "" {
				_, err = buf.WriteTo(cmd.OutOrStdout())
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			a.logger.WithComponent(log.ComponentCLI).Info("Page rendered",
				log.FieldOperation, log.OpRender, log.FieldPage, args[0], "out", out, "bytes", buf.Len())
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the page to this file instead of stdout")
	cmd.Flags().StringVar(&focus, "focus", "", "legend label to highlight on the page's donuts")
	return cmd
}

func pageNames() []string {
	modules := pages.Default().Modules()
	names := make([]string, len(modules))
	for i, m := range modules {
		names[i] = m.Name()
	}
	return names
}
