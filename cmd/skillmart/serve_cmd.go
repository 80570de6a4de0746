package main

import (
	"github.com/spf13/cobra"

	"github.com/skillmart/skillmart/internal/config"
	"github.com/skillmart/skillmart/internal/web"
)

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog over a local read-only web API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Web.Addr
			}
			return web.Serve(addr, cfg, Version)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
