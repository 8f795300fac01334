package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/ariejan/apollo/internal/api"
	"github.com/ariejan/apollo/internal/importer"
)

func newWebCmd(flags *globalFlags) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use: "web",
		Short: "Serve the HTTP/JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			logger, closeLog, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer closeLog()
			db, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			addr := cfg.Web.Listen
			if listen != "" {
				addr = listen
			}
			srv := api.NewServer(db, &importer.Importer{Store: db}, logger, api.Config{
					DefaultLimit: cfg.Web.DefaultLimit,
					MaxLimit: cfg.Web.MaxLimit,
				})
			fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", addr)
			return http.ListenAndServe(addr, srv)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on (overrides config web.listen)")
	return cmd
}
