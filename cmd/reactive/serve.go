package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactive/pkg/server"
)

func serveCmd() *cobra.Command {
	var (
		port int
		host string
		page string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live document",
		Long: `Serve a document whose custom elements stay live.

Clients connected to /ws send commands that set attributes and properties;
every re-render is pushed back to all of them as patches. With a store
configured, property values survive restarts.

Examples:
  reactive serve
  reactive serve --page index.html --port 8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if page != "" {
				cfg.Server.Page = page
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := newApp(ctx, cfg, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			doc, err := rt.load(ctx, cfg.PagePath())
			if err != nil {
				return err
			}

			sc := server.Config{
				Address:     cfg.Address(),
				MetricsPath: cfg.Server.MetricsPath,
			}
			if len(cfg.Server.AllowedOrigins) > 0 {
				sc.CheckOrigin = server.AllowOrigins(cfg.Server.AllowedOrigins...)
			}
			opts := []server.Option{
				server.WithConfig(sc),
				server.WithLogger(rt.logger),
			}
			if rt.metrics != nil {
				opts = append(opts, server.WithMetrics(rt.metrics), server.WithGatherer(rt.gatherer))
			}
			srv := server.New(doc, rt.reg, opts...)

			printBanner()
			fmt.Println("  serve")
			fmt.Println()
			success("Serving %s", cfg.URL())
			info("Elements: %v", rt.reg.Tags())
			if rt.store == nil {
				warn("No store configured; property values are lost on restart")
			}

			err = srv.ListenAndServe(ctx)
			fmt.Println("\n  Shutting down...")
			return err
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().StringVar(&page, "page", "", "HTML page to serve (default: demo page)")

	return cmd
}
