package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/metrics"
	"github.com/Zachkp/portfolio/internal/profile"
	"github.com/Zachkp/portfolio/internal/server"
	"github.com/Zachkp/portfolio/internal/visitors"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long:  `Start the HTTP server. Settings come from PORTFOLIO_* variables, an optional PORTFOLIO_CONFIG file and .env.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := profile.LoadOrDefault(cfg.ProfilePath)
	if err != nil {
		return err
	}

	opts := []server.Option{
		server.WithLogger(log),
		server.WithMetrics(metrics.New(metrics.WithRuntimeCollectors())),
	}

	if cfg.RelayEnabled() {
		opts = append(opts, server.WithRelay(contact.NewSMTPRelay(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.ContactTo)))
	} else {
		log.Warn(ctx, "contact relay disabled: set SMTP_USER, SMTP_PASS and TO_EMAIL to enable it")
	}

	if cfg.DBPath != "" {
		store, err := visitors.Open(ctx, cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, server.WithVisitors(store))
		log.Info(ctx, "visitor tracking enabled with hashed IP addresses", logger.String("db", cfg.DBPath))
	}

	srv, err := server.New(cfg, p, opts...)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	return srv.Run(ctx)
}
