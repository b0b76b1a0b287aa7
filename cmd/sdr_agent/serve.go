package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arnav/rapidreach/internal/config"
	"github.com/arnav/rapidreach/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for running SDR outreach and inspecting sessions.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to SDR_PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if servePort > 0 {
		cfg.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	database, err := connectDatabase(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	srv := server.New(server.Config{
		Port:      cfg.Port,
		Database:  database,
		APISecret: cfg.APISecret,
		Pipeline:  buildPipelineOptions(ctx, cfg, database),
	})

	return srv.Start()
}
