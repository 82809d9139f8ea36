package main

import (
	"context"
	"fmt"

	"github.com/jonathan/shortlister/internal/server"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing GET /internships/{job_id}/shortlist.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT and the config file)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	port := a.cfg.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	srv := server.New(server.Config{
		Port:           port,
		DefaultWeights: a.cfg.DefaultWeights(),
	}, a.pipeline, a.db, a.log)

	if err := srv.Start(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
