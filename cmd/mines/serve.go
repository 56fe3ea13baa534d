package main

import (
	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper/internal/app"
)

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve games over HTTP and WebSocket",
		Long: `Serve minesweeper games over HTTP and WebSocket.

Examples:
  mines serve --addr :8080
  mines serve --mode development --log-level debug
  mines serve -c /run/config.yaml`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().String("mode", "production", "development or production")
	serveCmd.Flags().String("base-path", "", "Path prefix for every route")
	serveCmd.Flags().String("log-level", "", "Log level (default debug in development, info otherwise)")
	serveCmd.Flags().String("log-file", "", "Also write logs to this rotated file")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log.Info("starting up, mode = ", c.Mode)

	a, err := app.New(log, c)
	if err != nil {
		log.WithError(err).Error("unable to set up server")
		return err
	}

	if err := a.Start(cmd.Context()); err != nil {
		log.Printf("exit reason: %s\n", err)
		return err
	}
	return nil
}
