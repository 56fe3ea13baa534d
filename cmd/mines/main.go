package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/mines"
)

var (
	log = logrus.New()

	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "mines",
	Short: "Minesweeper server and terminal client",
	Long: `Play minesweeper in the terminal or serve games over HTTP and WebSocket.

Configuration is read from --config (any format viper understands),
MINES_* environment variables (MINES_JWT_SECRET for jwt.secret) and flags.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
}

// loadConfig reads the configuration and sets up the process logger and the
// core's logger from it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	c, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := config.NewLogger(c)
	if err != nil {
		return nil, err
	}
	log = logger
	mines.Log = logger

	log.WithFields(c.Fields()).Debug("config")
	return c, nil
}

func main() {
	mainCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	if err := rootCmd.ExecuteContext(mainCtx); err != nil {
		os.Exit(1)
	}
}
