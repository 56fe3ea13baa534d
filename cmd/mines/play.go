package main

import (
	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper/internal/terminal"
)

var difficulty string

func init() {
	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Long: `Play minesweeper in the terminal.

Type h during a game for the list of commands.

Examples:
  mines play
  mines play -d hard`,
		Args: cobra.NoArgs,
		RunE: runPlay,
	}

	playCmd.Flags().StringVarP(&difficulty, "difficulty", "d", "", "Difficulty to start with instead of asking")
	playCmd.Flags().String("log-level", "", "Log level")

	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	presets, err := c.Presets()
	if err != nil {
		return err
	}

	var opts []terminal.Option
	if difficulty != "" {
		opts = append(opts, terminal.WithDifficulty(difficulty))
	}

	client := terminal.New(cmd.InOrStdin(), cmd.OutOrStdout(), log, presets, opts...)
	return client.Run(cmd.Context())
}
