package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	difficultiesCmd := &cobra.Command{
		Use:   "difficulties",
		Short: "List the available difficulties",
		Args:  cobra.NoArgs,
		RunE:  runDifficulties,
	}

	rootCmd.AddCommand(difficultiesCmd)
}

func runDifficulties(cmd *cobra.Command, args []string) error {
	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	presets, err := c.Presets()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tROWS\tCOLS\tMINES")
	for _, d := range presets {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", d.Name, d.Rows, d.Cols, d.MineCount)
	}
	return w.Flush()
}
