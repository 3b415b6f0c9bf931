package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dartscorer/internal/modes"
)

func newModesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List game modes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, st := range modes.All() {
				c := st.Config()
				_, _ = fmt.Fprintf(out, "%s  %s\n", titleStyle.Render(string(c.ID)), c.Name)
				_, _ = fmt.Fprintf(out, "    %s\n", mutedStyle.Render(c.Rules))
			}
			return nil
		},
	}
}
