package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/watt/internal/ui/style"
)

func (c *CLI) newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables [code] [edition]",
		Short: "List table editions, or load one table set",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			if len(args) == 0 {
				keys, err := c.app.Editions(cmd.Context())
				if err != nil {
					return err
				}
				for _, k := range keys {
					_, _ = fmt.Fprintf(w, "%s %s\n", style.Dot, k)
				}
				return nil
			}

			var edition string
			if len(args) == 2 {
				edition = args[1]
			}
			report, err := c.app.Tables(cmd.Context(), args[0], edition)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(w, "%s %s\n", style.Header.Render(report.Key.String()), style.Muted.Render(report.Fingerprint))
			for _, name := range report.Names {
				_, _ = fmt.Fprintf(w, "  %s\n", name)
			}
			for _, name := range report.Unused {
				_, _ = fmt.Fprintf(w, "  %s %s\n", style.Muted.Render(name), style.Muted.Render("(unused)"))
			}
			return nil
		},
	}
}
