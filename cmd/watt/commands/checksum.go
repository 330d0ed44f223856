package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
)

func (c *CLI) newChecksumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checksum <manifest-file>",
		Short: "Print the checksum of a JSON or YAML manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return zerr.With(zerr.Wrap(err, "cannot read manifest"), "path", args[0])
			}
			sum, err := c.app.Checksum(raw)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), sum)
			return nil
		},
	}
}
