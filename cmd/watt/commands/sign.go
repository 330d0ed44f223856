package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/watt/internal/ui/style"
)

func (c *CLI) newSignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign <plugin>",
		Short: "Sign a plugin manifest and store its trust envelope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, _ := cmd.Flags().GetString("key")
			envelope, err := c.app.Sign(cmd.Context(), args[0], key)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s signed %s %s\n  checksum %s\n  key      %s\n",
				style.Mark(true), envelope.PluginID, envelope.Version,
				envelope.Checksum, envelope.Signature.KeyID)
			return nil
		},
	}
	cmd.Flags().StringP("key", "k", "keys/watt.key", "PEM encoded Ed25519 private key")
	return cmd
}
