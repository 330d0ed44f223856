package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/watt/internal/ui/style"
)

func (c *CLI) newKeygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an Ed25519 signing key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, _ := cmd.Flags().GetString("out")
			res, err := c.app.Keygen(cmd.Context(), dir)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s key %s\n  private %s\n  public  %s\n",
				style.Mark(true), res.KeyID, res.PrivateKeyPath, res.PublicKeyPath)
			return nil
		},
	}
	cmd.Flags().StringP("out", "o", "", "Directory for watt.key and watt.pub (default: directory of the configured public key)")
	return cmd
}
