package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/watt/internal/ui/style"
	"go.trai.ch/zerr"
)

func (c *CLI) newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <plugin>",
		Short: "Verify a plugin manifest against its trust envelope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := c.app.Verify(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "%s checksum\n", style.Mark(report.ChecksumValid))
			_, _ = fmt.Fprintf(w, "%s signature\n", style.Mark(report.SignatureValid))
			for _, e := range report.Errors {
				_, _ = fmt.Fprintf(w, "  %s\n", style.Muted.Render(e))
			}

			if !report.Valid() {
				err := zerr.Wrap(domain.ErrIntegrityCheckFailed, "verification failed")
				err = zerr.With(err, "plugin_id", args[0])
				return zerr.With(err, "failed_checks", strings.Join(report.FailedChecks(), ","))
			}
			return nil
		},
	}
}
