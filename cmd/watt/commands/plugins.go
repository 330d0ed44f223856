package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/watt/internal/ui/style"
)

func (c *CLI) newPluginsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List the built-in plugins and their admission state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plugins, err := c.app.Plugins(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, p := range plugins {
				_, _ = fmt.Fprintf(w, "%s %-28s %-8s %-9s %s\n",
					stateIcon(p.State), p.ID, p.Version, p.State, strings.Join(p.Standards, ","))
			}
			return nil
		},
	}
}

func stateIcon(s domain.PluginState) string {
	switch s {
	case domain.PluginReady:
		return style.OK.Render(style.Dot)
	case domain.PluginRejected:
		return style.Failed.Render(style.Cross)
	default:
		return style.Muted.Render(style.Circle)
	}
}
