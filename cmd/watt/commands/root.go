// Package commands implements the CLI commands for watt.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.trai.ch/watt/internal/app"
	"go.trai.ch/watt/internal/build"
	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/watt/internal/ui/output"
)

// CLI represents the command line interface for watt.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Calculate(ctx context.Context, req app.CalculateRequest) (*app.CalculateResponse, error)
	Sign(ctx context.Context, pluginID, privateKeyPath string) (*domain.Envelope, error)
	Verify(ctx context.Context, pluginID string) (domain.IntegrityReport, error)
	Keygen(ctx context.Context, dir string) (*app.KeygenResult, error)
	Tables(ctx context.Context, code, edition string) (*app.TablesReport, error)
	Editions(ctx context.Context) ([]domain.TableKey, error)
	Plugins(ctx context.Context) ([]domain.PluginStatus, error)
	Checksum(raw []byte) (domain.Checksum, error)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	lipgloss.SetColorProfile(output.ColorProfile())

	rootCmd := &cobra.Command{
		Use:           "watt",
		Short:         "Auditable electrical load calculations",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(
		c.newCalcCmd(),
		c.newSignCmd(),
		c.newVerifyCmd(),
		c.newKeygenCmd(),
		c.newChecksumCmd(),
		c.newPluginsCmd(),
		c.newTablesCmd(),
		c.newVersionCmd(),
	)

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// SetInput sets the stream "calc --input -" reads from. Used for testing.
func (c *CLI) SetInput(in io.Reader) {
	c.rootCmd.SetIn(in)
}
