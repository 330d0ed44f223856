package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/watt/internal/adapters/codec"
	"go.trai.ch/watt/internal/app"
	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/zerr"
)

// formatText selects the human readable calc output.
const formatText = "text"

func (c *CLI) newCalcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc <plugin>",
		Short: "Run a load calculation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath, _ := cmd.Flags().GetString("input")
			code, _ := cmd.Flags().GetString("code")
			edition, _ := cmd.Flags().GetString("edition")
			tierName, _ := cmd.Flags().GetString("tier")
			formatName, _ := cmd.Flags().GetString("format")

			var format codec.Format
			if formatName != formatText {
				f, err := codec.ParseFormat(formatName)
				if err != nil {
					return err
				}
				format = f
			}

			var tier domain.Tier
			if tierName != "" {
				t, err := domain.ParseTier(tierName)
				if err != nil {
					return err
				}
				tier = t
			}

			raw, err := readInput(cmd, inputPath)
			if err != nil {
				return err
			}
			inputs, err := codec.DecodeInputs(raw)
			if err != nil {
				return err
			}

			resp, err := c.app.Calculate(cmd.Context(), app.CalculateRequest{
				PluginID: args[0],
				Code:     code,
				Edition:  edition,
				Inputs:   inputs,
				Tier:     tier,
			})
			if err != nil {
				return err
			}

			if format == "" {
				renderBundle(cmd.OutOrStdout(), resp.Bundle)
				return nil
			}
			return codec.Encode(cmd.OutOrStdout(), format, resp.Bundle)
		},
	}
	cmd.Flags().StringP("input", "i", "-", "Input document (JSON or YAML), - for stdin")
	cmd.Flags().String("code", "", "Electrical code of the table set (default from watt.yaml)")
	cmd.Flags().String("edition", "", "Edition of the table set (default from watt.yaml)")
	cmd.Flags().String("tier", "", "Access tier: guest, tier1, tier2 or tier3")
	cmd.Flags().StringP("format", "f", formatText, "Output format: text, json, yaml or msgpack")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, zerr.Wrap(err, "cannot read inputs from stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "cannot read inputs"), "path", path)
	}
	return data, nil
}
