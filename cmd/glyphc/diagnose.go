package main

import (
	"github.com/spf13/cobra"

	"glyph/internal/diag"
	"glyph/internal/diagfmt"
	"glyph/internal/uastjson"
	"glyph/internal/version"
)

var diagnoseFormat string
var diagnoseUI bool

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose <package.json>",
	Short: "Run the full pipeline and render diagnostics in the requested format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var decoded *uastjson.Decoded
		var diags []*diag.Diagnostic
		var failed bool

		if diagnoseUI {
			d, r, err := runPipelineWithProgress(args[0])
			if err != nil {
				return err
			}
			decoded, diags, failed = d, diagnosticsFor(r), r.Failed()
		} else {
			d, r, err := runPipeline(args[0])
			if err != nil {
				return err
			}
			decoded, diags, failed = d, diagnosticsFor(r), r.Failed()
		}

		bag := diag.NewBag(len(diags) + 1)
		for _, d := range diags {
			bag.Add(d)
		}

		switch diagnoseFormat {
		case "json":
			return diagfmt.JSON(cmd.OutOrStdout(), bag, decoded.FileSet, diagfmt.JSONOpts{
				IncludePositions: true, IncludeNotes: true, IncludeFixes: true,
			})
		case "sarif":
			diagfmt.Sarif(cmd.OutOrStdout(), bag, decoded.FileSet, diagfmt.SarifRunMeta{
				ToolName: "glyphc", ToolVersion: version.Version, InvocationArgs: args,
			})
		default:
			diagfmt.Pretty(cmd.ErrOrStderr(), bag, decoded.FileSet, diagfmt.PrettyOpts{
				Color: resolveColor(cmd), Context: 2, ShowNotes: true, ShowFixes: true,
			})
		}

		if failed {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return errExitFailed
		}
		return nil
	},
}

func init() {
	diagnoseCmd.Flags().StringVar(&diagnoseFormat, "format", "pretty", "output format (pretty|json|sarif)")
	diagnoseCmd.Flags().BoolVar(&diagnoseUI, "ui", false, "show a bubbletea progress view while the pipeline runs")
}
