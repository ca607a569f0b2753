package main

import (
	"errors"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"glyph/internal/diag"
	"glyph/internal/diagfmt"
	"glyph/internal/source"
)

// errExitFailed signals "the pipeline ran to completion and reported
// diagnostics" to cobra without cobra printing its own duplicate error
// line (diagnose already rendered the bag itself).
var errExitFailed = errors.New("diagnose: pipeline reported errors")

// resolveColor turns the --color flag (auto|on|off) into a bool, deferring
// to fatih/color's own terminal detection for "auto".
func resolveColor(cmd *cobra.Command) bool {
	mode, _ := cmd.Root().PersistentFlags().GetString("color")
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return !color.NoColor
	}
}

// reportResult prints every diagnostic to stderr via diagfmt.Pretty and
// exits 1 when the pipeline failed, so every subcommand reports the same
// way without duplicating the pretty-printing setup.
func reportResult(cmd *cobra.Command, fs *source.FileSet, diags []*diag.Diagnostic, failed bool) {
	bag := diag.NewBag(len(diags) + 1)
	for _, d := range diags {
		bag.Add(d)
	}
	diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{
		Color:     resolveColor(cmd),
		Context:   2,
		ShowNotes: true,
	})
	if failed {
		os.Exit(1)
	}
}
