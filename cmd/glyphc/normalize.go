package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"glyph/internal/normalize"
	"glyph/internal/reg"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <package.json>",
	Short: "Typecheck, then print every top-level let's value in normal form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		decoded, result, err := runPipeline(args[0])
		if err != nil {
			return err
		}
		reportResult(cmd, decoded.FileSet, diagnosticsFor(result), result.Failed())
		if result.Failed() {
			return nil
		}

		prog := result.Checked.Program()
		r := prog.Registry
		for _, fid := range prog.FileOrder {
			defs := newGlobalDefs(prog, decoded.Tree, fid)
			for _, it := range r.Items(prog.Files[fid]) {
				if it.Kind != reg.ItemLet {
					continue
				}
				nf := normalize.Normalize(r, prog, defs, it.Value)
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n",
					it.Name.Display(decoded.Strings), sprintExpr(r, decoded.Strings, nf))
			}
		}
		return nil
	},
}
