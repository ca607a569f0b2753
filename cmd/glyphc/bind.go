package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"glyph/internal/binder"
	"glyph/internal/corepipeline"
)

var bindCmd = &cobra.Command{
	Use:   "bind <package.json>",
	Short: "Resolve names and report binder errors only",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		decoded, err := loadPackage(args[0])
		if err != nil {
			return err
		}
		prog, bindErrs := binder.BindFiles(decoded.Strings, decoded.Tree, decoded.Files, decoded.ExtraDeps)
		result := corepipeline.Result{Stage: corepipeline.StageBind, BindErrors: bindErrs}
		reportResult(cmd, decoded.FileSet, diagnosticsFor(result), result.Failed())
		if !result.Failed() {
			logger.Infof("bound %d file(s)", len(prog.FileOrder))
			fmt.Fprintln(cmd.OutOrStdout(), "bind: ok")
		}
		return nil
	},
}
