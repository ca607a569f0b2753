package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"glyph/internal/codegenjs"
	"glyph/internal/config"
)

var runJSOut string

var runJSCmd = &cobra.Command{
	Use:   "run-js <package.json>",
	Short: "Typecheck, then emit the reference JS target named by glyph.toml",
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

		manifestPath, ok, err := config.Find(".")
		if err != nil {
			return err
		}
		outPath := runJSOut
		moduleName := "package"
		if ok {
			manifest, err := config.Load(manifestPath)
			if err != nil {
				return err
			}
			moduleName = manifest.Package.Name
			if outPath == "" {
				outPath = filepath.Join(manifest.OutDir(), moduleName+".js")
			}
			logger.Infof("using manifest %s (target=%s)", manifestPath, manifest.Build.Target)
		} else if outPath == "" {
			outPath = "build/out.js"
		}

		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		// #nosec G304 -- outPath is derived from a CLI flag or glyph.toml
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", outPath, err)
		}
		defer f.Close()

		prog := result.Checked.Program()
		if err := codegenjs.Generate(f, prog, decoded.Strings, codegenjs.Options{ModuleName: moduleName}); err != nil {
			return fmt.Errorf("codegen failed: %w", err)
		}
		logger.Infof("wrote %s", outPath)
		fmt.Fprintln(cmd.OutOrStdout(), outPath)
		return nil
	},
}

func init() {
	runJSCmd.Flags().StringVar(&runJSOut, "out", "", "output path (default: <glyph.toml's build.out, or build>/<package name>.js; build/out.js without a glyph.toml)")
}
