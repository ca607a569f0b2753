package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"glyph/internal/cache"
	"glyph/internal/corepipeline"
)

var checkCmd = &cobra.Command{
	Use:   "check <package.json>",
	Short: "Run the full pipeline: bind, variant-return, fun-recursion, positivity, typecheck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cacheDir, err := cmd.Flags().GetString("cache-dir")
		if err != nil {
			return err
		}

		decoded, err := loadPackage(args[0])
		if err != nil {
			return err
		}
		order := decoded.Tree.TopoOrder(decoded.ExtraDeps)

		var disk *cache.Disk
		var digest cache.Digest
		if cacheDir != "" {
			disk, err = cache.Open(cacheDir)
			if err != nil {
				return fmt.Errorf("opening cache dir %s: %w", cacheDir, err)
			}
			digest = cache.PackageDigest(decoded.FileSet, order)
			if hit, ok, err := disk.Lookup(digest); err == nil && ok {
				logger.Infof("cache hit: stage %d verdict reused", hit.Stage)
				if hit.Failed {
					fmt.Fprintln(cmd.OutOrStdout(), "check: failed (cached)")
					return fmt.Errorf("cached verdict: %d error(s)", hit.ErrorCount)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "check: ok (cached)")
				return nil
			}
		}

		result := corepipeline.Run(decoded.Strings, decoded.Tree, decoded.Files, decoded.ExtraDeps)
		if disk != nil {
			if err := disk.Put(digest, result); err != nil {
				logger.Warnf("failed to write cache entry: %v", err)
			}
		}

		diags := diagnosticsFor(result)
		reportResult(cmd, decoded.FileSet, diags, result.Failed())
		if !result.Failed() {
			logger.Infof("typecheck ok, %d warning(s)", len(result.Warnings))
			fmt.Fprintln(cmd.OutOrStdout(), "check: ok")
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().String("cache-dir", "", "reuse a cached pass/fail verdict keyed by package content digest")
}
