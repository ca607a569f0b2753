package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"glyph/internal/version"
)

var versionFormat string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print glyphc's version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		switch versionFormat {
		case "json":
			fmt.Fprintf(cmd.OutOrStdout(), "{\"version\":%q,\"commit\":%q,\"buildDate\":%q}\n",
				version.Version, version.GitCommit, version.BuildDate)
		default:
			bold := color.New(color.Bold)
			bold.Fprintf(cmd.OutOrStdout(), "glyphc %s\n", version.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit:     %s\n", version.GitCommit)
			fmt.Fprintf(cmd.OutOrStdout(), "  build date: %s\n", version.BuildDate)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}
