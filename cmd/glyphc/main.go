package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"glyph/internal/version"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "glyphc"})

var rootCmd = &cobra.Command{
	Use:   "glyphc",
	Short: "Glyph language core: bind, check, normalize, and compile to JS",
	Long:  `glyphc drives the dependently-typed core (bind/check/normalize) over a package description and, optionally, its reference JS codegen target.`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(bindCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(runJSCmd)
	rootCmd.AddCommand(diagnoseCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize diagnostic output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress informational logging")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug|info|warn|error)")
	rootCmd.PersistentPreRunE = applyLogLevel

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func applyLogLevel(cmd *cobra.Command, _ []string) error {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	if quiet {
		logger.SetLevel(log.ErrorLevel)
		return nil
	}
	levelStr, err := cmd.Root().PersistentFlags().GetString("log-level")
	if err != nil {
		return err
	}
	lvl, err := log.ParseLevel(levelStr)
	if err != nil {
		return err
	}
	logger.SetLevel(lvl)
	return nil
}
