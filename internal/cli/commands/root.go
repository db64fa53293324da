package commands

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/docbridge/internal/cli/ui"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "docbridge",
		Short: "Convert schema-less documents to typed resources and back",
		Long: color.CyanString(`docbridge - document/resource converter

Decodes BSON and Extended JSON documents into resources described by a
catalog of resource types, and encodes resources back into documents.

Features:
  • Explicit nullability (type! vs type?)
  • Nested complex types and collections
  • _csharpnull null markers
  • Memory, Redis, PostgreSQL and SQLite document stores`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configDir, "config-dir", "C", "", "Directory containing docbridge.yaml")
	flags.StringVar(&opts.catalogPath, "catalog", "", "Catalog file (overrides config)")
	flags.StringVar(&opts.coercionPolicy, "coercion-policy", "", "Scalar coercion failures: fail or skip")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(newDecodeCommand(opts))
	rootCmd.AddCommand(newRoundtripCommand(opts))
	rootCmd.AddCommand(newCatalogCommand(opts))
	rootCmd.AddCommand(newGetCommand(opts))
	rootCmd.AddCommand(newPutCommand(opts))
	rootCmd.AddCommand(newDeleteCommand(opts))
	rootCmd.AddCommand(newListCommand(opts))
	rootCmd.AddCommand(newImportCommand(opts))

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the docbridge version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			title := color.New(color.FgCyan, color.Bold)
			w := cmd.OutOrStdout()
			for _, line := range [][2]string{
				{"docbridge version: ", Version},
				{"Git commit: ", GitCommit},
				{"Build date: ", BuildDate},
				{"Go version: ", goVer},
			} {
				title.Fprint(w, line[0])
				fmt.Fprintln(w, line[1])
			}
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			ui.Write(rootCmd.ErrOrStderr(), ui.Report{Level: ui.LevelError, Problem: err.Error()})
		}
		return err
	}
	return nil
}

// reportedError marks an error already rendered to the user
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func report(cmd *cobra.Command, message string, err error) error {
	fmt.Fprint(cmd.ErrOrStderr(), message)
	return &reportedError{err: err}
}
