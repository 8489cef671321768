package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/groovy/groovy-eclipse-sub042/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "jbind",
	Short:         "Java binding and type resolution checker",
	Long:          `jbind resolves names, types and method invocations of Java sources against a class path and reports what cannot be bound`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// main registers the subcommands and global flags and runs the root
// command. A command error exits with status 1; diagnostics with errors
// exit with status 1 from the check command itself.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(lubCmd)
	rootCmd.AddCommand(membersCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "path to jbind.toml or jbind.yaml (default: search upwards from the working directory)")
	flags.String("level", "", "compliance level (1.3 .. 21, latest)")
	flags.StringSlice("classpath", nil, "class path entries (directories or jars)")
	flags.StringSlice("sourcepath", nil, "source roots declared but not checked")
	flags.Bool("no-core", false, "do not add the built-in core library")
	flags.String("cache-dir", "", "descriptor cache directory")
	flags.Int("jobs", 0, "parallel parse workers (0=auto)")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("timings", false, "show phase timings")
	flags.Bool("metrics", false, "dump resolution metrics after the run")
	flags.String("trace", "", "trace output file (\"-\" for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "events kept in ring mode")
	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
