package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/groovy/groovy-eclipse-sub042/internal/diag"
	"github.com/groovy/groovy-eclipse-sub042/internal/diagfmt"
	"github.com/groovy/groovy-eclipse-sub042/internal/driver"
	"github.com/groovy/groovy-eclipse-sub042/internal/version"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.java|directory>...",
	Short: "Resolve Java sources and report binding problems",
	Long:  `Resolve the headers and bodies of every class in the given Java files or directories and report names, types and invocations that cannot be bound`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	checkCmd.Flags().Int("max-diagnostics", 0, "maximum number of diagnostics to collect (0=config)")
	checkCmd.Flags().String("min-severity", "", "hide diagnostics below this severity (info|warning|error)")
	checkCmd.Flags().String("path-mode", "auto", "how to print file paths (auto|absolute|relative|basename)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("units", false, "print a per-unit summary after the diagnostics")
	checkCmd.Flags().Bool("progress", false, "show phase progress on a terminal")
}

// runCheck runs the driver over the arguments, prints the diagnostics in
// the chosen format and exits with status 1 when any of them is an error.
func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Flags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	minSeverity, err := cmd.Flags().GetString("min-severity")
	if err != nil {
		return fmt.Errorf("failed to get min-severity flag: %w", err)
	}
	pathModeStr, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	pathMode, ok := diagfmt.ParsePathMode(pathModeStr)
	if !ok {
		return fmt.Errorf("unknown path-mode value: %s", pathModeStr)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	showUnits, err := cmd.Flags().GetBool("units")
	if err != nil {
		return fmt.Errorf("failed to get units flag: %w", err)
	}
	showProgress, err := cmd.Flags().GetBool("progress")
	if err != nil {
		return fmt.Errorf("failed to get progress flag: %w", err)
	}
	colored, err := useColor(cmd)
	if err != nil {
		return err
	}

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	opts, cleanup, err := driverOptions(cmd)
	if err != nil {
		return err
	}
	if maxDiagnostics > 0 {
		opts.Config.MaxDiagnostics = maxDiagnostics
	}
	if minSeverity != "" {
		sev, err := diag.ParseSeverity(minSeverity)
		if err != nil {
			cleanup()
			return err
		}
		opts.Config.MinSeverity = sev
	}

	var result *driver.Result
	if showProgress && isTerminal(os.Stderr) {
		result, err = checkWithProgress(cmd, opts, args)
	} else {
		result, err = driver.Check(cmd.Context(), opts, args)
	}
	cleanup()
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		diagfmt.Pretty(out, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:     colored,
			Context:   1,
			PathMode:  pathMode,
			ShowNotes: withNotes,
			Summary:   true,
		})
	case "short":
		diagfmt.Short(out, result.Bag, result.FileSet, pathMode)
	case "json":
		err = diagfmt.JSON(out, result.Bag, result.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
		})
	case "sarif":
		err = diagfmt.Sarif(out, result.Bag, result.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "jbind",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		})
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("failed to format diagnostics: %w", err)
	}

	if showUnits {
		printUnits(cmd, result)
	}
	if opts.Timings && format != "json" {
		printTimings(cmd, result)
	}
	if err := dumpMetrics(cmd, result.Metrics); err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		stopProfiling()
		os.Exit(1)
	}
	return nil
}

func printUnits(cmd *cobra.Command, result *driver.Result) {
	out := cmd.OutOrStdout()
	for _, u := range result.Units {
		state := "checked"
		switch {
		case u.Aborted:
			state = "aborted"
		case !u.Checked:
			state = "declared"
		}
		fmt.Fprintf(out, "%-8s %s (%d types, %d problems)\n", state, u.Path, len(u.Types), u.Problems)
	}
}

func printTimings(cmd *cobra.Command, result *driver.Result) {
	fmt.Fprint(cmd.ErrOrStderr(), result.Timer.Summary())
}
