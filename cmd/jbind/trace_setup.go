package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/groovy/groovy-eclipse-sub042/internal/config"
	"github.com/groovy/groovy-eclipse-sub042/internal/trace"
)

// setupTracing builds a tracer from the merged trace settings and attaches
// it to the command context. It returns a cleanup function that flushes
// and closes the tracer.
func setupTracing(cmd *cobra.Command, opts config.TraceOptions) (func(), error) {
	level, err := trace.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}

	// tracing off and no output requested
	if level == trace.LevelOff && opts.Output == "" {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}
	if level == trace.LevelOff {
		level = trace.LevelPhase
	}

	mode, err := trace.ParseMode(opts.Mode)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	format, err := trace.ParseFormat(opts.Format)
	if err != nil {
		return nil, fmt.Errorf("invalid trace format: %w", err)
	}

	output := opts.Output
	if output == "" {
		output = "-"
	}
	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: output,
		RingSize:   opts.RingSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)

	return func() {
		if ring, ok := tracer.(*trace.RingTracer); ok {
			if err := dumpRing(ring, output, format); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}, nil
}

// dumpRing writes the events a ring-mode tracer kept to path ("-" is
// stderr).
func dumpRing(ring *trace.RingTracer, path string, format trace.Format) error {
	if format == trace.FormatAuto {
		format = trace.FormatText
		if strings.HasSuffix(path, ".ndjson") {
			format = trace.FormatNDJSON
		}
	}
	if path == "-" {
		return ring.Dump(os.Stderr, format)
	}
	f, err := os.Create(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		return err
	}
	if err := ring.Dump(f, format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
