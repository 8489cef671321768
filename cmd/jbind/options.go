package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/groovy/groovy-eclipse-sub042/internal/config"
	"github.com/groovy/groovy-eclipse-sub042/internal/driver"
	"github.com/groovy/groovy-eclipse-sub042/internal/metrics"
)

// loadConfig reads the manifest (explicit or discovered) and applies the
// global flags on top of it.
func loadConfig(cmd *cobra.Command) (config.Options, error) {
	flags := cmd.Root().PersistentFlags()

	path, err := flags.GetString("config")
	if err != nil {
		return config.Options{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	var opts config.Options
	if path != "" {
		opts, err = config.Load(path)
	} else {
		var wd string
		if wd, err = os.Getwd(); err == nil {
			opts, err = config.Discover(wd)
		}
	}
	if err != nil {
		return config.Options{}, err
	}

	if flags.Changed("level") {
		levelStr, err := flags.GetString("level")
		if err != nil {
			return config.Options{}, fmt.Errorf("failed to get level flag: %w", err)
		}
		level, err := config.ParseLevel(levelStr)
		if err != nil {
			return config.Options{}, err
		}
		opts = opts.WithLevel(level)
	}
	if flags.Changed("classpath") {
		cp, err := flags.GetStringSlice("classpath")
		if err != nil {
			return config.Options{}, fmt.Errorf("failed to get classpath flag: %w", err)
		}
		opts.ClassPath = cp
	}
	if flags.Changed("sourcepath") {
		sp, err := flags.GetStringSlice("sourcepath")
		if err != nil {
			return config.Options{}, fmt.Errorf("failed to get sourcepath flag: %w", err)
		}
		opts.SourcePath = sp
	}
	if flags.Changed("no-core") {
		if opts.NoCore, err = flags.GetBool("no-core"); err != nil {
			return config.Options{}, fmt.Errorf("failed to get no-core flag: %w", err)
		}
	}
	if flags.Changed("cache-dir") {
		if opts.CacheDir, err = flags.GetString("cache-dir"); err != nil {
			return config.Options{}, fmt.Errorf("failed to get cache-dir flag: %w", err)
		}
	}
	if flags.Changed("jobs") {
		if opts.Jobs, err = flags.GetInt("jobs"); err != nil {
			return config.Options{}, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if flags.Changed("trace") {
		if opts.Trace.Output, err = flags.GetString("trace"); err != nil {
			return config.Options{}, fmt.Errorf("failed to get trace flag: %w", err)
		}
	}
	if flags.Changed("trace-level") {
		if opts.Trace.Level, err = flags.GetString("trace-level"); err != nil {
			return config.Options{}, fmt.Errorf("failed to get trace-level flag: %w", err)
		}
	}
	if flags.Changed("trace-mode") {
		if opts.Trace.Mode, err = flags.GetString("trace-mode"); err != nil {
			return config.Options{}, fmt.Errorf("failed to get trace-mode flag: %w", err)
		}
	}
	if flags.Changed("trace-ring-size") {
		if opts.Trace.RingSize, err = flags.GetInt("trace-ring-size"); err != nil {
			return config.Options{}, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
		}
	}
	return opts, nil
}

// driverOptions builds the driver options for a command. The returned
// cleanup flushes the tracer.
func driverOptions(cmd *cobra.Command) (driver.Options, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return driver.Options{}, nil, err
	}
	cleanup, err := setupTracing(cmd, cfg.Trace)
	if err != nil {
		return driver.Options{}, nil, err
	}
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		cleanup()
		return driver.Options{}, nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return driver.Options{
		Config:  cfg,
		Metrics: metrics.New(),
		Timings: timings,
	}, cleanup, nil
}

// useColor resolves the --color flag against the stdout terminal.
func useColor(cmd *cobra.Command) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorFlag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return isTerminal(os.Stdout), nil
	}
	return false, fmt.Errorf("unknown color value: %s", colorFlag)
}

// dumpMetrics writes the registry when --metrics is set.
func dumpMetrics(cmd *cobra.Command, reg *metrics.Registry) error {
	enabled, err := cmd.Root().PersistentFlags().GetBool("metrics")
	if err != nil {
		return fmt.Errorf("failed to get metrics flag: %w", err)
	}
	if !enabled || reg == nil {
		return nil
	}
	return reg.WriteText(cmd.ErrOrStderr())
}
