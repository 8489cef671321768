package main

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/groovy/groovy-eclipse-sub042/internal/binary"
	"github.com/groovy/groovy-eclipse-sub042/internal/binary/cache"
	"github.com/groovy/groovy-eclipse-sub042/internal/driver"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the binary descriptor cache",
}

var cacheWarmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Decode every class on the class path into the cache",
	Args:  cobra.NoArgs,
	RunE:  runCacheWarm,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache size and stale entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()
		st, err := store.Stats()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "entries: %d\nbytes:   %d\nstale:   %d\n", st.Entries, st.Bytes, st.Stale)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached descriptor",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
		return nil
	},
}

func init() {
	cacheWarmCmd.Flags().Int("limit", 0, "parallel decoders (0=GOMAXPROCS)")
	cacheCmd.AddCommand(cacheWarmCmd, cacheStatsCmd, cacheClearCmd)
}

func openStore(cmd *cobra.Command) (*cache.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.CacheDir == "" {
		return nil, errors.New("no cache directory: set --cache-dir or [cache] dir in jbind.toml")
	}
	return cache.Open(cfg.CacheDir)
}

// runCacheWarm lists the uncached class path and stores every descriptor
// it can decode.
func runCacheWarm(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return fmt.Errorf("failed to get limit flag: %w", err)
	}
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	opts, cleanup, err := driverOptions(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	dir := opts.Config.CacheDir
	if dir == "" {
		return errors.New("no cache directory: set --cache-dir or [cache] dir in jbind.toml")
	}
	opts.Config.CacheDir = ""

	s, err := driver.Open(cmd.Context(), opts, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	lister, ok := s.Provider().(binary.Lister)
	if !ok {
		return errors.New("class path cannot be listed")
	}
	names, err := lister.Names()
	if err != nil {
		return err
	}

	store, err := cache.Open(dir)
	if err != nil {
		return err
	}
	defer store.Close()
	n, err := cache.Warm(cmd.Context(), store, s.Provider(), names, limit)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "cached %d of %d classes\n", n, len(names))
	return nil
}
