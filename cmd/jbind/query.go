package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/groovy/groovy-eclipse-sub042/internal/driver"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

// openSession declares the sources in paths without checking them.
func openSession(cmd *cobra.Command, paths []string) (*driver.Session, func(), error) {
	opts, cleanup, err := driverOptions(cmd)
	if err != nil {
		return nil, nil, err
	}
	s, err := driver.Open(cmd.Context(), opts, paths)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return s, func() {
		if err := s.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "close: %v\n", err)
		}
		cleanup()
		if err := dumpMetrics(cmd, s.Finish().Metrics); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "metrics: %v\n", err)
		}
	}, nil
}

// lookupType resolves a type written on the command line: a primitive, a
// qualified class name, or either followed by "[]" pairs.
func lookupType(s *driver.Session, name string) (types.TypeID, error) {
	name = strings.TrimSpace(name)
	dims := 0
	for strings.HasSuffix(name, "[]") {
		name = strings.TrimSpace(strings.TrimSuffix(name, "[]"))
		dims++
	}
	in := s.Types()
	b := in.Builtins()
	primitives := map[string]types.TypeID{
		"boolean": b.Boolean, "byte": b.Byte, "char": b.Char, "short": b.Short,
		"int": b.Int, "long": b.Long, "float": b.Float, "double": b.Double,
	}
	id, ok := primitives[name]
	if !ok {
		var err error
		if id, err = s.LookupClass(name); err != nil {
			return types.NoTypeID, err
		}
	}
	if dims > 0 {
		id = in.Array(id, dims)
	}
	return id, nil
}

func lookupTypes(s *driver.Session, names []string) ([]types.TypeID, error) {
	out := make([]types.TypeID, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		id, err := lookupType(s, n)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
