package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

var lubCmd = &cobra.Command{
	Use:   "lub [flags] <type> <type>... [-- sources...]",
	Short: "Print the least upper bound of reference types",
	Long:  `Print the least upper bound of the given qualified reference types, e.g. "jbind lub java.lang.Integer java.lang.String"`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLub,
}

func runLub(cmd *cobra.Command, args []string) error {
	names, sources := args, []string(nil)
	if at := cmd.ArgsLenAtDash(); at >= 0 {
		names, sources = args[:at], args[at:]
	}
	if len(names) == 0 {
		return fmt.Errorf("lub needs at least one type")
	}

	s, done, err := openSession(cmd, sources)
	if err != nil {
		return err
	}
	defer done()

	ts, err := lookupTypes(s, names)
	if err != nil {
		return err
	}
	in := s.Types()
	for _, t := range ts {
		if !in.IsReference(t) {
			return fmt.Errorf("%s is not a reference type", in.String(t))
		}
	}

	var lub types.TypeID
	if err := s.Query(func() { lub = s.System().LUB(ts) }); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), in.String(lub))
	return nil
}
