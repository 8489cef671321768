package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

var membersCmd = &cobra.Command{
	Use:   "members [flags] <qualified-type> [sources...]",
	Short: "List the resolved members of a type",
	Long:  `List the supertypes, fields, methods and member types of a binary or source type after resolution`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMembers,
}

func init() {
	membersCmd.Flags().Bool("inherited", false, "also list members of supertypes")
}

func runMembers(cmd *cobra.Command, args []string) error {
	inherited, err := cmd.Flags().GetBool("inherited")
	if err != nil {
		return fmt.Errorf("failed to get inherited flag: %w", err)
	}

	s, done, err := openSession(cmd, args[1:])
	if err != nil {
		return err
	}
	defer done()

	id, err := s.LookupClass(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	in := s.Types()
	return s.Query(func() {
		seen := make(map[types.TypeID]bool)
		queue := []types.TypeID{id}
		for len(queue) > 0 {
			t := in.GenericOf(queue[0])
			queue = queue[1:]
			if t == types.NoTypeID || seen[t] {
				continue
			}
			seen[t] = true
			writeMembers(out, in, t)
			if !inherited {
				return
			}
			if sup := in.Superclass(t); sup != types.NoTypeID {
				queue = append(queue, sup)
			}
			queue = append(queue, in.Interfaces(t)...)
		}
	})
}

func writeMembers(w io.Writer, in *types.Interner, t types.TypeID) {
	header := strings.TrimSpace(in.ClassModifiers(t).String() + " " + in.String(t))
	fmt.Fprintln(w, header)
	if sup := in.Superclass(t); sup != types.NoTypeID {
		fmt.Fprintf(w, "  extends %s\n", in.String(sup))
	}
	for _, i := range in.Interfaces(t) {
		fmt.Fprintf(w, "  implements %s\n", in.String(i))
	}
	for _, f := range in.Fields(t) {
		info := in.Field(f)
		fmt.Fprintf(w, "  field  %s %s\n", in.String(info.Type), info.Name)
	}
	for _, m := range in.Methods(t) {
		info := in.Method(m)
		if info.Selector == types.ConstructorName {
			fmt.Fprintf(w, "  ctor   %s\n", in.MethodString(m))
			continue
		}
		fmt.Fprintf(w, "  method %s %s\n", in.String(info.Return), in.MethodString(m))
	}
	for _, mt := range in.MemberTypes(t) {
		fmt.Fprintf(w, "  type   %s\n", in.QualifiedName(mt))
	}
}
