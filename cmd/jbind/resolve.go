package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/groovy/groovy-eclipse-sub042/internal/driver"
	"github.com/groovy/groovy-eclipse-sub042/internal/scope"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve --class C (--name n | --method m [--args T1,T2]) [sources...]",
	Short: "Resolve a name or an invocation inside a class",
	Long:  `Resolve a simple name (variable, type or package) or a method invocation as if it were written in the body of the given class`,
	RunE:  runResolve,
}

func init() {
	resolveCmd.Flags().String("class", "", "qualified name of the class that provides the context")
	resolveCmd.Flags().String("name", "", "simple name to resolve")
	resolveCmd.Flags().String("method", "", "method selector to resolve")
	resolveCmd.Flags().StringSlice("args", nil, "argument types of the invocation")
	if err := resolveCmd.MarkFlagRequired("class"); err != nil {
		panic(err)
	}
	resolveCmd.MarkFlagsMutuallyExclusive("name", "method")
	resolveCmd.MarkFlagsOneRequired("name", "method")
}

func runResolve(cmd *cobra.Command, args []string) error {
	className, err := cmd.Flags().GetString("class")
	if err != nil {
		return fmt.Errorf("failed to get class flag: %w", err)
	}
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return fmt.Errorf("failed to get name flag: %w", err)
	}
	method, err := cmd.Flags().GetString("method")
	if err != nil {
		return fmt.Errorf("failed to get method flag: %w", err)
	}
	argNames, err := cmd.Flags().GetStringSlice("args")
	if err != nil {
		return fmt.Errorf("failed to get args flag: %w", err)
	}

	s, done, err := openSession(cmd, args)
	if err != nil {
		return err
	}
	defer done()

	class, err := s.LookupClass(className)
	if err != nil {
		return err
	}
	argTypes, err := lookupTypes(s, argNames)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var found bool
	err = s.Query(func() {
		cs := s.Table.ClassScope(class)
		if name != "" {
			found = printBinding(out, s, s.Table.ResolveName(cs, name, scope.MaskVariable|scope.MaskType|scope.MaskPackage, scope.Site{}))
			return
		}
		found = printMethod(out, s, s.Table.ResolveImplicitMethod(cs, method, argTypes, scope.Site{}))
	})
	if err != nil {
		return err
	}
	if !found {
		return errors.New("resolution failed")
	}
	return nil
}

func printBinding(w io.Writer, s *driver.Session, b scope.Binding) bool {
	in := s.Types()
	if b.Problem != types.NoProblem {
		fmt.Fprintf(w, "problem: %s (%s)\n", b.Problem, driver.CodeFor(b.Problem).ID())
		return false
	}
	switch b.Kind {
	case scope.BindLocal:
		l := s.Table.Locals.Get(b.Local)
		fmt.Fprintf(w, "local %s: %s\n", l.Name, in.String(l.Type))
	case scope.BindField:
		f := in.Field(b.Field)
		mods := f.Modifiers.String()
		if mods != "" {
			mods += " "
		}
		fmt.Fprintf(w, "field %s%s.%s: %s\n", mods, in.QualifiedName(f.Declaring), f.Name, in.String(f.Type))
	case scope.BindType:
		fmt.Fprintf(w, "type %s\n", in.String(b.Type))
	case scope.BindPackage:
		fmt.Fprintf(w, "package %s\n", b.Package)
	default:
		fmt.Fprintln(w, "nothing")
		return false
	}
	return true
}

func printMethod(w io.Writer, s *driver.Session, m types.MethodID) bool {
	in := s.Types()
	info := in.Method(m)
	if info.Problem != types.NoProblem {
		fmt.Fprintf(w, "problem: %s (%s) %s\n", info.Problem, driver.CodeFor(info.Problem).ID(), in.MethodString(m))
		return false
	}
	fmt.Fprintf(w, "method %s in %s returns %s\n", in.MethodString(m), in.String(info.Declaring), in.String(info.Return))
	return true
}
