package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/specialistvlad/bridgeloader/internal/mapping"
	"github.com/spf13/cobra"
)

func (s *session) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every registered component",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := s.app(cmd.Context())
			if err != nil {
				return err
			}
			reg := a.Registry()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tORIGIN\tVERSION\tPROVIDES\tALIASES")
			for _, c := range reg.All() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					c.ID, c.Origin, c.Version,
					strings.Join(c.Provides, ","),
					strings.Join(reg.Aliases(c.ID), ","))
			}
			return w.Flush()
		},
	}
}

func (s *session) invokeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "invoke KEY...",
		Short:   "Run the initialization entrypoints of the given keys in order",
		Example: "  bridgeloader -c loader.hcl invoke main client",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, keys []string) error {
			a, err := s.app(cmd.Context())
			if err != nil {
				return err
			}
			return a.Run(cmd.Context(), keys...)
		},
	}
}

func (s *session) namespacesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "namespaces",
		Short: "List the mapping namespaces, marking the runtime one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := s.resolver(cmd)
			if err != nil {
				return err
			}
			for _, ns := range r.Namespaces() {
				marker := ""
				if ns == r.RuntimeNamespace() {
					marker = " (runtime)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", ns, marker)
			}
			return nil
		},
	}
}

func (s *session) mapCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Translate names into the runtime namespace",
	}

	cmd.AddCommand(
		s.mapSubcommand("class NAMESPACE NAME", "Translate a class name", 2, 1, func(r *mapping.Resolver, args []string) (string, error) {
			return r.MapClassName(args[0], args[1])
		}),
		s.mapSubcommand("unmap NAMESPACE NAME", "Translate a runtime class name into NAMESPACE", 2, 1, func(r *mapping.Resolver, args []string) (string, error) {
			return r.UnmapClassName(args[0], args[1])
		}),
		s.mapSubcommand("field NAMESPACE OWNER NAME [DESCRIPTOR]", "Translate a field name", 3, 2, func(r *mapping.Resolver, args []string) (string, error) {
			desc := ""
			if len(args) > 3 {
				desc = args[3]
			}
			return r.MapFieldName(args[0], args[1], args[2], desc)
		}),
		s.mapSubcommand("method NAMESPACE OWNER NAME DESCRIPTOR", "Translate a method name", 4, 2, func(r *mapping.Resolver, args []string) (string, error) {
			return r.MapMethodName(args[0], args[1], args[2], args[3])
		}),
		s.mapSubcommand("desc NAMESPACE DESCRIPTOR", "Translate every class reference in a descriptor", 2, 1, func(r *mapping.Resolver, args []string) (string, error) {
			return r.MapDescriptor(args[0], args[1])
		}),
	)
	return cmd
}

// mapSubcommand builds one translation command. Without a mapping resource in
// already-mapped mode the argument at echo is printed back unchanged.
func (s *session) mapSubcommand(use, short string, minArgs, echo int, query func(*mapping.Resolver, []string) (string, error)) *cobra.Command {
	maxArgs := strings.Count(use, " ")
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.RangeArgs(minArgs, maxArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := s.resolver(cmd)
			if errors.Is(err, mapping.ErrMappingsUnavailable) {
				fmt.Fprintln(cmd.OutOrStdout(), args[echo])
				return nil
			}
			if err != nil {
				return err
			}
			out, err := query(r, args)
			if err != nil {
				return &ExitError{Code: 1, Message: err.Error()}
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func (s *session) resolver(cmd *cobra.Command) (*mapping.Resolver, error) {
	a, err := s.app(cmd.Context())
	if err != nil {
		return nil, err
	}
	return a.Resolver()
}
