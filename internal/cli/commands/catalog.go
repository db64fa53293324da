package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/docbridge/internal/cli/ui"
	"github.com/conduit-lang/docbridge/internal/resource"
)

func newCatalogCommand(opts *options) *cobra.Command {
	var setsOnly bool

	cmd := &cobra.Command{
		Use:   "catalog [Type]",
		Short: "List resource types and sets, or show one type",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			w := cmd.OutOrStdout()
			if len(args) == 1 {
				t, ok := env.registry.ResolveResourceType(args[0], "")
				if !ok {
					err := fmt.Errorf("resource type not found: %s", args[0])
					return report(cmd, ui.TypeNotFound(args[0], env.registry.TypeNames(), env.noColor), err)
				}
				renderType(w, t, env.noColor)
				return nil
			}

			if !setsOnly {
				ui.Header(w, "Types", env.noColor)
				table := ui.NewTable(w, env.noColor, "Type", "Properties", "Sets")
				bound := setsByType(env.registry.Sets())
				for _, name := range env.registry.TypeNames() {
					t, _ := env.registry.ResolveResourceType(name, "")
					table.AddRow(name, strconv.Itoa(len(t.Properties)), strings.Join(bound[name], ", "))
				}
				table.Render()
				fmt.Fprintln(w)
			}

			ui.Header(w, "Sets", env.noColor)
			table := ui.NewTable(w, env.noColor, "Set", "Type")
			for _, s := range env.registry.Sets() {
				table.AddRow(s.Name, s.Type.Name)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&setsOnly, "sets", false, "List only resource sets")

	return cmd
}

func setsByType(sets []*resource.Set) map[string][]string {
	out := make(map[string][]string)
	for _, s := range sets {
		out[s.Type.Name] = append(out[s.Type.Name], s.Name)
	}
	return out
}

func renderType(w io.Writer, t *resource.Type, noColor bool) {
	ui.Header(w, t.Name, noColor)
	if t.Documentation != "" {
		fmt.Fprintln(w, t.Documentation)
		fmt.Fprintln(w)
	}

	table := ui.NewTable(w, noColor, "Property", "Kind", "Type")
	for _, p := range t.Properties {
		table.AddRow(p.Name, p.Kind.String(), describeProperty(p))
	}
	table.Render()
}

// describeProperty renders the value type of a property: the scalar type
// reference, the nested type name, or both for collections
func describeProperty(p *resource.Property) string {
	switch p.Kind {
	case resource.ComplexReference:
		return p.TypeName
	case resource.Collection:
		if p.TypeName != "" {
			return "[" + p.TypeName + "]"
		}
		return "[" + p.Type.String() + "]"
	default:
		return p.Type.String()
	}
}
