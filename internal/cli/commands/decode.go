package commands

import (
	"github.com/spf13/cobra"
)

func newDecodeCommand(opts *options) *cobra.Command {
	var (
		format      string
		ownerPrefix string
	)

	cmd := &cobra.Command{
		Use:   "decode <Type> [file]",
		Short: "Decode a document into a resource",
		Long: `Decode a document as the named resource type and print the resulting
resource as JSON. The document is read from file, or stdin when omitted.

Nested documents resolve their type from the property name, preferring
types qualified with the owner's name (Order__address before address).
--owner-prefix decodes as if the document were nested under that prefix.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			path := ""
			if len(args) > 1 {
				path = args[1]
			}
			doc, err := readDocument(cmd, path, format)
			if err != nil {
				return err
			}

			res, err := env.converter.DecodeNested(doc, args[0], ownerPrefix)
			if err != nil {
				return env.conversionFailed(cmd, err)
			}
			return writeJSON(cmd.OutOrStdout(), res.Map())
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Input format: json (Extended JSON) or bson")
	cmd.Flags().StringVar(&ownerPrefix, "owner-prefix", "", "Qualified type prefix to try first, e.g. Order__")

	return cmd
}

func newRoundtripCommand(opts *options) *cobra.Command {
	var (
		format    string
		output    string
		canonical bool
	)

	cmd := &cobra.Command{
		Use:   "roundtrip <Set> [file]",
		Short: "Decode a document as a set's type and encode it back",
		Long: `Decode a document as the resource type of the named set, then encode the
resource with the set's property list. Unknown fields and null properties
are dropped; null markers and null collections are normalized.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			set, err := env.resolveSet(cmd, args[0])
			if err != nil {
				return err
			}

			path := ""
			if len(args) > 1 {
				path = args[1]
			}
			doc, err := readDocument(cmd, path, format)
			if err != nil {
				return err
			}

			res, err := env.converter.Decode(doc, set.Type.Name)
			if err != nil {
				return env.conversionFailed(cmd, err)
			}
			out, err := env.converter.Encode(res, set.Name)
			if err != nil {
				return env.conversionFailed(cmd, err)
			}
			return writeDocument(cmd.OutOrStdout(), out, output, canonical)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Input format: json (Extended JSON) or bson")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format: json (Extended JSON) or bson")
	cmd.Flags().BoolVar(&canonical, "canonical", false, "Write canonical rather than relaxed Extended JSON")

	return cmd
}
