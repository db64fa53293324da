package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/docbridge/internal/batch"
	"github.com/conduit-lang/docbridge/internal/cli/ui"
	"github.com/conduit-lang/docbridge/internal/store"
)

// withRepository loads the environment, resolves the set and opens the
// configured store, then runs fn with a repository over it
func withRepository(cmd *cobra.Command, opts *options, setName string,
	fn func(env *environment, repo *store.Repository) error) error {
	env, err := opts.load(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	if _, err := env.resolveSet(cmd, setName); err != nil {
		return err
	}

	ds, err := env.openStore(cmd.Context())
	if err != nil {
		return report(cmd, ui.Format(ui.Report{
			Level:   ui.LevelError,
			Context: "store unavailable",
			Problem: err.Error(),
			Detail:  fmt.Sprintf("Driver %s could not be opened.", env.cfg.Store.Driver),
			Hints:   []string{"Check store settings in docbridge.yaml or DOCBRIDGE_STORE_* variables"},
			NoColor: env.noColor,
		}), err)
	}
	defer ds.Close()

	return fn(env, store.NewRepository(ds, env.converter, env.logger))
}

func notFound(cmd *cobra.Command, env *environment, set, id string, err error) error {
	return report(cmd, ui.Format(ui.Report{
		Level:   ui.LevelError,
		Context: "not found",
		Problem: set + "/" + id,
		Hints:   []string{"List stored ids: docbridge list " + set},
		NoColor: env.noColor,
	}), err)
}

func newGetCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <Set> <id>",
		Short: "Load a stored document and print it as a resource",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, id := args[0], args[1]
			return withRepository(cmd, opts, set, func(env *environment, repo *store.Repository) error {
				res, err := repo.Load(cmd.Context(), set, id)
				if err != nil {
					if store.IsNotFound(err) {
						return notFound(cmd, env, set, id, err)
					}
					return env.conversionFailed(cmd, err)
				}
				return writeJSON(cmd.OutOrStdout(), res.Map())
			})
		},
	}
}

func newPutCommand(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "put <Set> <id> [file]",
		Short: "Decode a document as a set's type and store it",
		Long: `Read a document, decode it as the resource type of the named set and store
the re-encoded document under id. The document is read from file, or stdin
when omitted. Documents that fail to decode are not stored.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, id := args[0], args[1]
			path := ""
			if len(args) > 2 {
				path = args[2]
			}

			return withRepository(cmd, opts, set, func(env *environment, repo *store.Repository) error {
				doc, err := readDocument(cmd, path, format)
				if err != nil {
					return err
				}

				rs, _ := env.registry.ResolveResourceSet(set)
				res, err := env.converter.Decode(doc, rs.Type.Name)
				if err != nil {
					return env.conversionFailed(cmd, err)
				}
				if err := repo.Save(cmd.Context(), set, id, res); err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("stored %s/%s", set, id), env.noColor))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Input format: json (Extended JSON) or bson")

	return cmd
}

func newDeleteCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <Set> <id>",
		Short: "Delete a stored document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, id := args[0], args[1]
			return withRepository(cmd, opts, set, func(env *environment, repo *store.Repository) error {
				if err := repo.Delete(cmd.Context(), set, id); err != nil {
					if store.IsNotFound(err) {
						return notFound(cmd, env, set, id, err)
					}
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("deleted %s/%s", set, id), env.noColor))
				return nil
			})
		},
	}
}

func newListCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list <Set>",
		Short: "List the ids stored for a set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cmd, opts, args[0], func(env *environment, repo *store.Repository) error {
				ids, err := repo.List(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			})
		},
	}
}

func newImportCommand(opts *options) *cobra.Command {
	var (
		workers int
		idField string
	)

	cmd := &cobra.Command{
		Use:   "import <Set> [file]",
		Short: "Decode and store Extended JSON lines concurrently",
		Long: `Read one Extended JSON document per line, decode each as the resource type of
the named set and store it under the value of its id field. Documents are
processed by a pool of workers; failures are reported per line and do not
stop the import.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set := args[0]

			var in io.Reader = cmd.InOrStdin()
			if len(args) > 1 && args[1] != "-" {
				f, err := os.Open(args[1])
				if err != nil {
					return fmt.Errorf("failed to open input: %w", err)
				}
				defer f.Close()
				in = f
			}

			return withRepository(cmd, opts, set, func(env *environment, repo *store.Repository) error {
				items, err := batch.ReadLines(in, idField)
				if err != nil {
					return err
				}

				handler, err := batch.ImportHandler(env.converter, repo, set)
				if err != nil {
					return err
				}

				pool := batch.NewPool(workers, handler, env.logger)
				results := pool.Run(cmd.Context(), items)

				w := cmd.OutOrStdout()
				failed := 0
				for _, r := range results {
					if r.Err != nil {
						failed++
						fmt.Fprint(cmd.ErrOrStderr(), ui.Warning(fmt.Sprintf("line %d (%s): %v", r.Index, r.ID, r.Err), env.noColor))
					}
				}

				stats := pool.Metrics().Stats()
				table := ui.NewTable(w, env.noColor, "Processed", "Stored", "Failed", "Avg")
				table.AddRow(
					strconv.FormatInt(stats.Processed, 10),
					strconv.FormatInt(stats.Succeeded, 10),
					strconv.FormatInt(stats.Failed, 10),
					stats.AvgDuration.String())
				table.Render()

				if failed > 0 {
					return &reportedError{err: errors.New(strconv.Itoa(failed) + " documents failed to import")}
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "Number of concurrent workers")
	cmd.Flags().StringVar(&idField, "id-field", "id", "Document field holding the store id")

	return cmd
}
