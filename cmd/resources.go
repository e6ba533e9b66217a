// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"agentconsole/cli/internal/backend"
	apperr "agentconsole/cli/internal/errors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// resource describes how one backend collection is exposed on the command line.
type resource[T any] struct {
	name       string // plural, e.g. "agents"
	singular   string
	collection func(*backend.HTTP) *backend.Collection[T]
	header     []string
	row        func(T) []string
}

func init() {
	rootCmd.AddCommand(
		resourceCmd(resource[backend.Agent]{
			name: "agents", singular: "agent",
			collection: (*backend.HTTP).Agents,
			header:     []string{"ID", "Name", "Project", "Description", "Updated"},
			row: func(v backend.Agent) []string {
				return []string{id(v.ID), v.Name, id(v.ProjectID), v.Description, v.UpdatedAt.String()}
			},
		}),
		resourceCmd(resource[backend.Project]{
			name: "projects", singular: "project",
			collection: (*backend.HTTP).Projects,
			header:     []string{"ID", "Name", "Organisation", "Description"},
			row: func(v backend.Project) []string {
				return []string{id(v.ID), v.Name, id(v.OrganisationID), v.Description}
			},
		}),
		resourceCmd(resource[backend.Tool]{
			name: "tools", singular: "tool",
			collection: (*backend.HTTP).Tools,
			header:     []string{"ID", "Name", "Toolkit", "Class", "Description"},
			row: func(v backend.Tool) []string {
				return []string{id(v.ID), v.Name, id(v.ToolkitID), v.ClassName, v.Description}
			},
		}),
		resourceCmd(resource[backend.Toolkit]{
			name: "toolkits", singular: "toolkit",
			collection: (*backend.HTTP).Toolkits,
			header:     []string{"ID", "Name", "Organisation", "Visible", "Description"},
			row: func(v backend.Toolkit) []string {
				return []string{id(v.ID), v.Name, id(v.OrganisationID), strconv.FormatBool(v.ShowToolkit), v.Description}
			},
		}),
		resourceCmd(resource[backend.Resource]{
			name: "resources", singular: "resource",
			collection: (*backend.HTTP).Resources,
			header:     []string{"ID", "Name", "Agent", "Type", "Size", "Storage"},
			row: func(v backend.Resource) []string {
				return []string{id(v.ID), v.Name, id(v.AgentID), v.Type, strconv.FormatInt(v.Size, 10), v.StorageType}
			},
		}),
		resourceCmd(resource[backend.Config]{
			name: "configs", singular: "config",
			collection: (*backend.HTTP).Configs,
			header:     []string{"ID", "Organisation", "Key", "Value"},
			row: func(v backend.Config) []string {
				return []string{id(v.ID), id(v.OrganisationID), v.Key, v.Value}
			},
		}),
		resourceCmd(resource[backend.Organisation]{
			name: "organisations", singular: "organisation",
			collection: (*backend.HTTP).Organisations,
			header:     []string{"ID", "Name", "Description", "Created"},
			row: func(v backend.Organisation) []string {
				return []string{id(v.ID), v.Name, v.Description, v.CreatedAt.String()}
			},
		}),
		resourceCmd(resource[backend.User]{
			name: "users", singular: "user",
			collection: (*backend.HTTP).Users,
			header:     []string{"ID", "Name", "Email", "Organisation"},
			row: func(v backend.User) []string {
				return []string{id(v.ID), v.Name, v.Email, id(v.OrganisationID)}
			},
		}),
	)
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

// resourceCmd builds "<name> list|get|create|update|delete" for one collection.
func resourceCmd[T any](r resource[T]) *cobra.Command {
	var (
		asJSON bool
		file   string
	)

	parent := &cobra.Command{
		Use:   r.name,
		Short: fmt.Sprintf("Manage %s", r.name),
	}
	parent.PersistentFlags().BoolVar(&asJSON, "json", false, "Print raw JSON instead of a table")

	// withCollection signs in from the stored token and hands fn the collection.
	withCollection := func(cmd *cobra.Command, fn func(ctx context.Context, a *app, c *backend.Collection[T]) error) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if err := requireSession(cmd.Context(), a); err != nil {
			return err
		}
		return fn(cmd.Context(), a, r.collection(a.api))
	}

	table := func(cmd *cobra.Command, items []T) error {
		rows := [][]string{r.header}
		for _, it := range items {
			rows = append(rows, r.row(it))
		}
		return pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(rows).Render()
	}

	// renderList always prints a JSON array, even for zero or one item.
	renderList := func(cmd *cobra.Command, items []T) error {
		if asJSON {
			if items == nil {
				items = []T{}
			}
			return writeJSON(cmd.OutOrStdout(), items)
		}
		if len(items) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No %s found.\n", r.name)
			return nil
		}
		return table(cmd, items)
	}

	renderOne := func(cmd *cobra.Command, item T) error {
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), item)
		}
		return table(cmd, []T{item})
	}

	list := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s", r.name),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCollection(cmd, func(ctx context.Context, a *app, c *backend.Collection[T]) error {
				items, err := runOperation(ctx, a, "listing "+r.name, c.List)
				if err != nil {
					return err
				}
				return renderList(cmd, items)
			})
		},
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: fmt.Sprintf("Show one %s", r.singular),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withCollection(cmd, func(ctx context.Context, a *app, c *backend.Collection[T]) error {
				item, err := runOperation(ctx, a, fmt.Sprintf("loading %s %d", r.singular, n), func(ctx context.Context) (T, error) {
					return c.Get(ctx, n)
				})
				if err != nil {
					return err
				}
				return renderOne(cmd, item)
			})
		},
	}

	create := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create a %s from a JSON document", r.singular),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readEntity[T](cmd, file)
			if err != nil {
				return err
			}
			return withCollection(cmd, func(ctx context.Context, a *app, c *backend.Collection[T]) error {
				item, err := runOperation(ctx, a, "creating "+r.singular, func(ctx context.Context) (T, error) {
					return c.Create(ctx, body)
				})
				if err != nil {
					return err
				}
				a.toast.Success("Created %s", r.singular)
				return renderOne(cmd, item)
			})
		},
	}

	update := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Replace a %s with a JSON document", r.singular),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseID(args[0])
			if err != nil {
				return err
			}
			body, err := readEntity[T](cmd, file)
			if err != nil {
				return err
			}
			return withCollection(cmd, func(ctx context.Context, a *app, c *backend.Collection[T]) error {
				item, err := runOperation(ctx, a, fmt.Sprintf("updating %s %d", r.singular, n), func(ctx context.Context) (T, error) {
					return c.Update(ctx, n, body)
				})
				if err != nil {
					return err
				}
				a.toast.Success("Updated %s %d", r.singular, n)
				return renderOne(cmd, item)
			})
		},
	}

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   fmt.Sprintf("Delete a %s", r.singular),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withCollection(cmd, func(ctx context.Context, a *app, c *backend.Collection[T]) error {
				_, err := runOperation(ctx, a, fmt.Sprintf("deleting %s %d", r.singular, n), func(ctx context.Context) (struct{}, error) {
					return struct{}{}, c.Delete(ctx, n)
				})
				if err != nil {
					return err
				}
				a.toast.Success("Deleted %s %d", r.singular, n)
				return nil
			})
		},
	}

	for _, c := range []*cobra.Command{create, update} {
		c.Flags().StringVarP(&file, "file", "f", "-", "JSON document to send, or - for stdin")
	}
	parent.AddCommand(list, get, create, update, del)
	return parent
}

func parseID(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, apperr.New(apperr.InvalidInput, fmt.Sprintf("invalid id %q", s))
	}
	return n, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readEntity decodes a JSON document from path, or from stdin when path is "-".
func readEntity[T any](cmd *cobra.Command, path string) (T, error) {
	var v T
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return v, apperr.Wrap(apperr.InvalidInput, "open input", err)
		}
		defer f.Close()
		r = f
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, apperr.Wrap(apperr.InvalidInput, "decode JSON input", err)
	}
	return v, nil
}
