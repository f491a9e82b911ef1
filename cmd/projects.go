package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/avdatabase/x/projectx"
)

func NewProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Read the projects stored by the server",
	}

	cmd.AddCommand(newProjectsListCmd(), newProjectsGetCmd())
	return cmd
}

func newProjectsListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := NewRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Shutdown(cmd.Context())

			records, err := projectx.ListProjects(cmd.Context(), rt.Client, rt.Config.String("server.url"))
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd, records)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tCODE\tTITLE\tSTATUS\tLOCATION")
			for _, r := range records {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.ProjectCode, r.Title, r.Status, r.CurrentLocation)
			}
			return errors.WithStack(w.Flush())
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the projects as JSON.")
	return cmd
}

func newProjectsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print one project as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := NewRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Shutdown(cmd.Context())

			record, err := projectx.GetProject(cmd.Context(), rt.Client, rt.Config.String("server.url"), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, record)
		},
	}
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return errors.WithStack(enc.Encode(v))
}
