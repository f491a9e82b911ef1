package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avdatabase/x/projectx"
)

func NewSubmitCmd() *cobra.Command {
	var p projectx.Project

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit one project",
		Long: `Submit one project to the configured server. The command fails unless the
server answers 200 OK. The server answer is printed either way.`,
		Example: `  projectadder submit --title "Tower" --project-code P-1 --current-location "Room 100" --status open --specs "16mm"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := NewRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Shutdown(cmd.Context())

			adder := rt.Adder()
			adder.Project = p
			adder.OnSuccess = func() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Project added")
			}
			adder.OnFailure = func(text string) {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unable to add project: %s\n", text)
			}

			_, err = adder.Send(cmd.Context())
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&p.ProjectCode, "project-code", "", "Project code.")
	flags.StringVar(&p.CurrentLocation, "current-location", "", "Current location of the project material.")
	flags.StringVar(&p.Status, "status", "", "Project status.")
	flags.StringVar(&p.Specs, "specs", "", "Project specifications.")
	flags.StringVar(&p.Title, "title", "", "Project title.")

	return cmd
}
