package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// NewRootCmd returns the projectadder command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "projectadder",
		Short: "Add projects to the AV database",
		Long: `projectadder submits new projects to the AV database server as multipart
form posts, one request per project.

Configuration is read from the schema defaults, the files given with --config,
PROJECTADDER_* environment variables and flags, later sources winning.`,
		Example: `  projectadder submit --title "Tower" --project-code P-1 --status open
  projectadder batch projects.yaml --client-concurrency 8
  projectadder projects list --server-url http://localhost:5000`,
		SilenceUsage: true,
	}

	RegisterConfigFlags(root.PersistentFlags())
	root.AddCommand(
		NewSubmitCmd(),
		NewBatchCmd(),
		NewProjectsCmd(),
		NewVersionCmd(),
	)

	return root
}

// Execute runs the command tree with os.Args.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}
