package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set at build time, e.g. go build -ldflags "-X github.com/avdatabase/x/cmd.Version=1.0.0".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Version:    %s\n", Version)
			_, _ = fmt.Fprintf(out, "Git Commit: %s\n", GitCommit)
			_, _ = fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
			_, _ = fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
			_, _ = fmt.Fprintf(out, "OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
