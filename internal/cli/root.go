package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// Execute builds the command tree and runs it with args.
// --verbose (-v) switches the logger to debug level before any command
// runs.
func Execute(ctx context.Context, stderr io.Writer, args []string) error {
	var verbose bool

	c := New(stderr, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(LogDebug)
		}
		return loadConfig(cmd, args)
	}

	return root.ExecuteContext(ctx)
}
