package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := NewOptions()

	rootCmd := &cobra.Command{
		Use:   "stalewatch",
		Short: "Find stale GitHub repositories",
		Long: `Scans the repositories of an organization (or your own account) and
reports the ones with no recent activity, as a terminal table, markdown,
or JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, opts)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Add scan flags to root command so `stalewatch` and `stalewatch scan`
	// work identically
	addScanFlags(rootCmd, opts)

	// Register subcommands
	rootCmd.AddCommand(NewCmdScan(opts))
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}
