package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the meetprep application
var rootCmd = &cobra.Command{
	Use:   "meetprep",
	Short: "Generates preparation task lists for meeting invitations",
	Long: `meetprep watches a Gmail inbox for meeting invitations, summarizes the
linked preparation material and drafts a task list with a language model.
Each draft is shown for approval; feedback is remembered and applied to
future drafts. Accepted task lists are mailed back to the account owner.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "meetprep version %s\n" .Version}}`)

	// If no subcommand is provided, run the polling loop by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "run")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())
}
