package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ktsu-dev/blastmerge/internal/ui"
)

var (
	Version   = "0.0.1"
	BuildTime = "dev"
	GitCommit = "unknown"
)

var rootCmd = newRootCmd()

// registrar lets each command file register itself with the root command
// independently, so new subcommands can be added without editing this file.
type registrar func(*cobra.Command)

var registrars []registrar

func register(r registrar) {
	registrars = append(registrars, r)
	if rootCmd != nil {
		r(rootCmd)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blastmerge",
		Short: "Unify divergent copies of the same file into one",
		Long: `blastmerge finds every copy of a file scattered across a tree, groups
identical copies together, and walks the distinct versions down to a single
survivor through a sequence of interactively resolved pairwise merges.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Every RunE prints its own diagnostic before returning SilentExit.
			cmd.SilenceErrors = true
			noColor, _ := cmd.Flags().GetBool("no-color")
			if noColor || os.Getenv("NO_COLOR") != "" {
				ui.Disable()
			}
		},
	}
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	return cmd
}

// NewRootCmd builds a fresh root command with every registered
// subcommand attached; used by tests that want an isolated command tree.
func NewRootCmd() *cobra.Command {
	cmd := newRootCmd()
	for _, r := range registrars {
		r(cmd)
	}
	return cmd
}

func Execute() error {
	return rootCmd.Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "blastmerge version %s\n", Version)
			fmt.Fprintf(out, "  build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  git commit: %s\n", GitCommit)
		},
	}
}

func init() {
	register(func(root *cobra.Command) { root.AddCommand(newVersionCmd()) })
}
