package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ktsu-dev/blastmerge/internal/bmconfig"
	"github.com/ktsu-dev/blastmerge/internal/bmerrors"
	"github.com/ktsu-dev/blastmerge/internal/dircompare"
	"github.com/ktsu-dev/blastmerge/internal/ui"
)

func newCompareCmd() *cobra.Command {
	var pattern string
	var recursive bool
	var namesOnly bool

	cmd := &cobra.Command{
		Use:   "compare <dirA> <dirB>",
		Short: "Classify files under two directories as same, modified, or one-sided",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args[0], args[1], pattern, recursive, namesOnly)
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", "*", "filename glob to match")
	cmd.Flags().BoolVar(&recursive, "recursive", true, "descend into subdirectories")
	cmd.Flags().BoolVar(&namesOnly, "names-only", false, "print paths only, without status prefixes")
	return cmd
}

func runCompare(cmd *cobra.Command, rootA, rootB, pattern string, recursive, namesOnly bool) error {
	cfg, err := bmconfig.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return SilentExit(bmerrors.ExitCode(err))
	}

	result, err := dircompare.Compare(rootA, rootB, dircompare.Options{
		Pattern:   pattern,
		Recursive: recursive,
		Workers:   cfg.Workers,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return SilentExit(bmerrors.ExitCode(err))
	}

	out := cmd.OutOrStdout()
	printBucket := func(status string, color func(string) string, paths []string) {
		for _, p := range paths {
			if namesOnly {
				fmt.Fprintln(out, p)
				continue
			}
			fmt.Fprintf(out, "%s %s\n", color(status), p)
		}
	}

	printBucket("M", ui.Yellow, result.Modified)
	printBucket("A", ui.Green, result.OnlyInB)
	printBucket("D", ui.Red, result.OnlyInA)

	if !namesOnly {
		fmt.Fprintf(out, "%s: %d file(s) identical\n", ui.Dim("same"), len(result.Same))
	}
	return nil
}

func init() {
	register(func(root *cobra.Command) { root.AddCommand(newCompareCmd()) })
}
