package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ktsu-dev/blastmerge/internal/bmconfig"
	"github.com/ktsu-dev/blastmerge/internal/bmerrors"
	"github.com/ktsu-dev/blastmerge/internal/textio"
	"github.com/ktsu-dev/blastmerge/internal/udiff"
)

func newDiffCmd() *cobra.Command {
	var context int
	cmd := &cobra.Command{
		Use:   "diff <fileA> <fileB>",
		Short: "Show a unified diff between two files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, args[0], args[1], context)
		},
	}
	cmd.Flags().IntVar(&context, "context", 0, "lines of context around each hunk (0 = use config default)")
	return cmd
}

func runDiff(cmd *cobra.Command, pathA, pathB string, context int) error {
	cfg, err := bmconfig.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return SilentExit(bmerrors.ExitCode(err))
	}
	if context <= 0 {
		context = cfg.ContextLines
	}

	contentA, err := os.ReadFile(pathA)
	if err != nil {
		wrapped := bmerrors.IO(pathA, err)
		fmt.Fprintln(os.Stderr, wrapped)
		return SilentExit(bmerrors.ExitCode(wrapped))
	}
	contentB, err := os.ReadFile(pathB)
	if err != nil {
		wrapped := bmerrors.IO(pathB, err)
		fmt.Fprintln(os.Stderr, wrapped)
		return SilentExit(bmerrors.ExitCode(wrapped))
	}

	out, err := udiff.Render(textio.SplitLines(contentA), textio.SplitLines(contentB), udiff.Options{
		NameA:   pathA,
		NameB:   pathB,
		Context: context,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return SilentExit(bmerrors.ExitCode(err))
	}
	if out == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s and %s are identical\n", pathA, pathB)
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func init() {
	register(func(root *cobra.Command) { root.AddCommand(newDiffCmd()) })
}
