package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ktsu-dev/blastmerge/internal/block"
	"github.com/ktsu-dev/blastmerge/internal/blockmerge"
	"github.com/ktsu-dev/blastmerge/internal/bmerrors"
	"github.com/ktsu-dev/blastmerge/internal/group"
	"github.com/ktsu-dev/blastmerge/internal/orchestrator"
	"github.com/ktsu-dev/blastmerge/internal/syncwriter"
	"github.com/ktsu-dev/blastmerge/internal/ui"
)

func newMergeCmd() *cobra.Command {
	var pattern string
	var recursive bool
	var sync bool
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "merge <root>",
		Short: "Iteratively merge every distinct version of a duplicated file into one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, args[0], pattern, recursive, sync, assumeYes)
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", "*", "filename glob to match")
	cmd.Flags().BoolVar(&recursive, "recursive", true, "descend into subdirectories")
	cmd.Flags().BoolVar(&sync, "sync", false, "write the merged result back to every path in the group")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "don't prompt before each additional merge round")
	return cmd
}

func runMerge(cmd *cobra.Command, root, pattern string, recursive, sync, assumeYes bool) error {
	buckets, err := discoverVersionBuckets(root, pattern, recursive)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return SilentExit(bmerrors.ExitCode(err))
	}
	if len(buckets) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no divergent versions of any file found")
		return nil
	}

	picked, err := pickBucket(buckets)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return SilentExit(1)
	}
	if picked == nil {
		return nil
	}
	if len(picked.Versions) < 2 {
		fmt.Fprintln(cmd.OutOrStdout(), "selected file has only one distinct version, nothing to merge")
		return nil
	}

	out := cmd.OutOrStdout()
	reader := bufio.NewReader(cmd.InOrStdin())

	reportStatus := func(s orchestrator.Status) {
		fmt.Fprintf(out, "%s round %d: merging %s into %s (%d version(s) remaining)\n",
			ui.BoldCyan("blastmerge"), s.Round, filepath.Base(s.ChosenB), filepath.Base(s.ChosenA), s.RemainingCount)
	}

	askContinue := func() bool {
		if assumeYes {
			return true
		}
		return confirmContinue(reader, out)
	}

	completion, err := orchestrator.Run(picked.Versions, interactiveResolver(reader, out), reportStatus, askContinue)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return SilentExit(bmerrors.ExitCode(err))
	}

	if !completion.Successful {
		fmt.Fprintf(out, "%s: %s (%d round(s) completed)\n", ui.Yellow("merge stopped"), completion.Reason, completion.Rounds)
	} else {
		fmt.Fprintf(out, "%s after %d round(s), %d conflict(s) auto-resolved by explicit choice\n",
			ui.Green("merge complete"), completion.Rounds, len(completion.Conflicts))
	}

	if sync && len(completion.FinalContent) > 0 {
		var allPaths []string
		for _, v := range picked.Versions {
			allPaths = append(allPaths, v.Paths...)
		}
		result := syncwriter.Sync(completion.FinalContent, group.FileGroup{Paths: allPaths})
		for _, p := range result.Written {
			fmt.Fprintf(out, "  %s %s\n", ui.Green("wrote"), p)
		}
		for _, f := range result.Failures {
			fmt.Fprintf(out, "  %s %s\n", ui.Red("failed"), f)
		}
		if len(result.Failures) > 0 {
			return SilentExit(3)
		}
	} else {
		fmt.Fprint(out, string(completion.FinalContent))
	}
	return nil
}

func confirmContinue(reader *bufio.Reader, out io.Writer) bool {
	fmt.Fprint(out, "continue merging the remaining versions? [Y/n] ")
	resp, _ := reader.ReadString('\n')
	resp = strings.TrimSpace(strings.ToLower(resp))
	return resp == "" || resp == "y" || resp == "yes"
}

// interactiveResolver prints each conflict block with its surrounding
// context and prompts for a choice on the command line.
func interactiveResolver(reader *bufio.Reader, out io.Writer) blockmerge.Resolver {
	return func(blk block.DiffBlock, ctx block.Context, index int) (blockmerge.Choice, error) {
		printBlock(out, blk, ctx, index)
		for {
			prompt, options := choicePrompt(blk.Kind)
			fmt.Fprint(out, prompt)
			resp, _ := reader.ReadString('\n')
			resp = strings.TrimSpace(strings.ToLower(resp))
			if choice, ok := options[resp]; ok {
				return choice, nil
			}
			if resp == "c" || resp == "cancel" {
				return 0, blockmerge.Cancel{}
			}
			fmt.Fprintln(out, "unrecognized choice, try again")
		}
	}
}

func printBlock(out io.Writer, blk block.DiffBlock, ctx block.Context, index int) {
	fmt.Fprintf(out, "\n%s block %d (%s)\n", ui.BoldCyan("conflict"), index+1, kindLabel(blk.Kind))
	for _, l := range ctx.BeforeA {
		fmt.Fprintf(out, "  %s\n", l)
	}
	for _, l := range blk.LinesA {
		fmt.Fprintf(out, "%s %s\n", ui.Red("-"), l)
	}
	for _, l := range blk.LinesB {
		fmt.Fprintf(out, "%s %s\n", ui.Green("+"), l)
	}
	for _, l := range ctx.AfterA {
		fmt.Fprintf(out, "  %s\n", l)
	}
}

func kindLabel(k block.Kind) string {
	switch k {
	case block.Insert:
		return "insertion"
	case block.Delete:
		return "deletion"
	default:
		return "replacement"
	}
}

func choicePrompt(k block.Kind) (string, map[string]blockmerge.Choice) {
	switch k {
	case block.Insert:
		return "include this insertion? [i]nclude/[s]kip/[c]ancel: ", map[string]blockmerge.Choice{
			"i": blockmerge.Include, "s": blockmerge.Skip,
		}
	case block.Delete:
		return "keep or remove these lines? [k]eep/[r]emove/[c]ancel: ", map[string]blockmerge.Choice{
			"k": blockmerge.Keep, "r": blockmerge.Remove,
		}
	default:
		return "use [a], [b], [o]both, or [s]kip? [c]ancel: ", map[string]blockmerge.Choice{
			"a": blockmerge.UseA, "b": blockmerge.UseB, "o": blockmerge.UseBoth, "s": blockmerge.Skip,
		}
	}
}

func init() {
	register(func(root *cobra.Command) { root.AddCommand(newMergeCmd()) })
}
