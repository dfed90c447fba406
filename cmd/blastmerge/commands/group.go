package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/ktsu-dev/blastmerge/internal/bmconfig"
	"github.com/ktsu-dev/blastmerge/internal/bmerrors"
	"github.com/ktsu-dev/blastmerge/internal/discover"
	"github.com/ktsu-dev/blastmerge/internal/group"
)

func newGroupCmd() *cobra.Command {
	var pattern string
	var recursive bool
	var interactive bool

	cmd := &cobra.Command{
		Use:   "group <root>",
		Short: "List groups of files that share content under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGroup(cmd, args[0], pattern, recursive, interactive)
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", "*", "filename glob to match")
	cmd.Flags().BoolVar(&recursive, "recursive", true, "descend into subdirectories")
	cmd.Flags().BoolVar(&interactive, "pick", false, "open a fuzzy picker instead of listing every group")
	return cmd
}

// rawGroups runs discovery and grouping with no filtering at all: one
// FileGroup per (basename, hash) pair under cfg's grouping mode, including
// singleton groups whose hash has only one path.
func rawGroups(root, pattern string, recursive bool) ([]group.FileGroup, error) {
	cfg, err := bmconfig.Load()
	if err != nil {
		return nil, err
	}

	find := discover.Find
	if !recursive {
		find = discover.FindShallow
	}
	paths, err := find(root, pattern)
	if err != nil {
		return nil, bmerrors.IO(root, err)
	}

	groups, failures := group.Run(paths, group.Options{
		Mode:    cfg.ResolvedGroupMode(),
		Workers: cfg.Workers,
	}, func(p string) string { return filepath.Base(p) })
	for _, f := range failures {
		fmt.Fprintln(os.Stderr, f)
	}
	return groups, nil
}

// discoverGroups lists groups of byte-identical files: the same content
// copied to two or more paths. This is the view the group command lists and
// picks from.
func discoverGroups(root, pattern string, recursive bool) ([]group.FileGroup, error) {
	groups, err := rawGroups(root, pattern, recursive)
	if err != nil {
		return nil, err
	}

	var dup []group.FileGroup
	for _, g := range groups {
		if len(g.Paths) > 1 {
			dup = append(dup, g)
		}
	}
	return dup, nil
}

// discoverVersionBuckets buckets every discovered hash-group by basename and
// keeps only basenames with more than one distinct version. Unlike
// discoverGroups, a bucket member with a single path is not discarded: under
// basename+hash grouping that single path IS one divergent version of the
// file, and the merge command needs every version, not just the ones that
// happen to already be duplicated somewhere else.
func discoverVersionBuckets(root, pattern string, recursive bool) ([]basenameBucket, error) {
	cfg, err := bmconfig.Load()
	if err != nil {
		return nil, err
	}
	groups, err := rawGroups(root, pattern, recursive)
	if err != nil {
		return nil, err
	}

	hashOnly := cfg.ResolvedGroupMode() == group.ModeHashOnly

	var order []string
	byBasename := make(map[string][]group.FileGroup)
	for _, g := range groups {
		if len(g.Paths) == 0 {
			continue
		}
		key := filepath.Base(g.Paths[0])
		if hashOnly {
			key = ""
		}
		if _, seen := byBasename[key]; !seen {
			order = append(order, key)
		}
		byBasename[key] = append(byBasename[key], g)
	}

	var buckets []basenameBucket
	for _, key := range order {
		versions := byBasename[key]
		if len(versions) > 1 {
			buckets = append(buckets, basenameBucket{Basename: key, Versions: versions})
		}
	}
	return buckets, nil
}

func runGroup(cmd *cobra.Command, root, pattern string, recursive, interactive bool) error {
	groups, err := discoverGroups(root, pattern, recursive)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return SilentExit(bmerrors.ExitCode(err))
	}
	if len(groups) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no duplicate file groups found")
		return nil
	}

	if interactive {
		picked, err := pickGroup(groups)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return SilentExit(1)
		}
		if picked == nil {
			return nil
		}
		printGroup(cmd, *picked)
		return nil
	}

	out := cmd.OutOrStdout()
	for i, g := range groups {
		fmt.Fprintf(out, "group %d (%s, %d copies):\n", i+1, g.Hash, len(g.Paths))
		for _, p := range g.Paths {
			fmt.Fprintf(out, "  %s\n", p)
		}
	}
	return nil
}

func printGroup(cmd *cobra.Command, g group.FileGroup) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%d copies):\n", g.Hash, len(g.Paths))
	for _, p := range g.Paths {
		fmt.Fprintf(out, "  %s\n", p)
	}
}

// pickable is a fuzzy-searchable, displayable row of the interactive picker.
// groupItem and basenameBucket both implement it so the same Bubble Tea
// program can pick either a single duplicate group or a bucket of a
// basename's divergent versions.
type pickable interface {
	Label() string  // one-line summary shown in the list
	String() string // text the fuzzy filter matches against
}

// groupItem is a fuzzy-searchable row over one content-identical group.
type groupItem struct {
	group.FileGroup
}

func (g groupItem) Label() string {
	return fmt.Sprintf("%s (%d copies)", g.Hash, len(g.Paths))
}

func (g groupItem) String() string {
	return fmt.Sprintf("%s %s", g.Hash, strings.Join(g.Paths, " "))
}

// basenameBucket groups every distinct-hash version of one basename, as
// discovered by discoverVersionBuckets.
type basenameBucket struct {
	Basename string
	Versions []group.FileGroup
}

func (b basenameBucket) Label() string {
	return fmt.Sprintf("%s (%d version(s))", b.Basename, len(b.Versions))
}

func (b basenameBucket) String() string {
	var paths []string
	for _, v := range b.Versions {
		paths = append(paths, v.Paths...)
	}
	return fmt.Sprintf("%s %s", b.Basename, strings.Join(paths, " "))
}

var (
	pickerTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	pickerSelectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("255"))
	pickerHelpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

type pickerModel struct {
	textInput textinput.Model
	title     string
	items     []pickable
	filtered  []pickable
	cursor    int
	picked    pickable
}

func newPickerModel(title string, items []pickable) pickerModel {
	ti := textinput.New()
	ti.Placeholder = "Filter by hash, basename, or path..."
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60

	return pickerModel{textInput: ti, title: title, items: items, filtered: items}
}

func (m pickerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "j":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil
		case "enter":
			if len(m.filtered) > 0 {
				m.picked = m.filtered[m.cursor]
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	m.filterItems()
	return m, cmd
}

func (m *pickerModel) filterItems() {
	query := m.textInput.Value()
	if query == "" {
		m.filtered = m.items
		if m.cursor >= len(m.filtered) {
			m.cursor = 0
		}
		return
	}
	strs := make([]string, len(m.items))
	for i, it := range m.items {
		strs[i] = it.String()
	}
	matches := fuzzy.Find(query, strs)
	m.filtered = make([]pickable, len(matches))
	for i, match := range matches {
		m.filtered[i] = m.items[match.Index]
	}
	if m.cursor >= len(m.filtered) {
		if len(m.filtered) == 0 {
			m.cursor = 0
		} else {
			m.cursor = len(m.filtered) - 1
		}
	}
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(pickerHelpStyle.Render("  no matches\n"))
	}
	for i, it := range m.filtered {
		line := it.Label()
		if i == m.cursor {
			line = pickerSelectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(pickerHelpStyle.Render("↑/↓ or j/k to move, enter to pick, q to quit"))
	return b.String()
}

// pick runs the interactive picker over items and returns the chosen row,
// or nil if the user quit without picking one.
func pick(title string, items []pickable) (pickable, error) {
	m := newPickerModel(title, items)
	program := tea.NewProgram(m)
	finalModel, err := program.Run()
	if err != nil {
		return nil, err
	}
	return finalModel.(pickerModel).picked, nil
}

func pickGroup(groups []group.FileGroup) (*group.FileGroup, error) {
	items := make([]pickable, len(groups))
	for i, g := range groups {
		items[i] = groupItem{g}
	}
	picked, err := pick("blastmerge group picker", items)
	if err != nil || picked == nil {
		return nil, err
	}
	gi := picked.(groupItem)
	return &gi.FileGroup, nil
}

func pickBucket(buckets []basenameBucket) (*basenameBucket, error) {
	items := make([]pickable, len(buckets))
	for i, b := range buckets {
		items[i] = b
	}
	picked, err := pick("blastmerge merge picker", items)
	if err != nil || picked == nil {
		return nil, err
	}
	bb := picked.(basenameBucket)
	return &bb, nil
}

func init() {
	register(func(root *cobra.Command) { root.AddCommand(newGroupCmd()) })
}
