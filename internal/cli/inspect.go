package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jsonkit/ecmason/pkg/errors"
	"github.com/jsonkit/ecmason/pkg/hostval"
	"github.com/jsonkit/ecmason/pkg/json"
)

// docStats summarizes the shape of a parsed document.
type docStats struct {
	Objects  int
	Arrays   int
	Strings  int
	Numbers  int
	Booleans int
	Nulls    int
	Keys     int
	MaxDepth int
	Bytes    int
}

func (s docStats) total() int {
	return s.Objects + s.Arrays + s.Strings + s.Numbers + s.Booleans + s.Nulls
}

// newInspectCmd creates the inspect command, which prints structural
// statistics for a JSON document or opens an interactive tree browser.
func newInspectCmd() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Show structural statistics for a JSON document",
		Long: `Show structural statistics for a JSON document.

Reads from stdin when no file is given. With --interactive, opens a
terminal tree browser for exploring the document.

Examples:
  cat data.json | ecmason inspect
  ecmason inspect data.json
  ecmason inspect --interactive data.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runInspect(c.Context(), args, interactive)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "I", false, "open an interactive tree browser")

	return cmd
}

func runInspect(ctx context.Context, args []string, interactive bool) error {
	logger := loggerFromContext(ctx)

	var input []byte
	var err error
	name := "stdin"
	if len(args) == 1 {
		name = args[0]
		input, err = os.ReadFile(name)
		if err != nil {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "reading %s", name)
		}
	} else {
		input, err = io.ReadAll(os.Stdin)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "reading stdin")
		}
	}

	root, err := json.Parse(string(input), nil)
	if err != nil {
		return err
	}
	logger.Debugf("parsed %s (%d bytes)", name, len(input))

	if interactive {
		model := newTreeModel(name, root)
		if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "tree browser")
		}
		return nil
	}

	stats := collectStats(root, 1, docStats{Bytes: len(input)})
	printStatsTable(name, stats)
	return nil
}

// collectStats walks the value tree accumulating per-kind counts and depth.
func collectStats(v *hostval.Value, depth int, s docStats) docStats {
	if depth > s.MaxDepth {
		s.MaxDepth = depth
	}
	switch {
	case v == nil || v.Kind() == hostval.KindNull:
		s.Nulls++
	case v.Kind() == hostval.KindBoolean:
		s.Booleans++
	case v.Kind() == hostval.KindNumber:
		s.Numbers++
	case v.Kind() == hostval.KindString:
		s.Strings++
	case v.IsArray():
		s.Arrays++
		for i := 0; i < v.Length(); i++ {
			s = collectStats(v.Elem(i), depth+1, s)
		}
	case v.IsObjectLike():
		s.Objects++
		for _, k := range v.OwnEnumerableKeys() {
			s.Keys++
			child, err := v.Get(k)
			if err != nil {
				continue
			}
			s = collectStats(child, depth+1, s)
		}
	}
	return s
}

// printStatsTable renders the stats as a bordered table.
func printStatsTable(name string, s docStats) {
	fmt.Println(StyleTitle.Render("Document: " + name))
	fmt.Println()

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Metric", "Count").
		Rows(
			[]string{"objects", fmt.Sprintf("%d", s.Objects)},
			[]string{"arrays", fmt.Sprintf("%d", s.Arrays)},
			[]string{"strings", fmt.Sprintf("%d", s.Strings)},
			[]string{"numbers", fmt.Sprintf("%d", s.Numbers)},
			[]string{"booleans", fmt.Sprintf("%d", s.Booleans)},
			[]string{"nulls", fmt.Sprintf("%d", s.Nulls)},
			[]string{"object keys", fmt.Sprintf("%d", s.Keys)},
			[]string{"total values", fmt.Sprintf("%d", s.total())},
			[]string{"max depth", fmt.Sprintf("%d", s.MaxDepth)},
			[]string{"input bytes", fmt.Sprintf("%d", s.Bytes)},
		).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return StyleDim
			}
			return StyleValue
		})

	fmt.Println(t.Render())
}
