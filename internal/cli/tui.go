package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jsonkit/ecmason/pkg/hostval"
	"github.com/jsonkit/ecmason/pkg/json"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// treeModel - Interactive JSON tree browser
// =============================================================================

// treeNode is one row of the browser: a key (or index) and its value.
// Children are materialized lazily on first expansion.
type treeNode struct {
	key      string
	value    *hostval.Value
	depth    int
	expanded bool
	children []*treeNode
	loaded   bool
}

// container reports whether the node can be expanded.
func (n *treeNode) container() bool {
	return n.value != nil && (n.value.IsArray() || (n.value.IsObjectLike() && !n.value.IsCallable()))
}

// load materializes the node's children.
func (n *treeNode) load() {
	if n.loaded || !n.container() {
		return
	}
	n.loaded = true
	v := n.value
	if v.IsArray() {
		for i := 0; i < v.Length(); i++ {
			n.children = append(n.children, &treeNode{
				key:   fmt.Sprintf("%d", i),
				value: v.Elem(i),
				depth: n.depth + 1,
			})
		}
		return
	}
	for _, k := range v.OwnEnumerableKeys() {
		child, err := v.Get(k)
		if err != nil {
			continue
		}
		n.children = append(n.children, &treeNode{
			key:   k,
			value: child,
			depth: n.depth + 1,
		})
	}
}

// treeModel is the bubbletea model for the inspect --interactive browser.
type treeModel struct {
	Name   string
	Root   *treeNode
	Rows   []*treeNode
	Cursor int
	Height int
	Offset int
}

// newTreeModel builds the browser over a parsed document, root expanded.
func newTreeModel(name string, root *hostval.Value) treeModel {
	r := &treeNode{key: name, value: root, expanded: true}
	r.load()
	m := treeModel{
		Name:   name,
		Root:   r,
		Height: 20,
	}
	m.reflow()
	return m
}

// reflow rebuilds the visible row list from the expansion state.
func (m *treeModel) reflow() {
	m.Rows = m.Rows[:0]
	var visit func(n *treeNode)
	visit = func(n *treeNode) {
		m.Rows = append(m.Rows, n)
		if n.expanded {
			for _, c := range n.children {
				visit(c)
			}
		}
	}
	visit(m.Root)
	if m.Cursor >= len(m.Rows) {
		m.Cursor = len(m.Rows) - 1
	}
}

func (m treeModel) Init() tea.Cmd {
	return nil
}

func (m treeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ", "right", "l":
			n := m.Rows[m.Cursor]
			if n.container() {
				n.load()
				n.expanded = !n.expanded
				m.reflow()
			}
		case "left", "h":
			n := m.Rows[m.Cursor]
			if n.expanded {
				n.expanded = false
				m.reflow()
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 5
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m treeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Inspect: " + m.Name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ expand/collapse  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	for i := m.Offset; i < end; i++ {
		n := m.Rows[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		marker := "  "
		if n.container() {
			if n.expanded {
				marker = "▾ "
			} else {
				marker = "▸ "
			}
		}

		line := cursor + strings.Repeat("  ", n.depth) + marker + n.key + ": " + preview(n.value)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

// preview renders a one-line summary of a value for the tree rows.
func preview(v *hostval.Value) string {
	if v == nil {
		return "undefined"
	}
	switch {
	case v.Kind() == hostval.KindUndefined:
		return "undefined"
	case v.Kind() == hostval.KindNull:
		return "null"
	case v.Kind() == hostval.KindBoolean:
		if v.Bool() {
			return "true"
		}
		return "false"
	case v.Kind() == hostval.KindNumber:
		return hostval.FormatNumber(v.Num())
	case v.Kind() == hostval.KindString:
		s := json.Quote(v.Str())
		if len(s) > 48 {
			s = s[:45] + "…\""
		}
		return s
	case v.IsArray():
		return fmt.Sprintf("[…] %d items", v.Length())
	case v.IsObjectLike():
		return fmt.Sprintf("{…} %d keys", len(v.OwnEnumerableKeys()))
	default:
		return "?"
	}
}
