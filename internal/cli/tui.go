package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/pkgtopo/pkg/graph"
	"github.com/matzehuels/pkgtopo/pkg/registry"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// LayerBrowserModel - Interactive layer navigation
// =============================================================================

// LayerBrowserModel is the bubbletea model for browsing a layout layer by
// layer. Left/right switch layers, up/down select a package in the layer.
type LayerBrowserModel struct {
	Layout graph.Layout
	Layer  int // index into Layout.Rows
	Cursor int // index into the current row
	Height int
	Offset int

	deps       map[string][]string
	dependents map[string][]string
}

// NewLayerBrowserModel creates a browser positioned on the top layer.
func NewLayerBrowserModel(l graph.Layout) LayerBrowserModel {
	m := LayerBrowserModel{
		Layout:     l,
		Height:     15,
		deps:       make(map[string][]string),
		dependents: make(map[string][]string),
	}
	for _, e := range l.Edges {
		m.deps[e.From] = append(m.deps[e.From], e.To)
		m.dependents[e.To] = append(m.dependents[e.To], e.From)
	}
	if len(l.Rows) > 0 {
		m.Layer = len(l.Rows) - 1
	}
	return m
}

func (m LayerBrowserModel) Init() tea.Cmd {
	return nil
}

func (m LayerBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.row())-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "right", "l", "pgup":
			if m.Layer < len(m.Layout.Rows)-1 {
				m.Layer++
				m.Cursor, m.Offset = 0, 0
			}
		case "left", "h", "pgdown":
			if m.Layer > 0 {
				m.Layer--
				m.Cursor, m.Offset = 0, 0
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-14, 5)
	}
	return m, nil
}

func (m LayerBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Layer %d of %d", m.Layer, max(len(m.Layout.Rows)-1, 0))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ layer  ↑/↓ package  q quit"))
	b.WriteString("\n\n")

	row := m.row()
	if len(row) == 0 {
		b.WriteString(listDimStyle.Render("  (no packages)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(row))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n, _ := m.Layout.Node(row[i])
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		version := n.Version
		if version == "" {
			version = "—"
		}
		rows = append(rows, []string{cursor, n.ID, n.Kind, version})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Package", "Kind", "Version").
		Rows(rows...).
		StyleFunc(func(r, col int) lipgloss.Style {
			if r == table.HeaderRow {
				return headerStyle
			}
			idx := m.Offset + r
			if idx >= len(row) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col == 2 {
				base = base.Foreground(lipgloss.Color(registry.KindColor(rows[r][2])))
			}
			if idx == m.Cursor {
				if col == 1 {
					return listSelectedStyle
				}
				return base.Bold(true)
			}
			if col == 3 {
				return listDimStyle
			}
			if col == 1 {
				return listNormalStyle
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")

	selected := row[m.Cursor]
	b.WriteString(listSelectedStyle.Render(selected))
	b.WriteString("\n")
	b.WriteString(m.relation("depends on", m.deps[selected]))
	b.WriteString(m.relation("required by", m.dependents[selected]))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(row))))

	return b.String()
}

// Selected returns the package under the cursor, or "" for an empty layer.
func (m LayerBrowserModel) Selected() string {
	row := m.row()
	if m.Cursor < len(row) {
		return row[m.Cursor]
	}
	return ""
}

func (m LayerBrowserModel) row() []string {
	if m.Layer < len(m.Layout.Rows) {
		return m.Layout.Rows[m.Layer]
	}
	return nil
}

func (m LayerBrowserModel) relation(label string, names []string) string {
	value := "—"
	if len(names) > 0 {
		value = strings.Join(names, ", ")
	}
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	return "  " + keyStyle.Render(label) + " " + StyleValue.Render(value) + "\n"
}
