// Package text renders package layouts as terminal tables.
package text

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/pkgtopo/pkg/layered"
	"github.com/matzehuels/pkgtopo/pkg/registry"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	layerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Headers are the column titles of [Table].
var Headers = []string{"Layer", "Package", "Kind", "Version", "Depends on"}

// Rows returns one row per node in layout order: layer, name, kind,
// version and the comma-separated resolved dependencies.
func Rows(l layered.Layout[registry.Package]) [][]string {
	deps := make(map[string][]string, len(l.Nodes))
	for _, e := range l.Edges {
		deps[e.From] = append(deps[e.From], e.To)
	}

	rows := make([][]string, 0, len(l.Nodes))
	for _, n := range l.Nodes {
		version := n.Payload.Version
		if version == "" {
			version = "-"
		}
		depends := strings.Join(deps[n.Name], ", ")
		if depends == "" {
			depends = "-"
		}
		rows = append(rows, []string{strconv.Itoa(n.Layer), n.Name, n.Payload.Kind, version, depends})
	}
	return rows
}

// Table renders the layout as a bordered table grouped by layer.
// Kinds are coloured with their registry colour.
func Table(l layered.Layout[registry.Package]) string {
	rows := Rows(l)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(Headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			if row < 0 || row >= len(rows) {
				return cellStyle
			}
			switch col {
			case 0:
				return cellStyle.Inherit(layerStyle)
			case 2:
				return cellStyle.Foreground(lipgloss.Color(registry.KindColor(rows[row][2])))
			case 3, 4:
				return cellStyle.Inherit(dimStyle)
			}
			return cellStyle
		})
	return t.Render()
}

// Summary is a one-line description of the layout size.
func Summary(l layered.Layout[registry.Package]) string {
	layers := 0
	if len(l.Nodes) > 0 {
		layers = l.MaxLayer() + 1
	}
	return plural(len(l.Nodes), "package") + ", " + plural(len(l.Edges), "dependency") + ", " + plural(layers, "layer")
}

func plural(n int, word string) string {
	if n != 1 {
		if strings.HasSuffix(word, "y") {
			word = strings.TrimSuffix(word, "y") + "ie"
		}
		word += "s"
	}
	return strconv.Itoa(n) + " " + word
}
