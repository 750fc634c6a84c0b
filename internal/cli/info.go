package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/causaltower/pkg/pipeline"
)

// writeInfo prints a graph summary: a node table followed by the districts,
// fixable set and topological order.
func writeInfo(w io.Writer, info *pipeline.Info) {
	if info == nil {
		return
	}
	writeTitle(w, info.Title)

	kind := "ADMG"
	switch {
	case info.DAG:
		kind = "DAG"
	case !info.Acyclic:
		kind = "cyclic"
	}
	fmt.Fprintln(w, keyValue("graph", fmt.Sprintf("%s, %d nodes", kind, len(info.Nodes))))

	rows := make([][]string, 0, len(info.Nodes))
	for _, n := range info.Nodes {
		rows = append(rows, []string{n.Name, list(n.Parents), list(n.Children), list(n.Bidirects)})
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Node", "Parents", "Children", "Bidirected").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleHighlight
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(w, t.Render())

	var districts []string
	for _, d := range info.Districts {
		districts = append(districts, "{"+strings.Join(d, ",")+"}")
	}
	fmt.Fprintln(w, keyValue("districts", strings.Join(districts, " ")))
	fmt.Fprintln(w, keyValue("fixable", list(info.Fixable)))
	if len(info.Order) > 0 {
		fmt.Fprintln(w, keyValue("order", strings.Join(info.Order, " < ")))
	}
}

func keyValue(key, value string) string {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	return keyStyle.Render(key) + " " + StyleValue.Render(value)
}

func list(names []string) string {
	if len(names) == 0 {
		return "—"
	}
	return strings.Join(names, ",")
}
