package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/causaltower/pkg/identify"
	"github.com/matzehuels/causaltower/pkg/pipeline"
	"github.com/matzehuels/causaltower/pkg/pretty"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// CandidateListModel - Interactive candidate browsing
// =============================================================================

// CandidateListModel is the bubbletea model for browsing identification
// candidates. The detail pane shows the fixing sequence used in each
// district.
type CandidateListModel struct {
	Result   *identify.Result
	Formulas []string
	Cursor   int
	Height   int
	Offset   int
	Selected int // -1 until a candidate is chosen
}

// NewCandidateListModel creates a model over the candidates of res.
// formulas holds the rendered candidates, parallel to res.Candidates.
func NewCandidateListModel(res *identify.Result, formulas []string) CandidateListModel {
	return CandidateListModel{
		Result:   res,
		Formulas: formulas,
		Height:   10,
		Selected: -1,
	}
}

func (m CandidateListModel) Init() tea.Cmd {
	return nil
}

func (m CandidateListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Formulas)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = m.Cursor
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 12
		if m.Height < 3 {
			m.Height = 3
		}
	}
	return m, nil
}

func (m CandidateListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Identification Candidates"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Formulas))
	for i := m.Offset; i < end; i++ {
		line := fmt.Sprintf("%3d  %s", i+1, m.Formulas[i])
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if len(m.Formulas) > 0 {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(strings.Repeat("-", 40)))
		b.WriteString("\n")
		c := m.Result.Candidates[m.Cursor]
		for i, seq := range c.Sequences {
			district := "{" + pretty.Nodes(m.Result.Districts[i]) + "}"
			order := "(no fixing)"
			if len(seq) > 0 {
				order = strings.Join(seq, " → ")
			}
			b.WriteString(fmt.Sprintf("  %s  %s\n", StyleHighlight.Render(district), listDimStyle.Render(order)))
		}
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Formulas))))
	return b.String()
}

// browseCandidates runs the candidate browser and prints the chosen formula.
func browseCandidates(ans *pipeline.Answer) error {
	if ans.Identify == nil || len(ans.Formulas) != len(ans.Identify.Candidates) || len(ans.Formulas) == 0 {
		return nil
	}
	final, err := tea.NewProgram(NewCandidateListModel(ans.Identify, ans.Formulas)).Run()
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	m := final.(CandidateListModel)
	if m.Selected >= 0 {
		fmt.Println(m.Formulas[m.Selected])
	}
	return nil
}
