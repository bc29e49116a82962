package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/plotkit/pkg/blueprint"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorShade)

// =============================================================================
// BlueprintListModel - Interactive blueprint selection
// =============================================================================

// BlueprintListModel is the bubbletea model for picking a blueprint.
type BlueprintListModel struct {
	Blueprints []blueprint.Blueprint
	Cursor     int
	Selected   *blueprint.Blueprint
	Height     int
	Offset     int
}

// NewBlueprintListModel creates a picker over bps.
func NewBlueprintListModel(bps []blueprint.Blueprint) BlueprintListModel {
	return BlueprintListModel{Blueprints: bps, Height: 15}
}

func (m BlueprintListModel) Init() tea.Cmd {
	return nil
}

func (m BlueprintListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Blueprints)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Blueprints) == 0 {
				return m, tea.Quit
			}
			bp := m.Blueprints[m.Cursor]
			m.Selected = &bp
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m BlueprintListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Blueprint"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Blueprints))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		bp := m.Blueprints[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, bp.ID, "v" + strconv.Itoa(bp.Version), bp.Name, describeShape(bp.Root.Shape)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorStone).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorShade)).
		Headers("", "Blueprint", "Version", "Name", "Root").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorLeaf).Bold(true)
			}
			if col >= 3 {
				return lipgloss.NewStyle().Foreground(colorShade)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Blueprints))))

	return b.String()
}

// pickBlueprint runs the picker and returns the chosen blueprint, or false
// when the user quit without choosing.
func pickBlueprint(bps []blueprint.Blueprint) (blueprint.Blueprint, bool, error) {
	final, err := tea.NewProgram(NewBlueprintListModel(bps)).Run()
	if err != nil {
		return blueprint.Blueprint{}, false, fmt.Errorf("blueprint picker: %w", err)
	}
	m, ok := final.(BlueprintListModel)
	if !ok || m.Selected == nil {
		return blueprint.Blueprint{}, false, nil
	}
	return *m.Selected, true, nil
}
