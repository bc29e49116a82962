package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/plotkit/pkg/survey"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorLeaf  = lipgloss.Color("71")  // leaf green: primary, completed units
	colorMoss  = lipgloss.Color("108") // muted green: success
	colorAmber = lipgloss.Color("214") // in progress, warnings
	colorBark  = lipgloss.Color("173") // errors
	colorSky   = lipgloss.Color("74")  // links and commands
	colorChalk = lipgloss.Color("254") // values
	colorStone = lipgloss.Color("246") // labels
	colorShade = lipgloss.Color("240") // muted text, borders
)

var (
	// StyleTitle for section headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorLeaf)

	// StyleHighlight for plot and species names.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorLeaf)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorSky).Underline(true)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorShade)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorChalk)

	// StyleWarning for warnings and unidentified individuals.
	StyleWarning = lipgloss.NewStyle().Foreground(colorAmber)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorMoss)
	styleIconError   = lipgloss.NewStyle().Foreground(colorBark)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorAmber)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorStone)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorLeaf)

	styleCached   = lipgloss.NewStyle().Foreground(colorMoss)
	styleComputed = lipgloss.NewStyle().Foreground(colorStone)
	styleCommand  = lipgloss.NewStyle().Foreground(colorSky)
	styleLabel    = lipgloss.NewStyle().Foreground(colorStone).Width(12)
	styleHeader   = lipgloss.NewStyle().Foreground(colorStone).Bold(true).Padding(0, 1)
	styleCell     = lipgloss.NewStyle().Padding(0, 1)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Lines
// =============================================================================

func printLine(icon lipgloss.Style, glyph, msg string) {
	fmt.Println(icon.Render(glyph) + " " + msg)
}

func printSuccess(format string, args ...any) {
	printLine(styleIconSuccess, iconSuccess, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printLine(styleIconError, iconError, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printLine(styleIconWarning, iconWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printLine(styleIconInfo, iconInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints the path a command wrote to.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints one labelled field of a record.
func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}

// printLayoutStats prints node and sampling-unit counts and whether the
// layout came from the cache.
func printLayoutStats(nodes, units int, cached bool) {
	source := styleComputed.Render(iconFresh)
	if cached {
		source = styleCached.Render(iconCached)
	}
	sep := StyleDim.Render(" · ")
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf("%d nodes", nodes)) + sep +
		StyleDim.Render(fmt.Sprintf("%d sampling units", units)) + sep + source)
}

// =============================================================================
// Survey State
// =============================================================================

// renderProgress colours a sampling-unit state: done units green, started
// ones amber.
func renderProgress(s survey.ProgressStatus) string {
	label := strings.ToLower(strings.ReplaceAll(string(s), "_", " "))
	switch s {
	case survey.Done:
		return lipgloss.NewStyle().Foreground(colorLeaf).Render(label)
	case survey.InProgress:
		return lipgloss.NewStyle().Foreground(colorAmber).Render(label)
	default:
		return StyleDim.Render(label)
	}
}

// renderPlotStatus colours a plot lifecycle state.
func renderPlotStatus(s survey.Status) string {
	switch s {
	case survey.StatusCompleted:
		return renderProgress(survey.Done)
	case survey.StatusInProgress:
		return renderProgress(survey.InProgress)
	default:
		return StyleDim.Render("planned")
	}
}

const completionBarWidth = 10

// completionBar draws the done fraction of a plot, e.g. "███░░░░░░░ 3/10".
func completionBar(s survey.CompletionSummary) string {
	filled := 0
	if s.Total > 0 {
		filled = s.Done * completionBarWidth / s.Total
	}
	bar := lipgloss.NewStyle().Foreground(colorLeaf).Render(strings.Repeat("█", filled)) +
		StyleDim.Render(strings.Repeat("░", completionBarWidth-filled))
	return fmt.Sprintf("%s %d/%d", bar, s.Done, s.Total)
}

// =============================================================================
// Tables
// =============================================================================

// newTable returns a rounded table with dim borders. Columns listed in
// numeric are right-aligned.
func newTable(headers []string, rows [][]string, numeric ...int) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorShade)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if slices.Contains(numeric, col) {
				return styleCell.Align(lipgloss.Right)
			}
			return styleCell
		})
}

func printTable(headers []string, rows [][]string, numeric ...int) {
	fmt.Println(newTable(headers, rows, numeric...).Render())
}
