package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"gobf/pkg/machine"
)

// defaultDumpWidth is the number of cells shown around the pointer.
const defaultDumpWidth = 16

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorError   = lipgloss.Color("#EF4444")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorError)

	cellStyle = lipgloss.NewStyle().
			Width(4).
			Align(lipgloss.Right)

	pointerStyle = cellStyle.
			Bold(true).
			Foreground(colorPrimary)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

// dumpWindow picks the first cell of a width-cell window centred on the
// pointer, kept inside the tape's extent where the tape is bounded.
func dumpWindow(m *machine.Machine, width int) int {
	from := m.Pointer() - width/2
	if m.Policy() == machine.PolicyGrow {
		return from
	}
	lo, hi := m.Extent()
	if from+width > hi {
		from = hi - width
	}
	if from < lo {
		from = lo
	}
	return from
}

func printable(b byte) string {
	if b >= 0x20 && b < 0x7f {
		return strconv.QuoteRune(rune(b))
	}
	return ""
}

// RenderTape draws width cells around the pointer: position, value and the
// printable character of each cell. The pointer's column is highlighted.
func RenderTape(m *machine.Machine, width int) string {
	if width <= 0 {
		width = defaultDumpWidth
	}
	if m.Policy() != machine.PolicyGrow {
		lo, hi := m.Extent()
		width = min(width, hi-lo)
	}
	from := dumpWindow(m, width)
	cells := m.Window(from, width)

	cols := make([]string, len(cells))
	for i, v := range cells {
		pos := from + i
		style := cellStyle
		marker := ""
		if pos == m.Pointer() {
			style = pointerStyle
			marker = "^"
		}
		cols[i] = lipgloss.JoinVertical(lipgloss.Right,
			mutedStyle.Inherit(cellStyle).Render(strconv.Itoa(pos)),
			style.Render(strconv.Itoa(int(v))),
			style.Render(printable(v)),
			style.Render(marker),
		)
	}

	header := titleStyle.Render("tape") + " " + mutedStyle.Render(fmt.Sprintf(
		"pointer %d  steps %d  policy %s", m.Pointer(), m.Steps(), m.Policy()))
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, cols...),
	))
}
