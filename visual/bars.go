package visual

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	blocks      = []rune(" ▁▂▃▄▅▆▇█")
	gradientTop = mustHex("#6366f1")
	gradientEnd = mustHex("#a855f7")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Bars maps a frame onto bars of at most rows cells, one bar per two
// columns. Heights are in eighths of a cell. Only the lowest bins are shown
// on narrow terminals.
func Bars(frame Frame, columns, rows int) []int {
	count := min(len(frame), (columns+1)/2)
	if count <= 0 || rows <= 0 {
		return nil
	}
	heights := make([]int, count)
	for i := 0; i < count; i++ {
		heights[i] = int(frame[i]) * rows * 8 / 256
	}
	return heights
}

// Render draws frame into a block of rows lines, columns wide.
func Render(frame Frame, columns, rows int) string {
	heights := Bars(frame, columns, rows)
	var sb strings.Builder
	for row := 0; row < rows; row++ {
		floor := (rows - row - 1) * 8
		var line strings.Builder
		for i, h := range heights {
			if i > 0 {
				line.WriteRune(' ')
			}
			fill := h - floor
			switch {
			case fill >= 8:
				line.WriteRune(blocks[8])
			case fill > 0:
				line.WriteRune(blocks[fill])
			default:
				line.WriteRune(' ')
			}
		}
		style := lipgloss.NewStyle().Foreground(rowColor(row, rows))
		sb.WriteString(style.Render(padRight(line.String(), columns)))
		if row < rows-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func rowColor(row, rows int) lipgloss.Color {
	t := 0.0
	if rows > 1 {
		t = float64(row) / float64(rows-1)
	}
	return lipgloss.Color(gradientTop.BlendLab(gradientEnd, t).Clamped().Hex())
}

func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
