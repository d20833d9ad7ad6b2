package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-strategy/internal/sim"
	"github.com/vovakirdan/tui-strategy/internal/theme"
)

// colorStyles maps theme color keys to lipgloss styles.
var colorStyles = map[string]lipgloss.Style{
	"":               lipgloss.NewStyle(),
	"red":            lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	"green":          lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	"yellow":         lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	"blue":           lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	"magenta":        lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	"cyan":           lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	"white":          lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	"bright_red":     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	"bright_green":   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	"bright_yellow":  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	"bright_blue":    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	"bright_magenta": lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	"bright_cyan":    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	"bright_white":   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	"orange":         lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	"gray":           lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// styleFor resolves a theme color key, falling back to the default style
// for unknown keys.
func styleFor(key string) lipgloss.Style {
	if s, ok := colorStyles[key]; ok {
		return s
	}
	return colorStyles[""]
}

// cell is one resolved map cell ready for run-grouped output.
type cell struct {
	r     rune
	color string
}

// RenderMap draws the world snapshot as colored terrain with units,
// resource nodes, and hazards overlaid. The view is cropped to
// maxW x maxH cells. Adjacent cells with the same color are grouped to
// minimize ANSI escape sequences.
func RenderMap(snap sim.Snapshot, th theme.Descriptor, maxW, maxH int) string {
	width := snap.Width
	if maxW > 0 && width > maxW {
		width = maxW
	}
	height := snap.Height
	if maxH > 0 && height > maxH {
		height = maxH
	}
	if width <= 0 || height <= 0 {
		return ""
	}

	cells := make([]cell, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			tc := th.Terrain(snap.Terrain[y*snap.Width+x])
			glyph := '.'
			if !tc.Walkable {
				glyph = '#'
			}
			cells[y*width+x] = cell{r: glyph, color: tc.ColorKey}
		}
	}

	overlay := func(x, y int, r rune, color string) {
		if x >= 0 && x < width && y >= 0 && y < height {
			cells[y*width+x] = cell{r: r, color: color}
		}
	}

	for _, n := range snap.Nodes {
		if n.Remaining > 0 {
			overlay(n.X, n.Y, '*', "bright_yellow")
		}
	}
	for _, p := range snap.Hazards {
		overlay(p.X, p.Y, '!', "bright_red")
	}
	for _, u := range snap.Units {
		if !u.Alive {
			continue
		}
		if u.Player == 0 {
			overlay(u.X, u.Y, 'A', "bright_white")
		} else {
			overlay(u.X, u.Y, 'B', "bright_magenta")
		}
	}

	var sb strings.Builder
	sb.Grow(width*height*2 + height)

	for y := 0; y < height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same color for efficiency
		x := 0
		for x < width {
			startColor := cells[y*width+x].color

			var run strings.Builder
			for x < width && cells[y*width+x].color == startColor {
				run.WriteRune(cells[y*width+x].r)
				x++
			}

			sb.WriteString(styleFor(startColor).Render(run.String()))
		}
	}
	return sb.String()
}
