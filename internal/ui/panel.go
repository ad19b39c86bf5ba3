package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/watchlist/internal/model"
)

// ProgressBar renders a percentage as a bar followed by the number, e.g. "█████░░░░░  48%".
func ProgressBar(percent, width int) string {
	t := Current()
	if width < 5 {
		width = 5
	}
	percent = max(model.MinProgress, min(model.MaxProgress, percent))
	filled := percent * width / model.MaxProgress
	bar := strings.Repeat(t.BarFull, filled) + strings.Repeat(t.BarEmpty, width-filled)
	return fmt.Sprintf("%s %3d%%", bar, percent)
}

// Stars renders a 0–5 rating as five symbols. A fractional part of at least
// one half shows as a half star.
func Stars(rating float64) string {
	t := Current()
	if math.IsNaN(rating) {
		rating = 0
	}
	rating = max(model.MinRating, min(model.MaxRating, rating))
	full := int(math.Floor(rating))
	half := rating-float64(full) >= 0.5

	var b strings.Builder
	for i := 1; i <= 5; i++ {
		switch {
		case i <= full:
			b.WriteString(t.StarFull)
		case half && i == full+1:
			b.WriteString(t.StarHalf)
		default:
			b.WriteString(t.StarEmpty)
		}
	}
	return b.String()
}

// Panel draws a framed box with an optional title line using the current theme.
func Panel(title string, lines []string) string {
	t := Current()
	body := make([]string, 0, len(lines)+1)
	if title != "" {
		body = append(body, t.Title.Render(title))
	}
	body = append(body, lines...)
	border := lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1)
	return border.Render(strings.Join(body, "\n"))
}

// Columns lays panels out side by side.
func Columns(panels ...string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, panels...)
}
