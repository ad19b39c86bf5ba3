package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/watchlist/internal/model"
)

// Theme bundles palette, symbols and box borders.
// All renderers pull from Current().
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected                                      lipgloss.Style

	Border      lipgloss.Border
	BorderColor lipgloss.TerminalColor

	StarFull, StarHalf, StarEmpty string
	BarFull, BarEmpty             string
	Bullet                        string

	status map[model.Status]lipgloss.Style
}

// StatusStyle returns the badge style for s.
func (t Theme) StatusStyle(s model.Status) lipgloss.Style {
	if st, ok := t.status[s]; ok {
		return st
	}
	return t.Muted
}

var current = themeFor("classic")

func SetTheme(name string) {
	current = themeFor(name)
}

func Current() Theme { return current }

func fg(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

func themeFor(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "neon":
		return Theme{
			Name:        "neon",
			Title:       fg("201").Bold(true),
			Muted:       lipgloss.NewStyle().Faint(true),
			Accent:      fg("51"),
			Success:     fg("46"),
			Error:       fg("196").Bold(true),
			Pending:     fg("226"),
			Selected:    fg("51").Bold(true).Reverse(true),
			Border:      lipgloss.RoundedBorder(),
			BorderColor: lipgloss.Color("201"),
			StarFull:    "★", StarHalf: "⯨", StarEmpty: "☆",
			BarFull: "█", BarEmpty: "░",
			Bullet: "•",
			status: map[model.Status]lipgloss.Style{
				model.StatusPlanned: fg("51"),
				model.StatusCurrent: fg("226").Bold(true),
				model.StatusPaused:  fg("208"),
				model.StatusDone:    fg("46"),
				model.StatusDropped: fg("196"),
			},
		}
	case "mono":
		plain := lipgloss.NewStyle()
		return Theme{
			Name:        "mono",
			Title:       plain.Bold(true),
			Muted:       plain,
			Accent:      plain,
			Success:     plain,
			Error:       plain,
			Pending:     plain,
			Selected:    plain.Reverse(true),
			Border:      lipgloss.NormalBorder(),
			BorderColor: lipgloss.NoColor{},
			StarFull:    "*", StarHalf: "+", StarEmpty: ".",
			BarFull: "#", BarEmpty: "-",
			Bullet: "-",
			status: map[model.Status]lipgloss.Style{},
		}
	default:
		return Theme{
			Name:        "classic",
			Title:       lipgloss.NewStyle().Bold(true),
			Muted:       lipgloss.NewStyle().Faint(true),
			Accent:      fg("12"),
			Success:     fg("42"),
			Error:       fg("9").Bold(true),
			Pending:     fg("214"),
			Selected:    lipgloss.NewStyle().Bold(true).Reverse(true),
			Border:      lipgloss.RoundedBorder(),
			BorderColor: lipgloss.Color("8"),
			StarFull:    "★", StarHalf: "⯨", StarEmpty: "☆",
			BarFull: "█", BarEmpty: "░",
			Bullet: "•",
			status: map[model.Status]lipgloss.Style{
				model.StatusPlanned: fg("12"),
				model.StatusCurrent: fg("214").Bold(true),
				model.StatusPaused:  fg("245"),
				model.StatusDone:    fg("42"),
				model.StatusDropped: lipgloss.NewStyle().Faint(true).Strikethrough(true),
			},
		}
	}
}
