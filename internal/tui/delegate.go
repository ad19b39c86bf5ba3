package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/idilsaglam/watchlist/internal/i18n"
	"github.com/idilsaglam/watchlist/internal/model"
	"github.com/idilsaglam/watchlist/internal/ui"
)

// listItem adapts model.Item to bubbles/list.Item.
type listItem struct {
	item model.Item
}

func (i listItem) Title() string       { return i.item.Title }
func (i listItem) Description() string { return ui.Byline(i.item) }
func (i listItem) FilterValue() string { return i.item.Title + " " + i.item.Creator }

// itemDelegate renders two lines per item: title with badges, then byline,
// progress and rating.
type itemDelegate struct {
	labels *i18n.Labels
}

func (d itemDelegate) Height() int                         { return 2 }
func (d itemDelegate) Spacing() int                        { return 1 }
func (d itemDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, li list.Item) {
	it, ok := li.(listItem)
	if !ok {
		return
	}
	t := ui.Current()

	title := it.item.Title
	if it.item.Status == model.StatusDone || it.item.Status == model.StatusDropped {
		title = t.Muted.Render(title)
	}
	top := fmt.Sprintf("%s  %s %s",
		title,
		t.Accent.Render("["+d.labels.Type(it.item.Type)+"]"),
		t.StatusStyle(it.item.Status).Render(d.labels.Status(it.item.Status)),
	)
	bottom := fmt.Sprintf("%s  %s  %s",
		ui.ProgressBar(it.item.Progress, 10),
		t.Pending.Render(ui.Stars(it.item.Rating)),
		t.Muted.Render(ui.Byline(it.item)),
	)

	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render(">") + " "
	}
	width := m.Width() - lipgloss.Width(prefix)
	fmt.Fprintln(w, prefix+truncate(top, width))
	fmt.Fprint(w, "  "+truncate(bottom, width))
}

func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return xansi.Truncate(strings.TrimRight(s, " "), width, "…")
}
