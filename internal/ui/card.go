package ui

import (
	"strings"

	"github.com/idilsaglam/watchlist/internal/i18n"
	"github.com/idilsaglam/watchlist/internal/model"
)

const cardBarWidth = 20

// Byline joins creator and media with " · ", or returns "—" when both are empty.
func Byline(it model.Item) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{it.Creator, it.Media} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, " · ")
}

// Card renders one item as a framed block. width bounds the notes wrap.
func Card(it model.Item, labels *i18n.Labels, width int) string {
	t := Current()

	header := t.Title.Render(it.Title) + "  " +
		t.Accent.Render("["+labels.Type(it.Type)+"]") + " " +
		t.StatusStyle(it.Status).Render(labels.Status(it.Status))

	lines := []string{
		header,
		t.Muted.Render(Byline(it)),
		ProgressBar(it.Progress, cardBarWidth) + "   " + t.Pending.Render(Stars(it.Rating)),
	}
	if notes := RenderMarkdown(it.Notes, max(width-4, 10)); notes != "" {
		lines = append(lines, "", notes)
	}
	if it.Link != "" {
		lines = append(lines, "", t.Accent.Render(labels.Text(i18n.MsgOpenLink)+": "+it.Link))
	}
	if it.Cover != "" {
		lines = append(lines, t.Muted.Render("cover: "+it.Cover))
	}
	lines = append(lines, t.Muted.Render("id "+it.ID+" · "+it.UpdatedAt))

	return Panel("", lines)
}

// QuickList renders a titled bullet list of item titles, or the empty message.
func QuickList(title string, items []model.Item, labels *i18n.Labels) string {
	t := Current()
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, t.Bullet+" "+it.Title)
	}
	if len(lines) == 0 {
		lines = append(lines, t.Muted.Render(labels.Text(i18n.MsgEmpty)))
	}
	return Panel(title, lines)
}
