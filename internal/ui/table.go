package ui

import (
	"slices"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/idilsaglam/watchlist/internal/i18n"
	"github.com/idilsaglam/watchlist/internal/model"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// ItemTable renders items as a rounded table in their given order.
func ItemTable(items []model.Item, labels *i18n.Labels) string {
	headers := []string{"ID", "Type", "Title", "Creator", "Status", "Progress", "Rating"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			shortID(it.ID),
			labels.Type(it.Type),
			it.Title,
			Byline(it),
			labels.Status(it.Status),
			strconv.Itoa(it.Progress) + "%",
			Stars(it.Rating),
		})
	}
	return renderTable(headers, rows, aligns)
}

// TypeTable lists the curated type tags, then any other tag present in counts,
// with localized labels and item counts.
func TypeTable(counts map[string]int, labels *i18n.Labels) string {
	tags := slices.Clone(model.KnownTypes)
	var extra []string
	for tag := range counts {
		if !model.IsKnownType(tag) {
			extra = append(extra, tag)
		}
	}
	slices.Sort(extra)
	tags = append(tags, extra...)

	rows := make([][]string, 0, len(tags))
	for _, tag := range tags {
		rows = append(rows, []string{tag, labels.Type(tag), strconv.Itoa(counts[tag])})
	}
	return renderTable([]string{"Tag", "Label", "Items"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight})
}

// shortID keeps uuids readable; any unambiguous prefix is accepted by the CLI.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	if Current().Name == "mono" {
		tw.SetStyle(table.StyleDefault)
	} else {
		tw.SetStyle(table.StyleRounded)
	}

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
