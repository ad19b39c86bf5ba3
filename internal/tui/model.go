// Package tui is the interactive browser: a filtered, sorted list of the
// collection with single-key status cycling, quick edits, search and delete.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/watchlist/internal/i18n"
	"github.com/idilsaglam/watchlist/internal/model"
	"github.com/idilsaglam/watchlist/internal/query"
	"github.com/idilsaglam/watchlist/internal/store"
	"github.com/idilsaglam/watchlist/internal/ui"
)

const (
	progressStep = 10
	ratingStep   = 0.5
	// Side panels with the quick lists only show on wide terminals.
	sidePanelMinWidth = 110
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeAdd
	modeConfirmDelete
	modeDetail
)

// Options wires the browser to an already loaded store.
type Options struct {
	Store  *store.Store
	Query  *query.Engine
	Labels *i18n.Labels
	Logger *slog.Logger
}

type Model struct {
	ctx    context.Context
	store  *store.Store
	query  *query.Engine
	labels *i18n.Labels
	logger *slog.Logger
	keys   keyMap

	params query.Params
	list   list.Model
	ti     textinput.Model
	mode   mode

	pending model.Item // item awaiting delete confirmation

	notice    string
	noticeErr bool

	width, height int
}

// New builds the browser model. The store must already be loaded.
func New(ctx context.Context, opts Options) Model {
	if opts.Labels == nil {
		opts.Labels = i18n.New(i18n.Default())
	}
	if opts.Query == nil {
		opts.Query = query.New(opts.Labels.Tag())
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	m := Model{
		ctx:    ctx,
		store:  opts.Store,
		query:  opts.Query,
		labels: opts.Labels,
		logger: opts.Logger,
		keys:   defaultKeyMap(),
		params: query.DefaultParams(),
		width:  80,
		height: 24,
	}

	t := ui.Current()
	l := list.New(nil, itemDelegate{labels: opts.Labels}, m.width, m.height-4)
	l.SetShowTitle(false)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.Styles.HelpStyle = t.Muted
	l.Styles.PaginationStyle = t.Muted
	l.SetStatusBarItemName("item", "items")
	l.AdditionalShortHelpKeys = m.keys.shortHelp
	l.AdditionalFullHelpKeys = m.keys.fullHelp
	// q and esc are handled here so esc can leave sub-modes without quitting.
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	// d and f are ours; keep paging on arrows and vim keys.
	l.KeyMap.NextPage.SetKeys("right", "l", "pgdown")
	l.KeyMap.PrevPage.SetKeys("left", "h", "pgup", "b")
	m.list = l

	m.ti = textinput.New()
	m.ti.Prompt = "> "
	m.ti.CharLimit = 200

	m.refresh()
	return m
}

// Run starts the browser and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}

	switch m.mode {
	case modeSearch:
		return m.updateSearch(msg)
	case modeAdd:
		return m.updateAdd(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	case modeDetail:
		if km, ok := msg.(tea.KeyMsg); ok {
			if key.Matches(km, m.keys.Quit, m.keys.Cancel, m.keys.Open) {
				m.mode = modeList
			}
		}
		return m, nil
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	m.notice = ""
	switch {
	case key.Matches(km, m.keys.Quit), key.Matches(km, m.keys.Cancel):
		return m, tea.Quit
	case key.Matches(km, m.keys.Cycle):
		if it, ok := m.selected(); ok {
			_, err := m.store.CycleStatus(m.ctx, it.ID)
			m.afterMutation(err)
		}
		return m, nil
	case key.Matches(km, m.keys.Delete):
		if it, ok := m.selected(); ok {
			m.pending = it
			m.mode = modeConfirmDelete
		}
		return m, nil
	case key.Matches(km, m.keys.Add):
		m.mode = modeAdd
		m.ti.SetValue("")
		m.ti.Placeholder = fmt.Sprintf("New %s title...", strings.ToLower(m.labels.Type(m.addType())))
		return m, m.ti.Focus()
	case key.Matches(km, m.keys.Search):
		m.mode = modeSearch
		m.ti.SetValue(m.params.Search)
		m.ti.CursorEnd()
		m.ti.Placeholder = m.labels.Text(i18n.MsgSearch) + "..."
		return m, m.ti.Focus()
	case key.Matches(km, m.keys.NextType):
		m.params.Type = cycle(m.typeTabs(), m.params.Type, 1)
		m.refresh()
		return m, nil
	case key.Matches(km, m.keys.PrevType):
		m.params.Type = cycle(m.typeTabs(), m.params.Type, -1)
		m.refresh()
		return m, nil
	case key.Matches(km, m.keys.Status):
		m.params.Status = cycle(statusTabs(), m.params.Status, 1)
		m.refresh()
		return m, nil
	case key.Matches(km, m.keys.Sort):
		m.params.SortBy = query.SortKey(cycle(sortTabs(), string(m.params.SortBy), 1))
		m.refresh()
		return m, nil
	case key.Matches(km, m.keys.Clear):
		m.params.Status = query.All
		m.params.SortBy = query.SortUpdated
		m.params.Search = ""
		m.refresh()
		return m, nil
	case key.Matches(km, m.keys.Open):
		if _, ok := m.selected(); ok {
			m.mode = modeDetail
		}
		return m, nil
	case key.Matches(km, m.keys.More):
		m.adjust(func(it *model.Item) { it.Progress += progressStep })
		return m, nil
	case key.Matches(km, m.keys.Less):
		m.adjust(func(it *model.Item) { it.Progress -= progressStep })
		return m, nil
	case key.Matches(km, m.keys.RateUp):
		m.adjust(func(it *model.Item) { it.Rating += ratingStep })
		return m, nil
	case key.Matches(km, m.keys.RateDown):
		m.adjust(func(it *model.Item) { it.Rating -= ratingStep })
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			m.params.Search = strings.TrimSpace(m.ti.Value())
			m.leaveInput()
			m.refresh()
			return m, nil
		case "esc":
			m.leaveInput()
			m.refresh()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	// live preview while typing; esc restores the committed search
	preview := m.params
	preview.Search = m.ti.Value()
	m.setItems(m.query.Apply(m.store.Items(), preview))
	return m, cmd
}

func (m Model) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			title := strings.TrimSpace(m.ti.Value())
			if title == "" {
				m.setError("Title cannot be empty")
				return m, nil
			}
			it, err := model.NormalizeItem(model.Item{Type: m.addType(), Title: title}, m.store.Now(), m.store.NewID)
			if err != nil {
				m.setError(err.Error())
				return m, nil
			}
			_, err = m.store.Upsert(m.ctx, it)
			m.leaveInput()
			m.afterMutation(err)
			if idx := m.indexOf(it.ID); idx >= 0 {
				m.list.Select(idx)
			}
			return m, nil
		case "esc":
			m.leaveInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.mode = modeList
	if !key.Matches(km, m.keys.Confirm) {
		m.pending = model.Item{}
		return m, nil
	}
	_, err := m.store.Delete(m.ctx, m.pending.ID)
	m.logger.Debug("item deleted", "id", m.pending.ID)
	m.pending = model.Item{}
	m.afterMutation(err)
	return m, nil
}

// adjust applies a quick edit to the selected item, re-normalizing it so values
// stay in range and updatedAt is bumped.
func (m *Model) adjust(edit func(*model.Item)) {
	it, ok := m.selected()
	if !ok {
		return
	}
	edit(&it)
	it, err := model.NormalizeItem(it, m.store.Now(), m.store.NewID)
	if err != nil {
		m.setError(err.Error())
		return
	}
	_, err = m.store.Upsert(m.ctx, it)
	m.afterMutation(err)
}

func (m *Model) afterMutation(err error) {
	switch {
	case err == nil:
	case store.IsStorageError(err):
		m.logger.Warn("save failed", "error", err)
		m.notice = m.labels.Text(i18n.MsgSaveFailed)
		m.noticeErr = true
	default:
		m.setError(err.Error())
	}
	m.refresh()
}

func (m *Model) setError(msg string) {
	m.notice = msg
	m.noticeErr = true
}

func (m *Model) leaveInput() {
	m.mode = modeList
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

// refresh re-runs the query and keeps the cursor on the same item when it is
// still visible.
func (m *Model) refresh() {
	sel, hadSel := m.selected()
	m.setItems(m.query.Apply(m.store.Items(), m.params))
	if hadSel {
		if idx := m.indexOf(sel.ID); idx >= 0 {
			m.list.Select(idx)
		}
	}
}

func (m *Model) setItems(items []model.Item) {
	li := make([]list.Item, 0, len(items))
	for _, it := range items {
		li = append(li, listItem{item: it})
	}
	m.list.SetItems(li)
}

func (m Model) selected() (model.Item, bool) {
	li, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Item{}, false
	}
	return li.item, true
}

func (m Model) indexOf(id string) int {
	for i, li := range m.list.Items() {
		if it, ok := li.(listItem); ok && it.item.ID == id {
			return i
		}
	}
	return -1
}

// addType is the type a new item gets: the active tab, or the first curated type.
func (m Model) addType() string {
	if m.params.Type != "" && m.params.Type != query.All {
		return m.params.Type
	}
	return model.KnownTypes[0]
}

// typeTabs lists "all", the curated types, then any other types present.
func (m Model) typeTabs() []string {
	tabs := append([]string{query.All}, model.KnownTypes...)
	var extra []string
	for _, it := range m.store.Items() {
		if !slices.Contains(tabs, it.Type) && !slices.Contains(extra, it.Type) {
			extra = append(extra, it.Type)
		}
	}
	slices.Sort(extra)
	return append(tabs, extra...)
}

func statusTabs() []string {
	tabs := []string{query.All}
	for _, s := range model.Statuses() {
		tabs = append(tabs, string(s))
	}
	return tabs
}

func sortTabs() []string {
	var tabs []string
	for _, k := range query.SortKeys() {
		tabs = append(tabs, string(k))
	}
	return tabs
}

func cycle(values []string, cur string, step int) string {
	idx := slices.Index(values, cur)
	if idx < 0 {
		return values[0]
	}
	return values[(idx+step+len(values))%len(values)]
}

func (m *Model) resize() {
	h := m.height - 4
	if m.mode == modeAdd || m.mode == modeSearch || m.mode == modeConfirmDelete {
		h -= 3
	}
	m.list.SetSize(m.listWidth(), max(h, 4))
}

func (m Model) listWidth() int {
	w := m.width - 4
	if m.width >= sidePanelMinWidth {
		w -= 32
	}
	return max(w, 20)
}

func (m Model) View() string {
	t := ui.Current()

	if m.mode == modeDetail {
		if it, ok := m.selected(); ok {
			return ui.Card(it, m.labels, m.width-4) + "\n" + t.Muted.Render("esc back")
		}
	}

	content := m.header() + "\n" + m.list.View()
	if m.width >= sidePanelMinWidth {
		items := m.store.Items()
		side := lipgloss.JoinVertical(lipgloss.Left,
			ui.QuickList(m.labels.Text(i18n.MsgCurrently), m.query.CurrentlyActive(items, query.QuickListSize), m.labels),
			ui.QuickList(m.labels.Text(i18n.MsgUpNext), m.query.UpNext(items, query.QuickListSize), m.labels),
		)
		content = ui.Columns(lipgloss.NewStyle().Width(m.listWidth()+2).Render(content), side)
	}

	switch m.mode {
	case modeAdd:
		content += "\n" + ui.Panel("Add "+m.labels.Type(m.addType()), []string{m.ti.View()})
	case modeSearch:
		content += "\n" + ui.Panel(m.labels.Text(i18n.MsgSearch), []string{m.ti.View()})
	case modeConfirmDelete:
		content += "\n" + ui.Panel("", []string{t.Error.Render(m.labels.Text(i18n.MsgConfirmDelete, m.pending.Title))})
	}
	if m.notice != "" {
		style := t.Success
		if m.noticeErr {
			style = t.Error
		}
		content += "\n" + style.Render(m.notice)
	}
	return content
}

func (m Model) header() string {
	t := ui.Current()
	tabs := make([]string, 0, len(model.KnownTypes)+1)
	for _, typ := range m.typeTabs() {
		label := m.labels.Type(typ)
		if typ == query.All {
			label = m.labels.Text(i18n.MsgAll)
		}
		if typ == m.params.Type || (typ == query.All && m.params.Type == "") {
			tabs = append(tabs, t.Selected.Render(" "+label+" "))
		} else {
			tabs = append(tabs, t.Muted.Render(" "+label+" "))
		}
	}

	status := m.labels.Text(i18n.MsgAll)
	if m.params.Status != query.All && m.params.Status != "" {
		status = m.labels.Status(model.Status(m.params.Status))
	}
	filters := fmt.Sprintf("%s %s  %s %s",
		t.Accent.Render("status:"), status,
		t.Accent.Render(m.labels.Text(i18n.MsgSort)+":"), m.params.SortBy,
	)
	if m.params.Search != "" {
		filters += fmt.Sprintf("  %s %q", t.Accent.Render("/"), m.params.Search)
	}
	return t.Title.Render("Watchlist") + "  " + strings.Join(tabs, "") + "\n" + filters
}
