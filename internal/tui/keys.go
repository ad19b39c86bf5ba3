package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Cycle    key.Binding
	Delete   key.Binding
	Add      key.Binding
	Search   key.Binding
	NextType key.Binding
	PrevType key.Binding
	Status   key.Binding
	Sort     key.Binding
	Clear    key.Binding
	Open     key.Binding
	More     key.Binding
	Less     key.Binding
	RateUp   key.Binding
	RateDown key.Binding
	Quit     key.Binding

	Confirm key.Binding
	Cancel  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Cycle:    key.NewBinding(key.WithKeys(" ", "s"), key.WithHelp("space/s", "status")),
		Delete:   key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		NextType: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "type")),
		PrevType: key.NewBinding(key.WithKeys("shift+tab")),
		Status:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "status filter")),
		Sort:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sort")),
		Clear:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		More:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "progress")),
		Less:     key.NewBinding(key.WithKeys("-")),
		RateUp:   key.NewBinding(key.WithKeys("]"), key.WithHelp("[/]", "rating")),
		RateDown: key.NewBinding(key.WithKeys("[")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Confirm: key.NewBinding(key.WithKeys("y", "Y", "o", "O")),
		Cancel:  key.NewBinding(key.WithKeys("esc")),
	}
}

func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{k.Cycle, k.Add, k.Delete, k.Search, k.NextType, k.Sort}
}

func (k keyMap) fullHelp() []key.Binding {
	return []key.Binding{
		k.Cycle, k.Add, k.Delete, k.Search, k.NextType,
		k.Status, k.Sort, k.Clear, k.Open, k.More, k.RateUp,
	}
}
