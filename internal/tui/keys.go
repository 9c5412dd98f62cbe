package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the picker key bindings. Navigation keys are handled by the
// list component and listed here for the help view only.
type KeyMap struct {
	Up, Down, PageUp, PageDown, Home, End key.Binding

	Restore     key.Binding
	Detail      key.Binding
	Back        key.Binding
	Info        key.Binding
	Copy        key.Binding
	CopyAllJSON key.Binding
	CopyAllYAML key.Binding
	Search      key.Binding
	Refresh     key.Binding

	Quit key.Binding
	Help key.Binding
}

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Restore, k.Search, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap, one column per group.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Restore, k.Info, k.Detail, k.Back},
		{k.Copy, k.CopyAllJSON, k.CopyAllYAML},
		{k.Search, k.Refresh, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       bind("↑/k", "previous window", "up", "k"),
		Down:     bind("↓/j", "next window", "down", "j"),
		PageUp:   bind("pgup", "page up", "pgup", "ctrl+u"),
		PageDown: bind("pgdn", "page down", "pgdown", "ctrl+d"),
		Home:     bind("g", "oldest", "home", "g"),
		End:      bind("G", "newest", "end", "G"),

		Restore:     bind("enter", "restore window", "enter"),
		Detail:      bind("v/tab", "details", "v", "tab"),
		Back:        bind("esc", "back", "esc", "backspace"),
		Info:        bind("i", "notify info", "i"),
		Copy:        bind("c", "copy address", "c"),
		CopyAllJSON: bind("C", "copy stash as JSON", "C"),
		CopyAllYAML: bind("alt+c", "copy stash as YAML", "alt+c"),
		Search:      bind("/", "filter", "/"),
		Refresh:     bind("r", "re-read cache", "r"),

		Quit: bind("q", "quit", "q", "ctrl+c"),
		Help: bind("?", "toggle help", "?"),
	}
}
