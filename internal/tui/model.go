// Package tui provides the BubbleTea-based stash picker.
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/windowstash/internal/core"
	"github.com/jmylchreest/windowstash/internal/model"
	"github.com/jmylchreest/windowstash/internal/shell"
	"github.com/jmylchreest/windowstash/internal/store"
	"github.com/jmylchreest/windowstash/internal/view"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeList Mode = iota
	ModeDetail
	ModeSearch
	ModeHelp
)

// actionTimeout bounds a restore or info request started from the picker.
const actionTimeout = 10 * time.Second

// Actions dispatches button presses on a window.
type Actions interface {
	Click(ctx context.Context, address string, button view.Button) error
}

// Options configures the picker.
type Options struct {
	Store            *store.Store
	Actions          Actions
	Resolver         model.IconResolver
	Refresh          func() // Requests an immediate re-read of the cache
	Runner           shell.Runner
	ClipboardCommand string // Empty auto-detects
	StayOpen         bool   // Keep running after a restore
}

// Model is the main TUI model.
type Model struct {
	opts  Options
	store *store.Store

	mode Mode

	list        list.Model
	viewport    viewport.Model
	searchInput textinput.Model
	help        help.Model

	windows     []model.MinimizedWindow
	selected    *model.MinimizedWindow
	searchQuery string
	width       int
	height      int
	ready       bool

	keys KeyMap

	statusMsg string
	statusErr bool

	refreshCh <-chan store.ChangeEvent
}

// windowItem wraps a window for the list component.
type windowItem struct {
	window model.MinimizedWindow
	icon   string
}

func (i windowItem) Title() string {
	if i.icon == "" {
		return i.window.Title()
	}
	return i.icon + "  " + i.window.Title()
}

func (i windowItem) Description() string {
	return fmt.Sprintf("%s · %s", i.window.Class, i.window.Address)
}

func (i windowItem) FilterValue() string {
	return i.window.Title() + " " + i.window.OriginalTitle + " " + i.window.Class
}

// New creates a new TUI model.
func New(opts Options) Model {
	if opts.Runner == nil {
		opts.Runner = shell.NewExecRunner()
	}

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Minimized Windows"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	searchInput := textinput.New()
	searchInput.Placeholder = "Filter..."
	searchInput.CharLimit = 100

	m := Model{
		opts:        opts,
		store:       opts.Store,
		mode:        ModeList,
		list:        l,
		searchInput: searchInput,
		help:        help.New(),
		keys:        DefaultKeyMap(),
	}

	if opts.Store != nil {
		m.refreshCh = opts.Store.Subscribe()
	}

	return m
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadWindows,
		m.watchForChanges,
	)
}

func (m Model) loadWindows() tea.Msg {
	return loadWindowsMsg{}
}

type loadWindowsMsg struct{}

// watchForChanges waits for the next store change.
func (m Model) watchForChanges() tea.Msg {
	if m.refreshCh == nil {
		return nil
	}
	if _, ok := <-m.refreshCh; !ok {
		return nil
	}
	return refreshMsg{}
}

type refreshMsg struct{}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

type restoreResultMsg struct {
	address string
	err     error
}

type infoResultMsg struct {
	err error
}

func setStatus(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		m.list.SetSize(msg.Width, msg.Height-2)
		m.viewport = viewport.New(msg.Width, msg.Height-4)
		m.viewport.YPosition = 2
		m.help.Width = msg.Width

		return m, nil

	case loadWindowsMsg:
		m.windows = m.fetchWindows()
		m.list.SetItems(m.buildListItems())
		return m, nil

	case refreshMsg:
		m.windows = m.fetchWindows()
		m.list.SetItems(m.buildListItems())
		return m, m.watchForChanges

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, setStatus("Copy failed: "+msg.err.Error(), true)
		}
		return m, setStatus("Copied to clipboard", false)

	case restoreResultMsg:
		if msg.err != nil {
			return m, setStatus("Restore failed: "+msg.err.Error(), true)
		}
		if !m.opts.StayOpen {
			return m, tea.Quit
		}
		return m, setStatus("Restored "+msg.address, false)

	case infoResultMsg:
		if msg.err != nil {
			return m, setStatus("Info failed: "+msg.err.Error(), true)
		}
		return m, nil
	}

	switch m.mode {
	case ModeList:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	case ModeDetail:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	case ModeSearch:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// q must reach the filter input while typing.
	if m.mode != ModeSearch {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			if m.mode == ModeHelp {
				m.mode = ModeList
			} else {
				m.mode = ModeHelp
			}
			return m, nil
		}
	} else if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeList:
		return m.handleListKey(msg)
	case ModeDetail:
		return m.handleDetailKey(msg)
	case ModeSearch:
		return m.handleSearchKey(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeList
		}
		return m, nil
	}

	return m, nil
}

func (m Model) selectedWindow() (model.MinimizedWindow, bool) {
	item, ok := m.list.SelectedItem().(windowItem)
	if !ok {
		return model.MinimizedWindow{}, false
	}
	return item.window, true
}

// handleListKey handles keys in list mode.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Restore):
		if win, ok := m.selectedWindow(); ok {
			return m, m.restore(win.Address)
		}
		return m, nil

	case key.Matches(msg, m.keys.Detail):
		if win, ok := m.selectedWindow(); ok {
			m.selected = &win
			m.mode = ModeDetail
			m.viewport.SetContent(m.renderDetail(win))
			m.viewport.GotoTop()
		}
		return m, nil

	case key.Matches(msg, m.keys.Info):
		if win, ok := m.selectedWindow(); ok {
			return m, m.info(win.Address)
		}
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if win, ok := m.selectedWindow(); ok {
			return m, m.copyToClipboard(win.Address)
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyAllJSON):
		data, err := json.MarshalIndent(m.visibleWindows(), "", "  ")
		if err != nil {
			return m, setStatus("Failed to marshal JSON: "+err.Error(), true)
		}
		return m, m.copyToClipboard(string(data))

	case key.Matches(msg, m.keys.CopyAllYAML):
		data, err := yaml.Marshal(m.visibleWindows())
		if err != nil {
			return m, setStatus("Failed to marshal YAML: "+err.Error(), true)
		}
		return m, m.copyToClipboard(string(data))

	case key.Matches(msg, m.keys.Search):
		m.searchInput.SetValue("")
		m.searchQuery = ""
		m.list.SetItems(m.buildListItems())
		m.mode = ModeSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Refresh):
		if m.opts.Refresh != nil {
			m.opts.Refresh()
		}
		return m, m.loadWindows
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleDetailKey handles keys in detail mode.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = ModeList
		m.selected = nil
		return m, nil

	case key.Matches(msg, m.keys.Restore):
		if m.selected != nil {
			return m, m.restore(m.selected.Address)
		}
		return m, nil

	case key.Matches(msg, m.keys.Info):
		if m.selected != nil {
			return m, m.info(m.selected.Address)
		}
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if m.selected != nil {
			return m, m.copyToClipboard(m.selected.Address)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleSearchKey handles keys in filter mode.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeList
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.searchQuery = ""
		m.list.SetItems(m.buildListItems())
		return m, nil

	case tea.KeyEnter:
		m.searchInput.Blur()
		m.mode = ModeList
		if win, ok := m.selectedWindow(); ok {
			return m, m.restore(win.Address)
		}
		return m, nil

	case tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	// Live filtering
	m.searchQuery = m.searchInput.Value()
	m.list.SetItems(m.buildListItems())

	return m, cmd
}

func (m Model) fetchWindows() []model.MinimizedWindow {
	if m.store != nil {
		return m.store.Windows()
	}
	return nil
}

// visibleWindows returns the windows currently listed.
func (m Model) visibleWindows() []model.MinimizedWindow {
	return core.Search(m.windows, m.searchQuery)
}

// buildListItems creates list items from the current windows.
func (m Model) buildListItems() []list.Item {
	windows := m.visibleWindows()
	items := make([]list.Item, len(windows))
	for i, w := range windows {
		items[i] = windowItem{window: w, icon: w.DisplayIcon(m.opts.Resolver)}
	}
	return items
}

// renderDetail renders the detail view for a window.
func (m Model) renderDetail(w model.MinimizedWindow) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(w.OriginalTitle) + "\n\n")
	sb.WriteString(labelStyle.Render("Title: ") + w.DisplayTitle + "\n")
	sb.WriteString(labelStyle.Render("Class: ") + w.Class + "\n")
	sb.WriteString(labelStyle.Render("Address: ") + w.Address + "\n")
	if icon := w.DisplayIcon(m.opts.Resolver); icon != "" {
		sb.WriteString(labelStyle.Render("Icon: ") + icon + "\n")
	}
	return sb.String()
}

func (m Model) restore(address string) tea.Cmd {
	actions := m.opts.Actions
	return func() tea.Msg {
		if actions == nil {
			return restoreResultMsg{address: address}
		}
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		return restoreResultMsg{address: address, err: actions.Click(ctx, address, view.ButtonPrimary)}
	}
}

func (m Model) info(address string) tea.Cmd {
	actions := m.opts.Actions
	return func() tea.Msg {
		if actions == nil {
			return infoResultMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		return infoResultMsg{err: actions.Click(ctx, address, view.ButtonMiddle)}
	}
}

// copyToClipboard copies text to the system clipboard.
func (m Model) copyToClipboard(text string) tea.Cmd {
	runner, command := m.opts.Runner, m.opts.ClipboardCommand
	return func() tea.Msg {
		return copyResultMsg{err: copyText(runner, command, text)}
	}
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModeList:
		return m.viewList()
	case ModeDetail:
		return m.viewDetail()
	case ModeSearch:
		return m.viewSearch()
	case ModeHelp:
		return m.viewHelp()
	default:
		return ""
	}
}

func (m Model) viewList() string {
	s := m.list.View()

	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		s += "\n" + statusStyle.Render(m.statusMsg)
	} else {
		s += "\n" + m.buildKeybindBar(m.width, ModeList)
	}

	return s
}

func (m Model) viewDetail() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1)

	header := headerStyle.Render("Window Detail")

	return header + "\n" + m.viewport.View() + "\n" + m.buildKeybindBar(m.width, ModeDetail)
}

func (m Model) viewSearch() string {
	countStr := fmt.Sprintf("(%d matches)", len(m.list.Items()))

	searchBar := "Filter: " + m.searchInput.View() + " " +
		lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(countStr)

	return searchBar + "\n" + m.list.View() + "\n" + m.buildKeybindBar(m.width, ModeSearch)
}

func (m Model) viewHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	s := titleStyle.Render("Keyboard Shortcuts") + "\n\n"
	s += m.help.FullHelpView(m.keys.FullHelp())
	s += "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(
		"Press ? or esc to return")

	return s
}

// keybind is a single entry in the status bar, most important first.
type keybind struct {
	key  string
	desc string
}

// buildKeybindBar builds a keybind bar that fits within the given width.
func (m Model) buildKeybindBar(width int, mode Mode) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	var binds []keybind

	switch mode {
	case ModeList:
		binds = []keybind{
			{"q", "quit"},
			{"enter", "restore"},
			{"?", "help"},
			{"/", "filter"},
			{"i", "info"},
			{"v", "details"},
			{"c", "copy"},
			{"r", "refresh"},
		}
	case ModeDetail:
		binds = []keybind{
			{"q", "quit"},
			{"esc", "back"},
			{"enter", "restore"},
			{"i", "info"},
			{"c", "copy address"},
		}
	case ModeSearch:
		binds = []keybind{
			{"enter", "restore"},
			{"esc", "close"},
			{"↑/↓", "navigate"},
		}
	}

	const separator = "  "
	result := ""
	for _, b := range binds {
		item := keyStyle.Render(b.key) + " " + b.desc
		testLen := lipgloss.Width(b.key + " " + b.desc)
		if result != "" {
			testLen += lipgloss.Width(result) + len(separator)
		}

		if width > 0 && testLen > width {
			break
		}
		if result != "" {
			result += separator
		}
		result += item
	}

	return style.Render(result)
}

// Run starts the TUI and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())

	_, err := p.Run()

	if opts.Store != nil && m.refreshCh != nil {
		opts.Store.Unsubscribe(m.refreshCh)
	}
	return err
}
