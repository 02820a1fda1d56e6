package tui

import (
	"culler-cli/internal/session"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Left    key.Binding
	Right   key.Binding
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Back    key.Binding
	Pick    key.Binding
	Reject  key.Binding
	Unflag  key.Binding
	Rate    key.Binding
	Burst   key.Binding
	Group   key.Binding
	Undo    key.Binding
	UndoAll key.Binding

	Find     key.Binding
	NextView key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Rescan   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "view")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Pick:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pick")),
		Reject:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reject")),
		Unflag:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unflag")),
		Rate:    key.NewBinding(key.WithKeys("0", "1", "2", "3", "4", "5"), key.WithHelp("0-5", "rate")),
		Burst:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "burst")),
		Group:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "group")),
		Undo:    key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "undo")),
		UndoAll: key.NewBinding(key.WithKeys("Z"), key.WithHelp("Z", "undo all")),

		Find:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "find")),
		NextView: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "view")),
		NextPage: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next page")),
		PrevPage: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev page")),
		Rescan:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rescan")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp is the footer line of the grid.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pick, k.Reject, k.Rate, k.Undo, k.Open, k.NextView, k.Find, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down, k.Open, k.Back},
		{k.Pick, k.Reject, k.Unflag, k.Rate, k.Burst, k.Group, k.Undo, k.UndoAll},
		{k.Find, k.NextView, k.NextPage, k.PrevPage, k.Rescan, k.Help, k.Quit},
	}
}

// viewerHelp is the footer line while the viewer is open.
func (k keyMap) viewerHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Pick, k.Reject, k.Rate, k.Undo, k.Back}
}

// sessionKey translates a key press into a gallery shortcut.
func (k keyMap) sessionKey(msg tea.KeyMsg) (session.Key, bool) {
	switch {
	case key.Matches(msg, k.Left):
		return session.KeyLeft, true
	case key.Matches(msg, k.Right):
		return session.KeyRight, true
	case key.Matches(msg, k.Up):
		return session.KeyUp, true
	case key.Matches(msg, k.Down):
		return session.KeyDown, true
	case key.Matches(msg, k.Open):
		if msg.String() == " " {
			return session.KeySpace, true
		}
		return session.KeyEnter, true
	case key.Matches(msg, k.Back):
		return session.KeyEscape, true
	case key.Matches(msg, k.Pick):
		return session.KeyPick, true
	case key.Matches(msg, k.Reject):
		return session.KeyReject, true
	case key.Matches(msg, k.Unflag):
		return session.KeyUnflag, true
	case key.Matches(msg, k.Rate):
		return session.Key(msg.String()), true
	case key.Matches(msg, k.Burst):
		return session.KeyToggleBurst, true
	case key.Matches(msg, k.Group):
		return session.KeyToggleGroup, true
	case key.Matches(msg, k.Undo):
		return session.KeyUndo, true
	case key.Matches(msg, k.UndoAll):
		return session.KeyUndoAll, true
	}
	return "", false
}
