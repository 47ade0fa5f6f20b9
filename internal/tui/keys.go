package tui

import "github.com/charmbracelet/bubbles/key"

// sessionKeyMap holds the bindings of the live session screen
type sessionKeyMap struct {
	Done       key.Binding
	SkipRest   key.Binding
	Extend     key.Binding
	Pause      key.Binding
	Mute       key.Binding
	NextTrack  key.Binding
	PrevTrack  key.Binding
	VolumeDown key.Binding
	VolumeUp   key.Binding
	Retry      key.Binding
	Help       key.Binding
	Exit       key.Binding
	ForceQuit  key.Binding
}

func newSessionKeyMap() sessionKeyMap {
	return sessionKeyMap{
		Done: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "done/skip"),
		),
		SkipRest: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip rest"),
		),
		Extend: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more rest"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		NextTrack: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next track"),
		),
		PrevTrack: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "prev track"),
		),
		VolumeDown: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "vol -"),
		),
		VolumeUp: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "vol +"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry save"),
			key.WithDisabled(),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Exit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q/esc", "exit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
	}
}

// ShortHelp returns the bindings for the bottom bar
func (k sessionKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Done, k.SkipRest, k.Pause, k.Mute, k.Retry, k.Help, k.Exit}
}

// FullHelp returns every binding, grouped in columns
func (k sessionKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Done, k.SkipRest, k.Extend, k.Pause},
		{k.Mute, k.NextTrack, k.PrevTrack, k.VolumeDown, k.VolumeUp},
		{k.Retry, k.Help, k.Exit, k.ForceQuit},
	}
}

// pickerKeyMap holds the bindings of the workout picker
type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Filter key.Binding
	Clear  key.Binding
	Quit   key.Binding
}

func newPickerKeyMap() pickerKeyMap {
	return pickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "start"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Filter, k.Quit}
}

func (k pickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Clear}}
}
