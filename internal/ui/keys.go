package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle     key.Binding
	Courses    key.Binding
	Facilities key.Binding
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Select     key.Binding
	Retry      key.Binding
	Relocate   key.Binding
	Debug      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "탭 전환")),
		Courses:    key.NewBinding(key.WithKeys("1", "h"), key.WithHelp("1/h", "강좌")),
		Facilities: key.NewBinding(key.WithKeys("2", "l"), key.WithHelp("2/l", "시설")),
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "위")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "아래")),
		Top:        key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "처음")),
		Bottom:     key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "끝")),
		Select:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "상세")),
		Retry:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "다시 불러오기")),
		Relocate:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "위치 재시도"), key.WithDisabled()),
		Debug:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "debug")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "도움말")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "종료")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Down, k.Select, k.Retry, k.Relocate, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Courses, k.Facilities},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Select, k.Retry, k.Relocate},
		{k.Debug, k.Help, k.Quit},
	}
}
