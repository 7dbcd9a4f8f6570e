package bubble_tea

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type TextInput struct {
	ti *textinput.Model
}

func NewTextInput(placeholder string) *TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 64
	ti.Width = 48
	ti.Focus()
	return &TextInput{
		ti: &ti,
	}
}

func (m *TextInput) Value() string {
	return m.ti.Value()
}

func (m *TextInput) Init() tea.Cmd {
	return textinput.Blink
}

func (m *TextInput) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc":
			return m, tea.Quit
		}
	case error:
		return m, tea.Quit
	}

	updated, cmd := m.ti.Update(msg)
	m.ti = &updated
	return m, cmd
}

func (m *TextInput) View() string {
	return "Peer address (ip:port):\n\n" + m.ti.View() + "\n\n(enter to confirm)\n"
}
