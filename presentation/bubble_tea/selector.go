package bubble_tea

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// PeerSelector is the interactive picker over configured peer addresses.
// Confirming quits the program with the highlighted address as the
// choice; aborting quits with none.
type PeerSelector struct {
	title   string
	peers   []string
	cursor  int
	choice  string
	aborted bool
}

func NewPeerSelector(title string, peers []string) PeerSelector {
	return PeerSelector{
		title: title,
		peers: peers,
	}
}

// Choice returns the confirmed peer address, empty when aborted.
func (m PeerSelector) Choice() string {
	return m.choice
}

// Aborted reports that the picker was quit without confirming.
func (m PeerSelector) Aborted() bool {
	return m.aborted
}

func (m PeerSelector) Init() tea.Cmd {
	return nil
}

func (m PeerSelector) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.peers)-1 {
				m.cursor++
			}
		case "enter":
			m.choice = m.peers[m.cursor]
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			m.aborted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m PeerSelector) View() string {
	var view strings.Builder
	fmt.Fprintf(&view, "%s\n\n", m.title)
	for i, peer := range m.peers {
		if i == m.cursor {
			fmt.Fprintf(&view, "\033[1;32m> %s\033[0m\n", peer)
			continue
		}
		fmt.Fprintf(&view, "  %s\n", peer)
	}
	view.WriteString("\nenter confirms, q aborts.\n")
	return view.String()
}
