package bubble_tea

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPeerSelector_EnterConfirmsCursorPeer(t *testing.T) {
	m := NewPeerSelector("pick a peer", []string{"10.0.0.1:9732", "10.0.0.2:9732"})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	updated, _ = updated.Update(tea.KeyMsg{Type: tea.KeyEnter})

	picked := updated.(PeerSelector)
	if picked.Aborted() {
		t.Fatal("confirming must not abort")
	}
	if picked.Choice() != "10.0.0.2:9732" {
		t.Fatalf("expected choice %q, got %q", "10.0.0.2:9732", picked.Choice())
	}
}

func TestPeerSelector_QuitAborts(t *testing.T) {
	m := NewPeerSelector("pick a peer", []string{"10.0.0.1:9732"})

	updated, _ := m.Update(key("q"))
	picked := updated.(PeerSelector)
	if !picked.Aborted() || picked.Choice() != "" {
		t.Fatalf("expected aborted empty choice, got aborted=%v choice=%q", picked.Aborted(), picked.Choice())
	}
}

func TestPeerSelector_CursorStaysInRange(t *testing.T) {
	m := NewPeerSelector("pick a peer", []string{"10.0.0.1:9732", "10.0.0.2:9732"})

	updated, _ := m.Update(key("k"))
	updated, _ = updated.Update(key("j"))
	updated, _ = updated.Update(key("j"))
	updated, _ = updated.Update(key("j"))
	updated, _ = updated.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if choice := updated.(PeerSelector).Choice(); choice != "10.0.0.2:9732" {
		t.Fatalf("expected cursor clamped to last peer, got %q", choice)
	}
}

func TestPeerSelector_ViewHighlightsCursor(t *testing.T) {
	m := NewPeerSelector("pick a peer", []string{"10.0.0.1:9732", "10.0.0.2:9732"})
	view := m.View()
	if !strings.Contains(view, "pick a peer") {
		t.Fatalf("view is missing the title: %q", view)
	}
	if !strings.Contains(view, "> 10.0.0.1:9732") {
		t.Fatalf("view does not highlight the cursor row: %q", view)
	}
	if !strings.Contains(view, "  10.0.0.2:9732") {
		t.Fatalf("view does not render the unselected row: %q", view)
	}
}
