package presentation

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"tezgo/infrastructure/settings"
	"tezgo/presentation/bubble_tea"
)

const manualEntryOption = "other"

// SelectPeer resolves the peer address: an explicit argument wins, then a
// configured peer, then an interactive prompt over the configured list.
func SelectPeer(argument string, conf settings.Settings) (string, error) {
	if argument != "" {
		return argument, nil
	}
	if conf.Peer != "" {
		return conf.Peer, nil
	}
	if len(conf.Peers) == 0 {
		return promptManualEntry()
	}

	options := append(append([]string(nil), conf.Peers...), manualEntryOption)
	selector := bubble_tea.NewPeerSelector("Select a peer to bootstrap from:", options)
	model, err := tea.NewProgram(selector).Run()
	if err != nil {
		return "", fmt.Errorf("peer selection: %w", err)
	}
	picked := model.(bubble_tea.PeerSelector)
	if picked.Aborted() {
		return "", fmt.Errorf("no peer selected")
	}
	choice := picked.Choice()
	if choice == manualEntryOption {
		return promptManualEntry()
	}
	return choice, nil
}

func promptManualEntry() (string, error) {
	input := bubble_tea.NewTextInput("127.0.0.1:9732")
	model, err := tea.NewProgram(input).Run()
	if err != nil {
		return "", fmt.Errorf("peer entry: %w", err)
	}
	value := strings.TrimSpace(model.(*bubble_tea.TextInput).Value())
	if value == "" {
		return "", fmt.Errorf("no peer address entered")
	}
	return value, nil
}
