package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// confirmModal asks a yes/no question. On yes it closes and emits onYes.
type confirmModal struct {
	title  string
	prompt string
	onYes  tea.Msg
}

var (
	yesKey = key.NewBinding(key.WithKeys("y", "Y"))
	noKey  = key.NewBinding(key.WithKeys("n", "N"))
)

func (c confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(km, yesKey), key.Matches(km, keys.Confirm):
		yes := c.onYes
		return c, func() tea.Msg { return yes }, true
	case key.Matches(km, noKey), key.Matches(km, keys.Back), key.Matches(km, keys.Quit):
		return c, nil, true
	}
	return c, nil, false
}

func (c confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(c.title))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(c.prompt))
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Render("y/enter"))
	b.WriteString(styles.MutedText.Render(" confirm   "))
	b.WriteString(styles.AccentText.Render("n/esc"))
	b.WriteString(styles.MutedText.Render(" cancel"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Warning)).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

// logoutConfirmedMsg is emitted when the user confirms logging out.
type logoutConfirmedMsg struct{}

func newLogoutModal(username string) confirmModal {
	return confirmModal{
		title:  "Log out",
		prompt: "Log out " + username + "? Your search will be cleared.",
		onYes:  logoutConfirmedMsg{},
	}
}
