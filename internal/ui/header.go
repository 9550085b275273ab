package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/cookhub/internal/domain"
	"github.com/five82/cookhub/internal/workflow"
)

// renderHeader renders the status bar: API health, user and current view.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)
	compact := m.width < LayoutCompactWidth

	parts := []string{styles.Logo.Render("cookhub")}
	parts = append(parts, m.healthBadge(styles, compact))

	if m.state.Authenticated {
		parts = append(parts, styles.MutedText.Render("user")+sep+styles.Text.Render(m.state.Identity.Username))
	} else {
		parts = append(parts, styles.FaintText.Render("guest"))
	}

	parts = append(parts, styles.BadgeStyle(string(m.state.View)).Render(viewTitle(m.state.View)))

	if m.pending > 0 {
		parts = append(parts, styles.AccentText.Render(m.spinner.View()+"working"))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

func (m Model) healthBadge(styles Styles, compact bool) string {
	snap := m.snapshot
	switch {
	case snap.IsOffline():
		badge := styles.BadgeStyle("offline").Render("API " + classifyConnectionError(snap.LastError))
		if compact {
			return badge
		}
		return badge + styles.WarningText.Render(" retrying")
	case !snap.HasHealth:
		return styles.BadgeStyle("checking").Render("API …")
	}

	badge := styles.BadgeStyle("online").Render("API ON")
	if compact {
		return badge
	}
	detail := hostOf(m.apiURL)
	if v := strings.TrimSpace(snap.Health.Version); v != "" {
		detail += " v" + v
	}
	if detail == "" {
		return badge
	}
	return badge + " " + styles.MutedText.Render(detail)
}

// classifyConnectionError condenses a health check failure into a label.
func classifyConnectionError(err error) string {
	if err == nil {
		return "OFFLINE"
	}
	if !errors.Is(err, domain.ErrNetwork) {
		return "ERROR"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	default:
		return "UNREACHABLE"
	}
}

// renderCommandBar lists the keys that do something in the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.state.View {
	case workflow.ViewAuthenticate, workflow.ViewRegister:
		commands = []cmd{{"tab", "Next field"}, {"enter", "Submit"}, {"esc", "Home"}}
	case workflow.ViewSearch:
		if m.focus == focusInput {
			commands = []cmd{{"enter", "Add / search"}, {"tab", "Ingredients"}, {"esc", "Leave field"}}
		} else {
			commands = []cmd{{"/", "Type"}, {"tab", "Pane"}, {"j/k", "Move"}, {"x", "Remove"}, {"enter", "Open"}, {"c", "My recipes"}, {"esc", "Home"}}
		}
	case workflow.ViewRecipeDetail:
		commands = []cmd{{"j/k", "Scroll"}}
		if m.state.Detail != nil && m.state.Detail.CanSave() {
			commands = append(commands, cmd{"S", "Save"})
		}
		commands = append(commands, cmd{"esc", "Back"})
	case workflow.ViewCollection:
		commands = []cmd{{"j/k", "Move"}, {"enter", "Open"}, {"R", "Reload"}, {"s", "Search"}, {"esc", "Home"}}
	default:
		if m.state.Authenticated {
			commands = []cmd{{"s", "Search"}, {"c", "My recipes"}, {"L", "Log out"}}
		} else {
			commands = []cmd{{"l", "Log in"}, {"n", "New account"}}
		}
		commands = append(commands, cmd{"q", "Quit"})
	}
	commands = append(commands, cmd{"?", "More"})

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments, styles.AccentText.Render(c.key)+colon+styles.MutedText.Render(c.desc))
	}
	segments = append(segments, styles.AccentText.Render("ctrl+t")+colon+styles.FaintText.Render(m.theme.Name))

	return styles.Header.Width(m.width).Render(bg.Join(segments, "  "))
}

// renderNotice shows the message of the last applied outcome.
func (m Model) renderNotice() string {
	styles := m.theme.Styles()
	msg := m.notice.Message
	if msg == "" {
		return ""
	}
	var style lipgloss.Style
	switch m.notice.Kind {
	case workflow.Failed:
		style = styles.DangerText
	case workflow.NoMatches, workflow.Empty:
		style = styles.WarningText
	case workflow.Redirected:
		style = styles.InfoText
	default:
		style = styles.SuccessText
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(style.Render(truncate(msg, max(m.width-2, 10))))
}

func viewTitle(v workflow.View) string {
	switch v {
	case workflow.ViewAuthenticate:
		return "Log in"
	case workflow.ViewRegister:
		return "Register"
	case workflow.ViewSearch:
		return "Search"
	case workflow.ViewRecipeDetail:
		return "Recipe"
	case workflow.ViewCollection:
		return "My recipes"
	default:
		return "Home"
	}
}
