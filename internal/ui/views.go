package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/cookhub/internal/domain"
	"github.com/five82/cookhub/internal/workflow"
)

// renderMain composes the chrome and the active view.
func (m Model) renderMain() string {
	var content string
	switch m.state.View {
	case workflow.ViewAuthenticate:
		content = m.renderLogin()
	case workflow.ViewRegister:
		content = m.renderRegister()
	case workflow.ViewSearch:
		content = m.renderSearch()
	case workflow.ViewRecipeDetail:
		content = m.renderDetail()
	case workflow.ViewCollection:
		content = m.renderCollection()
	default:
		content = m.renderHome()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderCommandBar(),
		m.renderNotice(),
		content,
	)
}

func (m Model) renderHome() string {
	styles := m.theme.Styles()
	w, h := m.contentSize()

	var b strings.Builder
	b.WriteString(styles.Logo.Render("cookhub"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("Find recipes from what is already in your kitchen."))
	b.WriteString("\n\n")

	if m.state.Authenticated {
		b.WriteString(styles.Text.Render("Signed in as "))
		b.WriteString(styles.AccentText.Bold(true).Render(m.state.Identity.Username))
		b.WriteString("\n\n")
		b.WriteString(homeItem(styles, "s", "search by ingredients"))
		b.WriteString(homeItem(styles, "c", "open your saved recipes"))
		b.WriteString(homeItem(styles, "L", "log out"))
	} else {
		b.WriteString(styles.Text.Render("You are not signed in."))
		b.WriteString("\n\n")
		b.WriteString(homeItem(styles, "l", "log in"))
		b.WriteString(homeItem(styles, "n", "create an account"))
	}

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, b.String())
}

func homeItem(styles Styles, k, desc string) string {
	return styles.AccentText.Render(padRight(k, 3)) + styles.Text.Render(desc) + "\n"
}

func (m Model) renderLogin() string {
	return m.renderForm("Log in", "No account yet? Press esc, then n.", &m.login)
}

func (m Model) renderRegister() string {
	return m.renderForm("Create an account", "All fields are required.", &m.register)
}

func (m Model) renderForm(title, hint string, f *form) string {
	styles := m.theme.Styles()
	w, h := m.contentSize()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(title))
	b.WriteString("\n\n")
	b.WriteString(f.view(styles))
	b.WriteString(styles.FaintText.Render(hint))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(1, 2).
		Render(b.String())
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderSearch() string {
	styles := m.theme.Styles()
	w, h := m.contentSize()

	// border, title and the field itself
	const inputH = 4
	input := m.panel("Ingredient", m.ingredient.View(), 0, 0, m.focus == focusInput)

	var rows []string
	for i, name := range m.state.Ingredients {
		rows = append(rows, m.row(i == m.ingredientRow && m.focus == focusIngredients, "• "+name))
	}
	if len(rows) == 0 {
		rows = append(rows, styles.FaintText.Render("Nothing added yet."))
	}

	var results []string
	for i, r := range m.state.Results {
		results = append(results, m.row(i == m.resultRow && m.focus == focusResults, resultLine(r, w)))
	}
	if len(results) == 0 {
		results = append(results, styles.FaintText.Render("Add ingredients, then press enter on an empty field."))
	}

	if w < LayoutCompactWidth {
		listH := max((h-inputH)/3, 3)
		resultH := max(h-inputH-listH, 3)
		ingredients := m.panel(fmt.Sprintf("Ingredients (%d)", len(m.state.Ingredients)),
			window(rows, m.ingredientRow, listH-3), w, listH, m.focus == focusIngredients)
		found := m.panel(fmt.Sprintf("Results (%d)", len(m.state.Results)),
			window(results, m.resultRow, resultH-3), w, resultH, m.focus == focusResults)
		return lipgloss.JoinVertical(lipgloss.Left, m.sized(input, w), ingredients, found)
	}

	left := max(w/3, 28)
	right := w - left
	ingredients := m.panel(fmt.Sprintf("Ingredients (%d)", len(m.state.Ingredients)),
		window(rows, m.ingredientRow, h-inputH-3), left, h-inputH, m.focus == focusIngredients)
	found := m.panel(fmt.Sprintf("Results (%d)", len(m.state.Results)),
		window(results, m.resultRow, h-3), right, h, m.focus == focusResults)

	column := lipgloss.JoinVertical(lipgloss.Left, m.sized(input, left), ingredients)
	return lipgloss.JoinHorizontal(lipgloss.Top, column, found)
}

func resultLine(r domain.SearchResult, width int) string {
	counts := fmt.Sprintf("  %d used, %d missing", r.UsedIngredientCount, r.MissedIngredientCount)
	title := truncate(r.Title, max(width-len(counts)-12, 10))
	if title == "" {
		title = fmt.Sprintf("Recipe #%d", r.ID)
	}
	return title + counts
}

func (m Model) renderDetail() string {
	w, h := m.contentSize()
	title := "Recipe"
	if m.state.Detail != nil {
		title = truncate(m.state.Detail.Title, w-8)
	}
	return m.panel(title, m.detail.View(), w, h, true)
}

// refreshDetail rebuilds the recipe viewport from the current detail.
func (m *Model) refreshDetail(resetScroll bool) {
	d := m.state.Detail
	if d == nil {
		m.detail.SetContent("")
		return
	}
	styles := m.theme.Styles()
	width := max(m.detail.Width, 20)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(d.Title))
	b.WriteString("\n")
	meta := plural(d.IngredientCount(), "ingredient") + " · " + plural(d.StepCount(), "step")
	switch d.Origin {
	case domain.FromSearch:
		meta += " · from search"
	case domain.FromSavedCollection:
		meta += " · saved"
	}
	b.WriteString(styles.MutedText.Render(meta))
	b.WriteString("\n")
	if d.CanSave() {
		b.WriteString(styles.AccentText.Render("Press S to save this recipe."))
		b.WriteString("\n")
	}
	if d.ImageURL != "" {
		b.WriteString(styles.FaintText.Render(truncate(d.ImageURL, width)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("Ingredients"))
	b.WriteString("\n")
	if len(d.Ingredients) == 0 {
		b.WriteString(styles.FaintText.Render("None listed."))
		b.WriteString("\n")
	}
	for _, item := range d.Ingredients {
		b.WriteString(hangingIndent("• ", item, width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("Steps"))
	b.WriteString("\n")
	if len(d.Instructions) == 0 {
		b.WriteString(styles.FaintText.Render("None listed."))
		b.WriteString("\n")
	}
	for i, step := range d.Instructions {
		b.WriteString(hangingIndent(fmt.Sprintf("%d. ", i+1), step, width))
		b.WriteString("\n")
	}

	m.detail.SetContent(b.String())
	if resetScroll {
		m.detail.GotoTop()
	}
}

// hangingIndent wraps text to width and aligns continuation lines under the
// first character after prefix.
func hangingIndent(prefix, text string, width int) string {
	pad := len([]rune(prefix))
	wrapped := lipgloss.NewStyle().Width(max(width-pad, 10)).Render(text)
	lines := strings.Split(wrapped, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
		if i == 0 {
			lines[i] = prefix + lines[i]
		} else {
			lines[i] = strings.Repeat(" ", pad) + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderCollection() string {
	styles := m.theme.Styles()
	w, h := m.contentSize()
	snap := m.state.Collection

	var status string
	switch {
	case !snap.Loaded && m.pending > 0:
		status = styles.MutedText.Render("Loading your recipes...")
	case snap.LastError != nil && snap.Loaded:
		status = styles.WarningText.Render("Refresh failed, showing the last loaded list. Press R to retry.")
	case snap.LastError != nil:
		status = styles.DangerText.Render("Could not load your recipes. Press R to retry.")
	case !snap.LastUpdated.IsZero():
		status = styles.FaintText.Render("Updated " + snap.LastUpdated.Format("15:04:05"))
	}

	var rows []string
	for i, rec := range snap.Records {
		title := rec.Title
		if strings.TrimSpace(title) == "" {
			title = fmt.Sprintf("Recipe #%d", rec.RecipeID)
		}
		counts := "  " + plural(rec.IngredientCount(), "ingredient") + ", " + plural(rec.StepCount(), "step")
		line := truncate(title, max(w-len(counts)-8, 10)) + counts
		rows = append(rows, m.row(i == m.savedRow, line))
	}
	if len(rows) == 0 && snap.Loaded {
		rows = append(rows, styles.FaintText.Render("No recipes yet. Press s to search."))
	}

	body := window(rows, m.savedRow, h-5)
	if status != "" {
		body = status + "\n\n" + body
	}
	return m.panel(fmt.Sprintf("My recipes (%d)", len(snap.Records)), body, w, h, true)
}

// panel draws body inside a rounded border with a title line. A zero width
// sizes the panel to its content.
func (m Model) panel(title, body string, width, height int, focused bool) string {
	styles := m.theme.Styles()
	border := m.theme.Border
	heading := styles.MutedText.Bold(true).Render(title)
	if focused {
		border = m.theme.BorderFocus
		heading = styles.AccentText.Bold(true).Render(title)
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(0, 1)
	if width > 0 {
		style = style.Width(max(width-2, 4))
	}
	if height > 0 {
		style = style.Height(max(height-2, 1)).MaxHeight(height)
	}
	return style.Render(heading + "\n" + body)
}

// sized widens a rendered block to width so stacked panels line up.
func (m Model) sized(block string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(block)
}

// row renders one list line, highlighted when selected.
func (m Model) row(selected bool, text string) string {
	styles := m.theme.Styles()
	if selected {
		return styles.Selected.Render("› " + text)
	}
	return styles.Text.Render("  " + text)
}

// window returns the rows that fit in height, scrolled to keep selected
// visible.
func window(rows []string, selected, height int) string {
	if height <= 0 || len(rows) <= height {
		return strings.Join(rows, "\n")
	}
	start := 0
	if selected >= height {
		start = selected - height + 1
	}
	end := min(start+height, len(rows))
	return strings.Join(rows[start:end], "\n")
}
