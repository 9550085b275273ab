package ui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/cookhub/internal/domain"
	"github.com/five82/cookhub/internal/prefs"
	"github.com/five82/cookhub/internal/state"
	"github.com/five82/cookhub/internal/workflow"
)

// Workflow is the coordinator surface the UI drives.
type Workflow interface {
	State() workflow.State
	Login(ctx context.Context, username, password string) workflow.Outcome
	Register(ctx context.Context, form workflow.RegisterForm) workflow.Outcome
	Navigate(ctx context.Context, view workflow.View) workflow.Outcome
	AddIngredient(text string) workflow.Outcome
	RemoveIngredient(index int) workflow.Outcome
	Search(ctx context.Context) workflow.Outcome
	SelectResult(ctx context.Context, id int64) workflow.Outcome
	SelectSaved(id int64) workflow.Outcome
	SaveCurrent(ctx context.Context) workflow.Outcome
	Logout() workflow.Outcome
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Workflow  Workflow
	Health    *state.Store
	APIURL    string
	PollTick  time.Duration
	Prefs     prefs.Prefs
	PrefsPath string
}

// searchFocus is the focused pane of the search view.
type searchFocus int

const (
	focusInput searchFocus = iota
	focusIngredients
	focusResults
)

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	flow      Workflow
	health    *state.Store
	apiURL    string
	prefs     prefs.Prefs
	prefsPath string
	pollTick  time.Duration
	keys      keyMap

	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	modal    Modal

	state    workflow.State
	snapshot state.Snapshot
	notice   workflow.Outcome
	pending  int
	spinner  spinner.Model

	login         form
	register      form
	ingredient    textinput.Model
	focus         searchFocus
	ingredientRow int
	resultRow     int
	savedRow      int
	detail        viewport.Model
}

// New creates the root model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:        ctx,
		flow:       opts.Workflow,
		health:     opts.Health,
		apiURL:     opts.APIURL,
		prefs:      opts.Prefs,
		prefsPath:  prefsPath,
		pollTick:   pollTick,
		keys:       DefaultKeyMap(),
		theme:      GetTheme(opts.Prefs.Theme),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		login:      newLoginForm(opts.Prefs.LastUsername),
		register:   newRegisterForm(),
		ingredient: newIngredientInput(),
		detail:     viewport.New(0, 0),
	}
	if m.flow != nil {
		m.state = m.flow.State()
		m.notice = m.state.Last
	}
	m.syncFocus()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, tickCmd(m.pollTick)}
	if m.health != nil {
		cmds = append(cmds, fetchHealthCmd(m.health))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case outcomeMsg:
		m.pending--
		if m.pending < 0 {
			m.pending = 0
		}
		if msg.op == opLogin && msg.out.Kind != workflow.Failed && msg.out.Kind != workflow.Superseded {
			m.rememberUser(msg.username)
			m.login.reset(loginPassword)
		}
		if msg.op == opRegister && msg.out.Kind != workflow.Failed && msg.out.Kind != workflow.Superseded {
			m.rememberUser(msg.username)
			m.register.resetAll()
		}
		m.apply(msg.out)
		return m, m.syncFocus()

	case logoutConfirmedMsg:
		m.apply(m.flow.Logout())
		m.login = newLoginForm(m.prefs.LastUsername)
		m.resize()
		return m, m.syncFocus()

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.pollTick)}
		if m.health != nil {
			cmds = append(cmds, fetchHealthCmd(m.health))
		}
		return m, tea.Batch(cmds...)

	case healthMsg:
		m.snapshot = state.Snapshot(msg)
		return m, nil

	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, m.updateInputs(msg)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.modal != nil {
		next, cmd, closed := m.modal.Update(msg, m.keys)
		m.modal = next
		if closed {
			m.modal = nil
		}
		return m, cmd
	}
	if key.Matches(msg, m.keys.CycleTheme) {
		m.cycleTheme()
		return m, nil
	}

	switch m.state.View {
	case workflow.ViewAuthenticate:
		return m.handleLoginKey(msg)
	case workflow.ViewRegister:
		return m.handleRegisterKey(msg)
	case workflow.ViewSearch:
		if m.focus == focusInput {
			return m.handleIngredientKey(msg)
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Back):
		return m.back()
	case key.Matches(msg, m.keys.GoSearch):
		return m.navigate(workflow.ViewSearch)
	case key.Matches(msg, m.keys.GoCollection):
		return m.navigate(workflow.ViewCollection)
	case key.Matches(msg, m.keys.GoLogin):
		return m.navigate(workflow.ViewAuthenticate)
	case key.Matches(msg, m.keys.GoRegister):
		return m.navigate(workflow.ViewRegister)
	case key.Matches(msg, m.keys.Logout):
		if !m.state.Authenticated {
			return m, nil
		}
		m.modal = newLogoutModal(m.state.Identity.Username)
		return m, nil
	}

	switch m.state.View {
	case workflow.ViewSearch:
		return m.handleSearchKey(msg)
	case workflow.ViewCollection:
		return m.handleCollectionKey(msg)
	case workflow.ViewRecipeDetail:
		return m.handleDetailKey(msg)
	}
	return m, nil
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m.navigate(workflow.ViewHome)
	case key.Matches(msg, m.keys.NextField), msg.Type == tea.KeyDown:
		return m, m.login.next()
	case key.Matches(msg, m.keys.PrevField), msg.Type == tea.KeyUp:
		return m, m.login.prev()
	case key.Matches(msg, m.keys.Confirm):
		if !m.login.onLast() {
			return m, m.login.next()
		}
		username := m.login.value(loginUsername)
		password := m.login.value(loginPassword)
		flow := m.flow
		cmd := m.run(opLogin, username, func(ctx context.Context) workflow.Outcome {
			return flow.Login(ctx, username, password)
		})
		return m, cmd
	}
	return m, m.login.update(msg)
}

func (m Model) handleRegisterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m.navigate(workflow.ViewHome)
	case key.Matches(msg, m.keys.NextField), msg.Type == tea.KeyDown:
		return m, m.register.next()
	case key.Matches(msg, m.keys.PrevField), msg.Type == tea.KeyUp:
		return m, m.register.prev()
	case key.Matches(msg, m.keys.Confirm):
		if !m.register.onLast() {
			return m, m.register.next()
		}
		f := workflow.RegisterForm{
			Username: m.register.value(registerUsername),
			Email:    m.register.value(registerEmail),
			Password: m.register.value(registerPassword),
			Confirm:  m.register.value(registerConfirm),
		}
		flow := m.flow
		cmd := m.run(opRegister, f.Username, func(ctx context.Context) workflow.Outcome {
			return flow.Register(ctx, f)
		})
		return m, cmd
	}
	return m, m.register.update(msg)
}

func (m Model) handleIngredientKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.focus = focusResults
		return m, m.syncFocus()
	case key.Matches(msg, m.keys.NextField):
		m.focus = focusIngredients
		return m, m.syncFocus()
	case key.Matches(msg, m.keys.PrevField):
		m.focus = focusResults
		return m, m.syncFocus()
	case key.Matches(msg, m.keys.Confirm):
		text := m.ingredient.Value()
		if strings.TrimSpace(text) == "" {
			return m, m.search()
		}
		out := m.flow.AddIngredient(text)
		m.apply(out)
		if out.Kind != workflow.Failed {
			m.ingredient.Reset()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.ingredient, cmd = m.ingredient.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.FocusInput):
		m.focus = focusInput
		return m, m.syncFocus()
	case key.Matches(msg, m.keys.NextField):
		m.focus = (m.focus + 1) % 3
		return m, m.syncFocus()
	case key.Matches(msg, m.keys.PrevField):
		m.focus = (m.focus + 2) % 3
		return m, m.syncFocus()
	}

	if m.focus == focusIngredients {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.ingredientRow = moveRow(m.ingredientRow, -1, len(m.state.Ingredients))
		case key.Matches(msg, m.keys.Down):
			m.ingredientRow = moveRow(m.ingredientRow, 1, len(m.state.Ingredients))
		case key.Matches(msg, m.keys.Remove):
			m.apply(m.flow.RemoveIngredient(m.ingredientRow))
		case key.Matches(msg, m.keys.Confirm):
			return m, m.search()
		}
		return m, nil
	}

	count := len(m.state.Results)
	switch {
	case key.Matches(msg, m.keys.Up):
		m.resultRow = moveRow(m.resultRow, -1, count)
	case key.Matches(msg, m.keys.Down):
		m.resultRow = moveRow(m.resultRow, 1, count)
	case key.Matches(msg, m.keys.Top):
		m.resultRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.resultRow = max(count-1, 0)
	case key.Matches(msg, m.keys.Confirm):
		if m.resultRow < count {
			id := m.state.Results[m.resultRow].ID
			flow := m.flow
			return m, m.run(opSelect, "", func(ctx context.Context) workflow.Outcome {
				return flow.SelectResult(ctx, id)
			})
		}
	}
	return m, nil
}

func (m Model) handleCollectionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.state.Collection.Records)
	switch {
	case key.Matches(msg, m.keys.Up):
		m.savedRow = moveRow(m.savedRow, -1, count)
	case key.Matches(msg, m.keys.Down):
		m.savedRow = moveRow(m.savedRow, 1, count)
	case key.Matches(msg, m.keys.Top):
		m.savedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.savedRow = max(count-1, 0)
	case key.Matches(msg, m.keys.Refresh):
		return m.navigate(workflow.ViewCollection)
	case key.Matches(msg, m.keys.Confirm):
		if m.savedRow < count {
			m.apply(m.flow.SelectSaved(m.state.Collection.Records[m.savedRow].RecipeID))
			return m, m.syncFocus()
		}
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		if m.state.Detail == nil || !m.state.Detail.CanSave() {
			return m, nil
		}
		flow := m.flow
		return m, m.run(opSave, "", func(ctx context.Context) workflow.Outcome {
			return flow.SaveCurrent(ctx)
		})
	case key.Matches(msg, m.keys.Top):
		m.detail.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.detail.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

// back leaves the current view: a recipe returns to where it came from,
// everything else returns home.
func (m Model) back() (tea.Model, tea.Cmd) {
	if m.state.View == workflow.ViewRecipeDetail && m.state.Detail != nil {
		if m.state.Detail.Origin == domain.FromSearch {
			return m.navigate(workflow.ViewSearch)
		}
		return m.navigate(workflow.ViewCollection)
	}
	return m.navigate(workflow.ViewHome)
}

// navigate runs views that fetch data asynchronously and applies the others
// immediately.
func (m Model) navigate(view workflow.View) (tea.Model, tea.Cmd) {
	if view == workflow.ViewCollection || view == workflow.ViewRecipeDetail {
		flow := m.flow
		return m, m.run(opNavigate, "", func(ctx context.Context) workflow.Outcome {
			return flow.Navigate(ctx, view)
		})
	}
	m.apply(m.flow.Navigate(m.ctx, view))
	return m, m.syncFocus()
}

func (m *Model) search() tea.Cmd {
	flow := m.flow
	return m.run(opSearch, "", func(ctx context.Context) workflow.Outcome {
		return flow.Search(ctx)
	})
}

// run executes fn off the update loop and reports its outcome as a message.
func (m *Model) run(op, username string, fn func(context.Context) workflow.Outcome) tea.Cmd {
	m.pending++
	ctx := m.ctx
	call := func() tea.Msg {
		return outcomeMsg{op: op, username: username, out: fn(ctx)}
	}
	if m.pending == 1 {
		return tea.Batch(call, m.spinner.Tick)
	}
	return call
}

// apply records an outcome and refreshes everything derived from state.
func (m *Model) apply(out workflow.Outcome) {
	prev := m.state.View
	if out.Kind != workflow.Superseded {
		m.notice = out
	}
	if m.flow != nil {
		m.state = m.flow.State()
	}

	if m.state.View == workflow.ViewSearch && prev != workflow.ViewSearch {
		m.focus = focusInput
	}
	if m.state.View == workflow.ViewRecipeDetail {
		m.refreshDetail(prev != workflow.ViewRecipeDetail)
	}
	if out.Kind == workflow.OK && out.View == workflow.ViewSearch && out.Message != "" {
		m.resultRow = 0
	}
	m.ingredientRow = clampRow(m.ingredientRow, len(m.state.Ingredients))
	m.resultRow = clampRow(m.resultRow, len(m.state.Results))
	m.savedRow = clampRow(m.savedRow, len(m.state.Collection.Records))
}

// syncFocus focuses the text field that owns the keyboard in the current
// view and blurs the rest.
func (m *Model) syncFocus() tea.Cmd {
	var cmds []tea.Cmd
	switch m.state.View {
	case workflow.ViewAuthenticate:
		cmds = append(cmds, m.login.focusCurrent())
	default:
		m.login.blur()
	}
	switch m.state.View {
	case workflow.ViewRegister:
		cmds = append(cmds, m.register.focusCurrent())
	default:
		m.register.blur()
	}
	if m.state.View == workflow.ViewSearch && m.focus == focusInput {
		cmds = append(cmds, m.ingredient.Focus())
	} else {
		m.ingredient.Blur()
	}
	return tea.Batch(cmds...)
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	switch m.state.View {
	case workflow.ViewAuthenticate:
		return m.login.update(msg)
	case workflow.ViewRegister:
		return m.register.update(msg)
	case workflow.ViewSearch:
		var cmd tea.Cmd
		m.ingredient, cmd = m.ingredient.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	name := m.theme.Name
	m.updatePrefs(func(p *prefs.Prefs) { p.Theme = name })
	if m.state.View == workflow.ViewRecipeDetail {
		m.refreshDetail(false)
	}
}

func (m *Model) rememberUser(username string) {
	username = strings.TrimSpace(username)
	if username == "" || username == m.prefs.LastUsername {
		return
	}
	m.updatePrefs(func(p *prefs.Prefs) { p.LastUsername = username })
}

// updatePrefs applies change in memory and to the preferences file.
func (m *Model) updatePrefs(change func(*prefs.Prefs)) {
	change(&m.prefs)
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Update(m.prefsPath, change); err != nil {
		slog.Warn("save preferences failed", "path", m.prefsPath, "error", err)
	}
}

func (m *Model) resize() {
	w, h := m.contentSize()
	m.detail.Width = max(w-4, 1)
	m.detail.Height = max(h-3, 1)
	m.login.setWidth(min(w-20, formFieldWidth))
	m.register.setWidth(min(w-20, formFieldWidth))
	m.ingredient.Width = max(w/3-8, 10)
	if m.state.View == workflow.ViewRecipeDetail {
		m.refreshDetail(false)
	}
}

func moveRow(row, delta, count int) int {
	if count == 0 {
		return 0
	}
	return clampRow(row+delta, count)
}

func clampRow(row, count int) int {
	if row >= count {
		row = count - 1
	}
	if row < 0 {
		row = 0
	}
	return row
}

// Messages

const (
	opLogin    = "login"
	opRegister = "register"
	opNavigate = "navigate"
	opSearch   = "search"
	opSelect   = "select"
	opSave     = "save"
)

type outcomeMsg struct {
	op       string
	username string
	out      workflow.Outcome
}

type tickMsg time.Time

type healthMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchHealthCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return healthMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
