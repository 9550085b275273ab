package ui

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/cookhub/internal/domain"
	"github.com/five82/cookhub/internal/prefs"
	"github.com/five82/cookhub/internal/workflow"
)

// fakeFlow records calls and serves a fixed state.
type fakeFlow struct {
	mu       sync.Mutex
	state    workflow.State
	logins   []string
	added    []string
	searches int
	logouts  int
}

func (f *fakeFlow) State() workflow.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeFlow) Login(_ context.Context, username, password string) workflow.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins = append(f.logins, username+":"+password)
	f.state.View = workflow.ViewCollection
	f.state.Authenticated = true
	f.state.Identity = domain.Identity{ID: 1, Username: username}
	return workflow.Outcome{View: workflow.ViewCollection, Kind: workflow.Empty, Message: "Logged in as " + username + "."}
}

func (f *fakeFlow) Register(context.Context, workflow.RegisterForm) workflow.Outcome {
	return workflow.Outcome{View: workflow.ViewRegister, Kind: workflow.Failed, Message: "Registration failed"}
}

func (f *fakeFlow) Navigate(_ context.Context, view workflow.View) workflow.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.View = view
	return workflow.Outcome{View: view, Kind: workflow.OK}
}

func (f *fakeFlow) AddIngredient(text string) workflow.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, text)
	f.state.Ingredients = append(f.state.Ingredients, text)
	return workflow.Outcome{View: workflow.ViewSearch, Kind: workflow.OK}
}

func (f *fakeFlow) RemoveIngredient(int) workflow.Outcome {
	return workflow.Outcome{View: workflow.ViewSearch, Kind: workflow.OK}
}

func (f *fakeFlow) Search(context.Context) workflow.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches++
	return workflow.Outcome{View: workflow.ViewSearch, Kind: workflow.NoMatches, Message: "No recipes match those ingredients."}
}

func (f *fakeFlow) SelectResult(context.Context, int64) workflow.Outcome {
	return workflow.Outcome{View: workflow.ViewRecipeDetail, Kind: workflow.OK}
}

func (f *fakeFlow) SelectSaved(int64) workflow.Outcome {
	return workflow.Outcome{View: workflow.ViewRecipeDetail, Kind: workflow.OK}
}

func (f *fakeFlow) SaveCurrent(context.Context) workflow.Outcome {
	return workflow.Outcome{View: workflow.ViewRecipeDetail, Kind: workflow.OK}
}

func (f *fakeFlow) Logout() workflow.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts++
	f.state = workflow.State{View: workflow.ViewHome}
	return workflow.Outcome{View: workflow.ViewHome, Kind: workflow.OK, Message: "You have been logged out."}
}

func newTestModel(t *testing.T, flow *fakeFlow, p prefs.Prefs) Model {
	t.Helper()
	return New(Options{
		Context:   context.Background(),
		Workflow:  flow,
		Prefs:     p,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
}

func press(m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// outcomeFrom executes cmd (and any batch members) until it finds an
// outcomeMsg.
func outcomeFrom(t *testing.T, cmd tea.Cmd) outcomeMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	switch msg := cmd().(type) {
	case outcomeMsg:
		return msg
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if out, ok := c().(outcomeMsg); ok {
				return out
			}
		}
	}
	t.Fatal("command produced no outcome")
	return outcomeMsg{}
}

func TestNewPrefillsLastUsername(t *testing.T) {
	flow := &fakeFlow{state: workflow.State{View: workflow.ViewAuthenticate}}
	m := newTestModel(t, flow, prefs.Prefs{Theme: "Slate", LastUsername: "ana"})

	if got := m.login.value(loginUsername); got != "ana" {
		t.Fatalf("username field = %q, want ana", got)
	}
	if m.login.focus != loginPassword {
		t.Fatalf("focus = %d, want password field", m.login.focus)
	}
	if m.theme.Name != "Slate" {
		t.Fatalf("theme = %q, want Slate", m.theme.Name)
	}
}

func TestCycleThemeSavesPrefs(t *testing.T) {
	flow := &fakeFlow{state: workflow.State{View: workflow.ViewHome}}
	m := newTestModel(t, flow, prefs.Prefs{Theme: "Nightfox"})

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	saved, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if saved.Theme != "Kanagawa" {
		t.Fatalf("saved theme = %q, want Kanagawa", saved.Theme)
	}
}

func TestCycleThemeKeepsOtherStoredPrefs(t *testing.T) {
	flow := &fakeFlow{state: workflow.State{View: workflow.ViewHome}}
	m := newTestModel(t, flow, prefs.Prefs{Theme: "Nightfox"})
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: "Nightfox", LastUsername: "bo"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	saved, _ := prefs.Load(m.prefsPath)
	if saved.Theme != "Kanagawa" || saved.LastUsername != "bo" {
		t.Fatalf("saved = %#v, want Kanagawa/bo", saved)
	}
}

func TestLoginSubmitRunsWorkflowAndRemembersUser(t *testing.T) {
	flow := &fakeFlow{state: workflow.State{View: workflow.ViewAuthenticate}}
	m := newTestModel(t, flow, prefs.Prefs{})
	m.login.inputs[loginUsername].SetValue("ana")
	m.login.inputs[loginPassword].SetValue("secret")
	m.login.focus = loginPassword

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.pending != 1 {
		t.Fatalf("pending = %d, want 1", m.pending)
	}
	out := outcomeFrom(t, cmd)
	if out.op != opLogin || out.username != "ana" {
		t.Fatalf("outcome = %+v", out)
	}
	if len(flow.logins) != 1 || flow.logins[0] != "ana:secret" {
		t.Fatalf("logins = %v", flow.logins)
	}

	next, _ := m.Update(out)
	m = next.(Model)
	if m.pending != 0 {
		t.Fatalf("pending = %d, want 0", m.pending)
	}
	if m.state.View != workflow.ViewCollection {
		t.Fatalf("view = %s, want collection", m.state.View)
	}
	if m.notice.Message != "Logged in as ana." {
		t.Fatalf("notice = %q", m.notice.Message)
	}
	if m.login.value(loginPassword) != "" {
		t.Fatal("password field should be cleared after login")
	}
	saved, _ := prefs.Load(m.prefsPath)
	if saved.LastUsername != "ana" {
		t.Fatalf("saved username = %q, want ana", saved.LastUsername)
	}
}

func TestSupersededOutcomeKeepsNotice(t *testing.T) {
	flow := &fakeFlow{state: workflow.State{View: workflow.ViewSearch}}
	m := newTestModel(t, flow, prefs.Prefs{})
	m.notice = workflow.Outcome{Kind: workflow.OK, Message: "Found 3 recipes."}
	m.pending = 1

	next, _ := m.Update(outcomeMsg{op: opSearch, out: workflow.Outcome{View: workflow.ViewSearch, Kind: workflow.Superseded}})
	m = next.(Model)
	if m.notice.Message != "Found 3 recipes." {
		t.Fatalf("notice = %q, want previous notice", m.notice.Message)
	}
	if m.pending != 0 {
		t.Fatalf("pending = %d, want 0", m.pending)
	}
}

func TestIngredientInput(t *testing.T) {
	flow := &fakeFlow{state: workflow.State{View: workflow.ViewSearch, Authenticated: true}}
	m := newTestModel(t, flow, prefs.Prefs{})

	// letters go to the field while it has focus
	m, _ = press(m, runes("q"))
	if got := m.ingredient.Value(); got != "q" {
		t.Fatalf("input = %q, want q", got)
	}

	m.ingredient.SetValue("egg")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(flow.added) != 1 || flow.added[0] != "egg" {
		t.Fatalf("added = %v", flow.added)
	}
	if m.ingredient.Value() != "" {
		t.Fatalf("input not cleared: %q", m.ingredient.Value())
	}
	if len(m.state.Ingredients) != 1 {
		t.Fatalf("ingredients = %v", m.state.Ingredients)
	}

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	out := outcomeFrom(t, cmd)
	if flow.searches != 1 {
		t.Fatalf("searches = %d, want 1", flow.searches)
	}
	next, _ := m.Update(out)
	m = next.(Model)
	if m.notice.Kind != workflow.NoMatches {
		t.Fatalf("notice kind = %s, want NoMatches", m.notice.Kind)
	}
}

func TestLogoutAsksForConfirmation(t *testing.T) {
	flow := &fakeFlow{state: workflow.State{
		View:          workflow.ViewHome,
		Authenticated: true,
		Identity:      domain.Identity{ID: 1, Username: "ana"},
	}}
	m := newTestModel(t, flow, prefs.Prefs{})

	m, _ = press(m, runes("L"))
	if m.modal == nil {
		t.Fatal("expected confirmation modal")
	}
	m, _ = press(m, runes("n"))
	if m.modal != nil || flow.logouts != 0 {
		t.Fatalf("cancel: modal=%v logouts=%d", m.modal, flow.logouts)
	}

	m, _ = press(m, runes("L"))
	m, cmd := press(m, runes("y"))
	if cmd == nil {
		t.Fatal("confirm should emit a command")
	}
	next, _ := m.Update(cmd())
	m = next.(Model)
	if flow.logouts != 1 {
		t.Fatalf("logouts = %d, want 1", flow.logouts)
	}
	if m.state.Authenticated || m.state.View != workflow.ViewHome {
		t.Fatalf("state after logout = %+v", m.state)
	}
}

func TestViewRendersAfterResize(t *testing.T) {
	flow := &fakeFlow{state: workflow.State{View: workflow.ViewHome}}
	m := newTestModel(t, flow, prefs.Prefs{})

	if got := m.View(); got != "Loading..." {
		t.Fatalf("View before resize = %q", got)
	}
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	view := m.View()
	for _, want := range []string{"cookhub", "guest", "create an account"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}

	m, _ = press(m, runes("?"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatal("help overlay not shown")
	}
}

func TestDetailViewShowsRecipe(t *testing.T) {
	flow := &fakeFlow{state: workflow.State{
		View:          workflow.ViewRecipeDetail,
		Authenticated: true,
		Identity:      domain.Identity{ID: 1, Username: "ana"},
		Detail: &domain.RecipeDetail{
			RecipeID:     9,
			Title:        "Shakshuka",
			Ingredients:  []string{"4 eggs", "1 can tomatoes"},
			Instructions: []string{"Simmer tomatoes.", "Crack in eggs."},
			Origin:       domain.FromSearch,
		},
	}}
	m := newTestModel(t, flow, prefs.Prefs{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(Model)

	view := m.View()
	for _, want := range []string{"Shakshuka", "2 ingredients", "• 4 eggs", "2. Crack in eggs.", "Press S to save"} {
		if !strings.Contains(view, want) {
			t.Fatalf("detail view missing %q:\n%s", want, view)
		}
	}
}
