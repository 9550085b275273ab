package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/five82/cookhub/internal/collection"
	"github.com/five82/cookhub/internal/cookhub"
	"github.com/five82/cookhub/internal/detail"
	"github.com/five82/cookhub/internal/domain"
	"github.com/five82/cookhub/internal/search"
	"github.com/five82/cookhub/internal/session"
)

// Accounts authenticates and registers users.
type Accounts interface {
	Login(ctx context.Context, req cookhub.LoginRequest) (cookhub.User, error)
	Register(ctx context.Context, req cookhub.RegisterRequest) (int64, error)
}

// Ensure cookhub.Client implements Accounts at compile time.
var _ Accounts = (*cookhub.Client)(nil)

// RegisterForm carries the registration fields as typed by the user.
type RegisterForm struct {
	Username string
	Email    string
	Password string
	Confirm  string
}

// State is a rendering snapshot of the whole workflow.
type State struct {
	View          View
	Identity      domain.Identity
	Authenticated bool
	Ingredients   []string
	Results       []domain.SearchResult
	Detail        *domain.RecipeDetail
	Collection    collection.Snapshot
	Last          Outcome
}

// Coordinator sequences the session, search, detail and collection
// components and decides which view comes next. It is safe for concurrent
// use; no lock is held across network calls.
type Coordinator struct {
	sessions   *session.Store
	accounts   Accounts
	search     *search.Session
	details    *detail.Loader
	collection *collection.Repository
	log        *slog.Logger

	mu     sync.Mutex
	view   View
	detail *domain.RecipeDetail
	epoch  uint64
	last   Outcome
}

// New wires a Coordinator around an API client and a session store.
func New(api *cookhub.Client, sessions *session.Store, log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{
		sessions:   sessions,
		accounts:   api,
		search:     search.NewSession(api, sessions, log.With("component", "search")),
		details:    detail.NewLoader(api, sessions, log.With("component", "detail")),
		collection: collection.NewRepository(api, log.With("component", "collection")),
		log:        log,
		view:       ViewHome,
	}
}

// Restore loads any persisted identity and starts on the home view.
func (c *Coordinator) Restore() Outcome {
	status := c.sessions.Restore()
	out := Outcome{View: ViewHome, Kind: OK}
	if id, ok := c.sessions.Current(); ok {
		out.Message = fmt.Sprintf("Welcome back, %s.", id.Username)
	}
	c.log.Info("workflow restored", "session", status.String())
	return c.finish(c.currentEpoch(), out)
}

// Login authenticates and opens the user's collection.
func (c *Coordinator) Login(ctx context.Context, username, password string) Outcome {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return c.fail(ViewAuthenticate, domain.NewValidationError("credentials", "Please fill in all fields"), "")
	}

	epoch := c.currentEpoch()
	user, err := c.accounts.Login(ctx, cookhub.LoginRequest{Username: username, Password: password})
	if err != nil {
		return c.failAfter(epoch, ViewAuthenticate, err, "Login failed. Please check your credentials.")
	}
	if strings.TrimSpace(user.Username) == "" {
		user.Username = username
	}
	return c.begin(ctx, ViewAuthenticate, domain.Identity{ID: user.ID, Username: user.Username, Email: user.Email})
}

// Register creates an account and opens the new user's collection.
func (c *Coordinator) Register(ctx context.Context, form RegisterForm) Outcome {
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)
	if form.Username == "" || form.Email == "" || form.Password == "" || form.Confirm == "" {
		return c.fail(ViewRegister, domain.NewValidationError("registration", "Please fill in all fields"), "")
	}
	if form.Password != form.Confirm {
		return c.fail(ViewRegister, domain.NewValidationError("confirm", "Passwords do not match"), "")
	}

	epoch := c.currentEpoch()
	userID, err := c.accounts.Register(ctx, cookhub.RegisterRequest{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		return c.failAfter(epoch, ViewRegister, err, "Registration failed")
	}
	return c.begin(ctx, ViewRegister, domain.Identity{ID: userID, Username: form.Username, Email: form.Email})
}

// Navigate moves to view, redirecting when its preconditions are not met.
func (c *Coordinator) Navigate(ctx context.Context, view View) Outcome {
	switch view {
	case ViewHome, ViewAuthenticate, ViewRegister:
		return c.finish(c.currentEpoch(), Outcome{View: view, Kind: OK})
	case ViewSearch:
		if _, ok := c.sessions.Current(); !ok {
			return c.redirectToLogin()
		}
		return c.finish(c.currentEpoch(), Outcome{View: ViewSearch, Kind: OK})
	case ViewCollection:
		return c.enterCollection(ctx, c.currentEpoch(), "")
	case ViewRecipeDetail:
		c.mu.Lock()
		resolved := c.detail != nil
		c.mu.Unlock()
		if !resolved {
			c.log.Debug("no recipe resolved, redirecting", "to", ViewCollection)
			return c.enterCollection(ctx, c.currentEpoch(), "")
		}
		return c.finish(c.currentEpoch(), Outcome{View: ViewRecipeDetail, Kind: OK})
	default:
		return c.fail(c.currentView(), domain.NewValidationError("view", fmt.Sprintf("unknown view %q", view)), "")
	}
}

// AddIngredient adds text to the ingredient set.
func (c *Coordinator) AddIngredient(text string) Outcome {
	if _, err := c.search.AddIngredient(text); err != nil {
		return c.fail(ViewSearch, err, "")
	}
	return c.finish(c.currentEpoch(), Outcome{View: ViewSearch, Kind: OK})
}

// RemoveIngredient removes the ingredient at index.
func (c *Coordinator) RemoveIngredient(index int) Outcome {
	if _, err := c.search.RemoveIngredient(index); err != nil {
		return c.fail(ViewSearch, err, "")
	}
	return c.finish(c.currentEpoch(), Outcome{View: ViewSearch, Kind: OK})
}

// Search runs a search for the current ingredient set.
func (c *Coordinator) Search(ctx context.Context) Outcome {
	if _, ok := c.sessions.Current(); !ok {
		return c.redirectToLogin()
	}
	epoch := c.currentEpoch()

	res, err := c.search.Search(ctx)
	switch {
	case errors.Is(err, domain.ErrSuperseded):
		return Outcome{View: c.currentView(), Kind: Superseded, Err: err}
	case err != nil:
		return c.failAfter(epoch, ViewSearch, err, "search failed")
	case res.NoMatches:
		return c.finish(epoch, Outcome{View: ViewSearch, Kind: NoMatches, Message: "No recipes match those ingredients."})
	default:
		return c.finish(epoch, Outcome{View: ViewSearch, Kind: OK, Message: countMessage(len(res.Results), "recipe", "found")})
	}
}

// SelectResult loads a search result and shows it.
func (c *Coordinator) SelectResult(ctx context.Context, id int64) Outcome {
	if _, ok := c.sessions.Current(); !ok {
		return c.redirectToLogin()
	}
	epoch := c.currentEpoch()

	d, err := c.details.Load(ctx, id)
	if err != nil {
		return c.failAfter(epoch, ViewSearch, err, "Could not load recipe")
	}
	return c.showDetail(epoch, d)
}

// SelectSaved shows an entry of the loaded collection.
func (c *Coordinator) SelectSaved(id int64) Outcome {
	rec, ok := c.collection.Record(id)
	if !ok {
		return c.fail(ViewCollection, domain.NewValidationError("recipe", "That recipe is not in your collection"), "")
	}
	return c.showDetail(c.currentEpoch(), c.details.FromSaved(rec))
}

// SaveCurrent saves the recipe on display to the collection.
func (c *Coordinator) SaveCurrent(ctx context.Context) Outcome {
	id, ok := c.sessions.Current()
	if !ok {
		return c.redirectToLogin()
	}
	c.mu.Lock()
	epoch := c.epoch
	var current domain.RecipeDetail
	resolved := c.detail != nil
	if resolved {
		current = *c.detail
	}
	c.mu.Unlock()
	if !resolved {
		return c.fail(ViewCollection, domain.NewValidationError("recipe", "No recipe selected"), "")
	}

	if err := c.collection.Save(ctx, &id, current); err != nil {
		return c.failAfter(epoch, ViewRecipeDetail, err, "Failed to save recipe")
	}
	return c.finish(epoch, Outcome{View: ViewRecipeDetail, Kind: OK, Message: "Recipe saved to your collection."})
}

// Logout clears the identity and every in-memory mirror.
func (c *Coordinator) Logout() Outcome {
	if err := c.sessions.Clear(); err != nil {
		return c.fail(c.currentView(), err, "Could not log out")
	}
	c.search.Reset()
	c.collection.Reset()

	c.mu.Lock()
	c.epoch++
	c.detail = nil
	epoch := c.epoch
	c.mu.Unlock()

	c.log.Info("logged out")
	return c.finish(epoch, Outcome{View: ViewHome, Kind: OK, Message: "You have been logged out."})
}

// State returns a snapshot for rendering.
func (c *Coordinator) State() State {
	id, ok := c.sessions.Current()
	st := State{
		Identity:      id,
		Authenticated: ok,
		Ingredients:   c.search.Ingredients(),
		Results:       c.search.Results(),
		Collection:    c.collection.Snapshot(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	st.View = c.view
	st.Last = c.last
	if c.detail != nil {
		d := *c.detail
		st.Detail = &d
	}
	return st
}

// begin establishes a fresh identity after login or registration.
func (c *Coordinator) begin(ctx context.Context, from View, id domain.Identity) Outcome {
	if err := c.sessions.Establish(id); err != nil {
		c.log.Error("establish session failed", "user_id", id.ID, "error", err)
		return c.fail(from, err, "Could not start your session")
	}
	c.search.Reset()

	c.mu.Lock()
	c.epoch++
	c.detail = nil
	epoch := c.epoch
	c.mu.Unlock()

	c.log.Info("session started", "user_id", id.ID, "username", id.Username)
	return c.enterCollection(ctx, epoch, fmt.Sprintf("Logged in as %s.", id.Username))
}

func (c *Coordinator) enterCollection(ctx context.Context, epoch uint64, greeting string) Outcome {
	id, ok := c.sessions.Current()
	if !ok {
		return c.redirectToLogin()
	}

	res, err := c.collection.List(ctx, &id)
	switch {
	case errors.Is(err, domain.ErrSuperseded):
		return Outcome{View: c.currentView(), Kind: Superseded, Err: err}
	case err != nil:
		msg := domain.UserMessage(err, "Failed to load saved recipes")
		return c.finish(epoch, Outcome{View: ViewCollection, Kind: Failed, Message: msg, Err: err})
	case res.Empty:
		return c.finish(epoch, Outcome{View: ViewCollection, Kind: Empty, Message: join(greeting, "No recipes yet.")})
	default:
		return c.finish(epoch, Outcome{View: ViewCollection, Kind: OK, Message: join(greeting, countMessage(len(res.Records), "saved recipe", ""))})
	}
}

func (c *Coordinator) showDetail(epoch uint64, d domain.RecipeDetail) Outcome {
	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return Outcome{View: c.currentView(), Kind: Superseded, Err: domain.ErrSuperseded}
	}
	c.detail = &d
	c.mu.Unlock()
	return c.finish(epoch, Outcome{View: ViewRecipeDetail, Kind: OK})
}

func (c *Coordinator) redirectToLogin() Outcome {
	return c.finish(c.currentEpoch(), Outcome{
		View:    ViewAuthenticate,
		Kind:    Redirected,
		Message: domain.UserMessage(domain.ErrAuthRequired, ""),
		Err:     domain.ErrAuthRequired,
	})
}

func (c *Coordinator) fail(view View, err error, fallback string) Outcome {
	return c.failAfter(c.currentEpoch(), view, err, fallback)
}

func (c *Coordinator) failAfter(epoch uint64, view View, err error, fallback string) Outcome {
	msg := domain.UserMessage(err, fallback)
	if msg == "" {
		msg = err.Error()
	}
	c.log.Debug("workflow step failed", "view", view, "error", err)
	return c.finish(epoch, Outcome{View: view, Kind: Failed, Message: msg, Err: err})
}

// finish applies out unless the session changed since epoch was taken.
func (c *Coordinator) finish(epoch uint64, out Outcome) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return Outcome{View: c.view, Kind: Superseded, Err: domain.ErrSuperseded}
	}
	c.view = out.View
	c.last = out
	return out
}

func (c *Coordinator) currentEpoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

func (c *Coordinator) currentView() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func countMessage(n int, noun, verb string) string {
	if n != 1 {
		noun += "s"
	}
	if verb == "" {
		return fmt.Sprintf("%d %s.", n, noun)
	}
	return fmt.Sprintf("%d %s %s.", n, noun, verb)
}

func join(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
