package search

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/five82/cookhub/internal/cookhub"
	"github.com/five82/cookhub/internal/domain"
)

// Searcher issues ingredient queries against the recipe API.
type Searcher interface {
	SearchRecipes(ctx context.Context, ingredients []string) ([]cookhub.SearchHit, error)
}

// Ensure cookhub.Client implements Searcher at compile time.
var _ Searcher = (*cookhub.Client)(nil)

// IdentitySource reports the current login identity.
type IdentitySource interface {
	Current() (domain.Identity, bool)
}

// Outcome is the applied result of a completed search.
type Outcome struct {
	Results   []domain.SearchResult
	NoMatches bool
}

// Session accumulates an ingredient set and runs searches for it. Only the
// most recently started search may apply its response; older calls are
// cancelled and report domain.ErrSuperseded.
type Session struct {
	api Searcher
	ids IdentitySource
	log *slog.Logger

	mu          sync.Mutex
	ingredients []string
	results     []domain.SearchResult
	generation  uint64
	cancel      context.CancelFunc
}

// NewSession creates an empty search session.
func NewSession(api Searcher, ids IdentitySource, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{api: api, ids: ids, log: log}
}

// AddIngredient inserts the trimmed text unless it is already present and
// returns the updated set.
func (s *Session) AddIngredient(text string) ([]string, error) {
	value := strings.TrimSpace(text)
	if value == "" {
		return s.Ingredients(), domain.NewValidationError("ingredient", "Please enter an ingredient")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.ingredients, value) {
		s.ingredients = append(s.ingredients, value)
	}
	return slices.Clone(s.ingredients), nil
}

// RemoveIngredient drops the ingredient at index and returns the updated set.
func (s *Session) RemoveIngredient(index int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.ingredients) {
		return slices.Clone(s.ingredients), domain.IndexError(index, len(s.ingredients))
	}
	s.ingredients = slices.Delete(s.ingredients, index, index+1)
	return slices.Clone(s.ingredients), nil
}

// Search queries the API with the full ingredient set. An empty set and a
// missing identity fail before any request is made.
func (s *Session) Search(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	if len(s.ingredients) == 0 {
		s.mu.Unlock()
		return Outcome{}, domain.NewValidationError("ingredients", "Please enter at least one ingredient")
	}
	if _, ok := s.ids.Current(); !ok {
		s.mu.Unlock()
		return Outcome{}, fmt.Errorf("search recipes: %w", domain.ErrAuthRequired)
	}

	s.generation++
	gen := s.generation
	if s.cancel != nil {
		s.cancel()
	}
	callCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	query := slices.Clone(s.ingredients)
	s.mu.Unlock()

	defer cancel()
	s.log.Debug("searching recipes", "generation", gen, "ingredients", query)
	hits, err := s.api.SearchRecipes(callCtx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.log.Debug("discarding superseded search", "generation", gen, "current", s.generation)
		return Outcome{}, domain.ErrSuperseded
	}
	s.cancel = nil
	if err != nil {
		s.log.Warn("search failed", "generation", gen, "error", err)
		return Outcome{}, err
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, domain.SearchResult{
			ID:                    hit.ID,
			Title:                 hit.Title,
			ImageURL:              hit.Image,
			UsedIngredientCount:   hit.UsedIngredientCount,
			MissedIngredientCount: hit.MissedIngredientCount,
		})
	}
	s.results = results
	s.log.Info("search applied", "generation", gen, "results", len(results))
	return Outcome{Results: slices.Clone(results), NoMatches: len(results) == 0}, nil
}

// Reset empties the ingredient set and results and supersedes any pending
// search.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.ingredients = nil
	s.results = nil
}

// Ingredients returns a copy of the current ingredient set.
func (s *Session) Ingredients() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.ingredients)
}

// Results returns a copy of the last applied search results.
func (s *Session) Results() []domain.SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.results)
}

// Result looks up a result of the last applied search by recipe id.
func (s *Session) Result(id int64) (domain.SearchResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.results {
		if r.ID == id {
			return r, true
		}
	}
	return domain.SearchResult{}, false
}
