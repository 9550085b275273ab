// Package collection mirrors the signed-in user's saved recipes.
//
// The mirror belongs to one owner at a time. Switching owner or calling Reset
// discards it, and responses that started before the discard are dropped.
// Failed list calls keep whatever was loaded before.
package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/five82/cookhub/internal/cookhub"
	"github.com/five82/cookhub/internal/domain"
)

// API is the subset of the recipe API the repository needs.
type API interface {
	ListSavedRecipes(ctx context.Context, userID int64) ([]cookhub.SavedRecipe, error)
	SaveRecipe(ctx context.Context, req cookhub.SaveRecipeRequest) error
}

// Ensure cookhub.Client implements API at compile time.
var _ API = (*cookhub.Client)(nil)

// Outcome is the result of a successful List.
type Outcome struct {
	Records []domain.SavedRecord
	Empty   bool
}

// Snapshot is a point-in-time copy of the mirror.
type Snapshot struct {
	OwnerID     int64
	Records     []domain.SavedRecord
	Loaded      bool
	LastUpdated time.Time
	LastError   error
}

// Repository lists and appends to a user's saved collection.
type Repository struct {
	api API
	log *slog.Logger
	now func() time.Time

	mu          sync.Mutex
	owner       int64
	epoch       uint64
	records     map[int64]domain.SavedRecord
	order       []int64
	loaded      bool
	lastUpdated time.Time
	lastErr     error
}

// NewRepository creates an empty repository.
func NewRepository(api API, log *slog.Logger) *Repository {
	if log == nil {
		log = slog.Default()
	}
	return &Repository{
		api:     api,
		log:     log,
		now:     time.Now,
		records: make(map[int64]domain.SavedRecord),
	}
}

// List fetches the identity's collection and replaces the mirror with it.
func (r *Repository) List(ctx context.Context, identity *domain.Identity) (Outcome, error) {
	if identity == nil || !identity.Valid() {
		return Outcome{}, fmt.Errorf("list saved recipes: %w", domain.ErrAuthRequired)
	}
	epoch := r.claim(identity.ID)

	recipes, err := r.api.ListSavedRecipes(ctx, identity.ID)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.epoch != epoch {
		r.log.Debug("dropping saved recipes for discarded mirror", "user_id", identity.ID)
		return Outcome{}, domain.ErrSuperseded
	}
	if err != nil {
		r.lastErr = err
		r.log.Warn("list saved recipes failed", "user_id", identity.ID, "kept", len(r.order), "error", err)
		return Outcome{}, err
	}

	r.records = make(map[int64]domain.SavedRecord, len(recipes))
	r.order = r.order[:0]
	for _, rec := range recipes {
		r.checkLists(rec)
		r.upsertLocked(domain.SavedRecord{
			RecipeID:     rec.RecipeID,
			Title:        rec.Title,
			ImageURL:     rec.ImageURL,
			Ingredients:  rec.Ingredients,
			Instructions: rec.Instructions,
		})
	}
	r.loaded = true
	r.lastErr = nil
	r.lastUpdated = r.now()
	r.log.Info("saved recipes loaded", "user_id", identity.ID, "count", len(r.order))

	records := r.orderedLocked()
	return Outcome{Records: records, Empty: len(records) == 0}, nil
}

// Save stores a recipe obtained from a search and adds it to the mirror once
// the API accepts it. Duplicate ids are left to the API.
func (r *Repository) Save(ctx context.Context, identity *domain.Identity, d domain.RecipeDetail) error {
	if identity == nil || !identity.Valid() {
		return fmt.Errorf("save recipe: %w", domain.ErrAuthRequired)
	}
	if d.Origin != domain.FromSearch {
		return domain.NewValidationError("recipe", "Only recipes found by a search can be saved")
	}
	epoch := r.claim(identity.ID)

	req := cookhub.SaveRecipeRequest{
		UserID:      identity.ID,
		ID:          d.RecipeID,
		Title:       d.Title,
		Ingredients: nonNil(d.Ingredients),
		Steps:       nonNil(d.Instructions),
		Image:       d.ImageURL,
	}
	if err := r.api.SaveRecipe(ctx, req); err != nil {
		r.log.Warn("save recipe failed", "user_id", identity.ID, "recipe_id", d.RecipeID, "error", err)
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.epoch != epoch {
		r.log.Debug("saved recipe not mirrored, collection was discarded", "recipe_id", d.RecipeID)
		return nil
	}
	r.upsertLocked(domain.SavedRecord{
		RecipeID:     d.RecipeID,
		Title:        d.Title,
		ImageURL:     d.ImageURL,
		Ingredients:  encodeList(d.Ingredients),
		Instructions: encodeList(d.Instructions),
	})
	r.lastUpdated = r.now()
	r.log.Info("recipe saved", "user_id", identity.ID, "recipe_id", d.RecipeID)
	return nil
}

// Record returns the mirrored entry for a recipe id.
func (r *Repository) Record(id int64) (domain.SavedRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	return rec, ok
}

// Reset discards the mirror.
func (r *Repository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.discardLocked()
	r.owner = 0
}

// Snapshot returns an ordered copy of the mirror.
func (r *Repository) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		OwnerID:     r.owner,
		Records:     r.orderedLocked(),
		Loaded:      r.loaded,
		LastUpdated: r.lastUpdated,
		LastError:   r.lastErr,
	}
}

// claim binds the mirror to owner, discarding it on a switch, and returns the
// epoch a response must still match to be applied.
func (r *Repository) claim(owner int64) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.owner != owner {
		if r.owner != 0 {
			r.log.Info("collection owner changed", "previous", r.owner, "user_id", owner)
		}
		r.discardLocked()
		r.owner = owner
	}
	return r.epoch
}

func (r *Repository) discardLocked() {
	r.epoch++
	r.records = make(map[int64]domain.SavedRecord)
	r.order = nil
	r.loaded = false
	r.lastUpdated = time.Time{}
	r.lastErr = nil
}

func (r *Repository) upsertLocked(rec domain.SavedRecord) {
	if _, ok := r.records[rec.RecipeID]; !ok {
		r.order = append(r.order, rec.RecipeID)
	}
	r.records[rec.RecipeID] = rec
}

func (r *Repository) orderedLocked() []domain.SavedRecord {
	out := make([]domain.SavedRecord, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.records[id])
	}
	return out
}

// checkLists logs stored lists that cannot be decoded. The record is still
// mirrored and shows zero items for the broken list.
func (r *Repository) checkLists(rec cookhub.SavedRecipe) {
	fields := []struct {
		name string
		raw  json.RawMessage
	}{
		{"ingredients", rec.Ingredients},
		{"instructions", rec.Instructions},
	}
	for _, f := range fields {
		if _, err := domain.NormalizeList(f.raw); err != nil {
			r.log.Warn("saved recipe list unreadable", "recipe_id", rec.RecipeID, "field", f.name, "error", err)
		}
	}
}

func encodeList(items []string) json.RawMessage {
	data, err := json.Marshal(nonNil(items))
	if err != nil {
		return json.RawMessage("[]")
	}
	return data
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return slices.Clone(items)
}
