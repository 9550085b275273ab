// Package detail resolves recipes into displayable RecipeDetail values,
// either from the API or from an already loaded saved record.
package detail

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/five82/cookhub/internal/cookhub"
	"github.com/five82/cookhub/internal/domain"
)

// Fetcher retrieves a full recipe record.
type Fetcher interface {
	FetchRecipe(ctx context.Context, id int64) (*cookhub.RecipeResponse, error)
}

// Ensure cookhub.Client implements Fetcher at compile time.
var _ Fetcher = (*cookhub.Client)(nil)

// IdentitySource reports the current login identity.
type IdentitySource interface {
	Current() (domain.Identity, bool)
}

// Loader builds RecipeDetail values.
type Loader struct {
	api Fetcher
	ids IdentitySource
	log *slog.Logger
}

// NewLoader creates a Loader. A nil logger uses slog.Default.
func NewLoader(api Fetcher, ids IdentitySource, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{api: api, ids: ids, log: log}
}

// Load fetches the recipe behind a search result.
func (l *Loader) Load(ctx context.Context, id int64) (domain.RecipeDetail, error) {
	if _, ok := l.ids.Current(); !ok {
		return domain.RecipeDetail{}, fmt.Errorf("fetch recipe: %w", domain.ErrAuthRequired)
	}

	resp, err := l.api.FetchRecipe(ctx, id)
	if err != nil {
		l.log.Warn("fetch recipe failed", "recipe_id", id, "error", err)
		return domain.RecipeDetail{}, err
	}

	recipeID := resp.ID
	if recipeID == 0 {
		recipeID = id
	}
	return domain.RecipeDetail{
		RecipeID:     recipeID,
		Title:        resp.Title,
		ImageURL:     resp.Image,
		Ingredients:  l.normalize(recipeID, "ingredients", resp.Ingredients),
		Instructions: l.normalize(recipeID, "steps", resp.Steps),
		Origin:       domain.FromSearch,
	}, nil
}

// FromSaved converts a saved collection entry without any I/O.
func (l *Loader) FromSaved(rec domain.SavedRecord) domain.RecipeDetail {
	return domain.RecipeDetail{
		RecipeID:     rec.RecipeID,
		Title:        rec.Title,
		ImageURL:     rec.ImageURL,
		Ingredients:  l.normalize(rec.RecipeID, "ingredients", rec.Ingredients),
		Instructions: l.normalize(rec.RecipeID, "instructions", rec.Instructions),
		Origin:       domain.FromSavedCollection,
	}
}

func (l *Loader) normalize(recipeID int64, field string, raw json.RawMessage) []string {
	items, err := domain.NormalizeList(raw)
	if err != nil {
		l.log.Warn("recipe list decode failed", "recipe_id", recipeID, "field", field, "error", err)
	}
	return items
}
