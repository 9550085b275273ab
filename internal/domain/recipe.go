package domain

import (
	"encoding/json"
	"strings"
)

// Identity is the authenticated user.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Valid reports whether the identity is usable for recipe requests.
func (i Identity) Valid() bool {
	return i.ID > 0 && strings.TrimSpace(i.Username) != ""
}

// SearchResult is one summary returned by an ingredient search.
type SearchResult struct {
	ID                    int64
	Title                 string
	ImageURL              string
	UsedIngredientCount   int
	MissedIngredientCount int
}

// Origin records where a RecipeDetail came from.
type Origin int

const (
	OriginUnknown Origin = iota
	FromSearch
	FromSavedCollection
)

func (o Origin) String() string {
	switch o {
	case FromSearch:
		return "search"
	case FromSavedCollection:
		return "collection"
	default:
		return "unknown"
	}
}

// RecipeDetail is a fully resolved recipe ready for display.
type RecipeDetail struct {
	RecipeID     int64
	Title        string
	ImageURL     string
	Ingredients  []string
	Instructions []string
	Origin       Origin
}

// CanSave reports whether the recipe may be added to the collection.
func (d RecipeDetail) CanSave() bool {
	return d.Origin == FromSearch
}

// IngredientCount is derived from the ingredient list on every call.
func (d RecipeDetail) IngredientCount() int { return len(d.Ingredients) }

// StepCount is derived from the instruction list on every call.
func (d RecipeDetail) StepCount() int { return len(d.Instructions) }

// SavedRecord is an entry of a user's saved collection. The list fields keep
// the payload as the API returned it.
type SavedRecord struct {
	RecipeID     int64
	Title        string
	ImageURL     string
	Ingredients  json.RawMessage
	Instructions json.RawMessage
}

// IngredientCount returns the number of normalized ingredients; undecodable
// payloads count as zero.
func (r SavedRecord) IngredientCount() int {
	items, _ := NormalizeList(r.Ingredients)
	return len(items)
}

// StepCount returns the number of normalized instructions.
func (r SavedRecord) StepCount() int {
	items, _ := NormalizeList(r.Instructions)
	return len(items)
}
