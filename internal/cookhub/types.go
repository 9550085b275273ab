package cookhub

import "encoding/json"

// HealthResponse mirrors GET /.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// User mirrors the user object embedded in /login responses.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse mirrors POST /login.
type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	User    User   `json:"user"`
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse mirrors POST /register.
type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	UserID  int64  `json:"user_id"`
}

// SearchRequest is the body of POST /search_recipes.
type SearchRequest struct {
	Ingredients []string `json:"ingredients"`
}

// SearchHit is one element of the /search_recipes response array.
type SearchHit struct {
	ID                    int64  `json:"id"`
	Title                 string `json:"title"`
	Image                 string `json:"image"`
	UsedIngredientCount   int    `json:"usedIngredientCount"`
	MissedIngredientCount int    `json:"missedIngredientCount"`
}

// RecipeResponse mirrors GET /recipes/{id}. Ingredients and Steps are kept raw
// because the API sends either arrays or JSON-encoded text.
type RecipeResponse struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Image       string          `json:"image"`
	Ingredients json.RawMessage `json:"ingredients"`
	Steps       json.RawMessage `json:"steps"`
}

// SavedRecipe is one entry of GET /user/{id}/recipes.
type SavedRecipe struct {
	RecipeID     int64           `json:"recipe_id"`
	Title        string          `json:"title"`
	ImageURL     string          `json:"image_url"`
	Ingredients  json.RawMessage `json:"ingredients"`
	Instructions json.RawMessage `json:"instructions"`
}

// SavedRecipesResponse mirrors GET /user/{id}/recipes.
type SavedRecipesResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Recipes *[]SavedRecipe `json:"recipes"`
}

// SaveRecipeRequest is the body of POST /save_recipe.
type SaveRecipeRequest struct {
	UserID      int64    `json:"user_id"`
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	Image       string   `json:"image"`
}

// SuccessResponse is the generic {success, message} envelope.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// errorBody captures the message fields servers put in failure responses.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}
