package cookhub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/five82/cookhub/internal/domain"
)

// Client talks to the CookHub HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	log       *slog.Logger
}

const (
	defaultAPIURL    = "http://127.0.0.1:5000"
	defaultUserAgent = "cookhub/0.1"
	defaultTimeout   = 10 * time.Second
	maxResponseBytes = 4 << 20
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the transport timeout applied to every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger routes request logging to l.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient builds a Client for the API rooted at apiURL.
func NewClient(apiURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Health retrieves service status from the API root.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var payload HealthResponse
	if err := c.do(ctx, "health", http.MethodGet, "/", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Login authenticates a user and returns the account record.
func (c *Client) Login(ctx context.Context, req LoginRequest) (User, error) {
	const op = "login"
	var payload LoginResponse
	if err := c.do(ctx, op, http.MethodPost, "/login", req, &payload); err != nil {
		return User{}, err
	}
	if !payload.Success {
		return User{}, rejected(op, payload.Message)
	}
	return payload.User, nil
}

// Register creates an account and returns the new user id.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (int64, error) {
	const op = "register"
	var payload RegisterResponse
	if err := c.do(ctx, op, http.MethodPost, "/register", req, &payload); err != nil {
		return 0, err
	}
	if !payload.Success {
		return 0, rejected(op, payload.Message)
	}
	return payload.UserID, nil
}

// SearchRecipes finds recipes matching the given ingredients.
func (c *Client) SearchRecipes(ctx context.Context, ingredients []string) ([]SearchHit, error) {
	const op = "search recipes"
	var hits *[]SearchHit
	req := SearchRequest{Ingredients: ingredients}
	if err := c.do(ctx, op, http.MethodPost, "/search_recipes", req, &hits); err != nil {
		return nil, err
	}
	if hits == nil {
		return nil, malformed(op, "result list is null")
	}
	return *hits, nil
}

// FetchRecipe retrieves the full record of a search hit.
func (c *Client) FetchRecipe(ctx context.Context, id int64) (*RecipeResponse, error) {
	var payload RecipeResponse
	path := "/recipes/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, "fetch recipe", http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ListSavedRecipes retrieves a user's saved collection.
func (c *Client) ListSavedRecipes(ctx context.Context, userID int64) ([]SavedRecipe, error) {
	const op = "list saved recipes"
	var payload SavedRecipesResponse
	path := "/user/" + strconv.FormatInt(userID, 10) + "/recipes"
	if err := c.do(ctx, op, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	if !payload.Success {
		return nil, rejected(op, payload.Message)
	}
	if payload.Recipes == nil {
		return nil, malformed(op, "recipes missing from response")
	}
	return *payload.Recipes, nil
}

// SaveRecipe adds a recipe to a user's collection.
func (c *Client) SaveRecipe(ctx context.Context, req SaveRecipeRequest) error {
	const op = "save recipe"
	var payload SuccessResponse
	if err := c.do(ctx, op, http.MethodPost, "/save_recipe", req, &payload); err != nil {
		return err
	}
	if !payload.Success {
		return rejected(op, payload.Message)
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("api request failed",
			"op", op,
			"request_id", requestID,
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return &domain.APIError{Kind: domain.ErrNetwork, Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &domain.APIError{Kind: domain.ErrNetwork, Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	c.log.Debug("api request",
		"op", op,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		kind := domain.ErrServer
		if resp.StatusCode == http.StatusNotFound {
			kind = domain.ErrNotFound
		}
		return &domain.APIError{Kind: kind, Op: op, Status: resp.StatusCode, Message: errorMessage(data)}
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return &domain.APIError{Kind: domain.ErrServer, Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// rejected reports a 2xx response whose envelope says success=false.
func rejected(op, message string) error {
	return &domain.APIError{Kind: domain.ErrServer, Op: op, Status: http.StatusOK, Message: strings.TrimSpace(message)}
}

// malformed reports a 2xx response that lacks the data it must carry.
func malformed(op, reason string) error {
	return &domain.APIError{Kind: domain.ErrServer, Op: op, Status: http.StatusOK, Err: fmt.Errorf("decode response: %s", reason)}
}

func errorMessage(data []byte) string {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.text())
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", apiURL)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
