package detail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/five82/cookhub/internal/cookhub"
	"github.com/five82/cookhub/internal/domain"
	"github.com/five82/cookhub/internal/logging"
)

type fixedIdentity bool

func (f fixedIdentity) Current() (domain.Identity, bool) {
	if !f {
		return domain.Identity{}, false
	}
	return domain.Identity{ID: 7, Username: "ana"}, true
}

type fetcherFunc func(ctx context.Context, id int64) (*cookhub.RecipeResponse, error)

func (f fetcherFunc) FetchRecipe(ctx context.Context, id int64) (*cookhub.RecipeResponse, error) {
	return f(ctx, id)
}

func newTestServer(t *testing.T) *cookhub.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/recipes/5":
			_, _ = w.Write([]byte(`{"id":5,"title":"Shakshuka","image":"s.jpg",` +
				`"ingredients":[{"original":"2 eggs"},"1 can tomatoes"],` +
				`"steps":"[\"Simmer sauce\",\"Crack eggs\",\"Cover\"]"}`))
		case "/recipes/6":
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":"upstream unavailable"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Recipe not found"}`))
		}
	}))
	t.Cleanup(srv.Close)

	client, err := cookhub.NewClient(srv.URL, cookhub.WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestLoad_NormalizesBothShapes(t *testing.T) {
	l := NewLoader(newTestServer(t), fixedIdentity(true), logging.Discard())

	d, err := l.Load(context.Background(), 5)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if d.Origin != domain.FromSearch || !d.CanSave() {
		t.Fatalf("Origin = %v, want search", d.Origin)
	}
	if d.Title != "Shakshuka" || d.ImageURL != "s.jpg" || d.RecipeID != 5 {
		t.Fatalf("detail = %#v", d)
	}
	if !slices.Equal(d.Ingredients, []string{"2 eggs", "1 can tomatoes"}) {
		t.Fatalf("Ingredients = %v", d.Ingredients)
	}
	if d.StepCount() != 3 || d.Instructions[1] != "Crack eggs" {
		t.Fatalf("Instructions = %v", d.Instructions)
	}
}

func TestLoad_FailureKinds(t *testing.T) {
	l := NewLoader(newTestServer(t), fixedIdentity(true), logging.Discard())

	_, err := l.Load(context.Background(), 404)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Load(404) error = %v, want ErrNotFound", err)
	}

	_, err = l.Load(context.Background(), 6)
	if !errors.Is(err, domain.ErrServer) || errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Load(6) error = %v, want ErrServer only", err)
	}
	if got := domain.UserMessage(err, "failed"); got != "upstream unavailable" {
		t.Fatalf("UserMessage = %q", got)
	}
}

func TestLoad_RequiresIdentity(t *testing.T) {
	called := false
	api := fetcherFunc(func(context.Context, int64) (*cookhub.RecipeResponse, error) {
		called = true
		return &cookhub.RecipeResponse{}, nil
	})
	l := NewLoader(api, fixedIdentity(false), logging.Discard())

	if _, err := l.Load(context.Background(), 1); !errors.Is(err, domain.ErrAuthRequired) {
		t.Fatalf("Load error = %v, want ErrAuthRequired", err)
	}
	if called {
		t.Fatal("Load issued a request without identity")
	}
}

func TestFromSaved_RecoversMalformedLists(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoader(nil, fixedIdentity(false), logging.New(&buf, slog.LevelWarn))

	d := l.FromSaved(domain.SavedRecord{
		RecipeID:     12,
		Title:        "Toast",
		Ingredients:  json.RawMessage(`"not json"`),
		Instructions: json.RawMessage(`["Toast bread"," ","Butter it"]`),
	})

	if d.Origin != domain.FromSavedCollection || d.CanSave() {
		t.Fatalf("Origin = %v, want collection", d.Origin)
	}
	if d.Ingredients == nil || d.IngredientCount() != 0 {
		t.Fatalf("Ingredients = %#v, want empty non-nil", d.Ingredients)
	}
	if !slices.Equal(d.Instructions, []string{"Toast bread", "Butter it"}) {
		t.Fatalf("Instructions = %v", d.Instructions)
	}
	if !strings.Contains(buf.String(), "recipe list decode failed") {
		t.Fatalf("decode failure not logged: %q", buf.String())
	}
}
