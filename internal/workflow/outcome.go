// Package workflow drives the recipe client through its views in response
// to user actions.
package workflow

// View names a screen of the client.
type View string

const (
	ViewHome         View = "home"
	ViewAuthenticate View = "authenticate"
	ViewRegister     View = "register"
	ViewSearch       View = "search"
	ViewRecipeDetail View = "recipeDetail"
	ViewCollection   View = "collection"
)

// Kind classifies an Outcome.
type Kind int

const (
	OK Kind = iota
	NoMatches
	Empty
	Redirected
	Failed
	// Superseded marks a result that arrived after a newer action or a
	// session change; it was not applied.
	Superseded
)

func (k Kind) String() string {
	switch k {
	case OK:
		return "ok"
	case NoMatches:
		return "no-matches"
	case Empty:
		return "empty"
	case Redirected:
		return "redirected"
	case Failed:
		return "failed"
	case Superseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// Outcome is what every coordinator action reports. Err carries the
// underlying cause for logging and tests; Message is safe to display.
type Outcome struct {
	View    View
	Kind    Kind
	Message string
	Err     error
}
