// Package ui provides the terminal interface for cookhub.
//
// The UI is a Bubble Tea program. Model holds only presentation state (focus,
// selected rows, form fields, theme) and a copy of the workflow state taken
// after every applied outcome. All behavior lives behind the Workflow
// interface; the UI never talks to the API directly.
//
// Operations that reach the network (login, registration, search, opening a
// recipe, saving, loading the collection) run as tea.Cmd functions and report
// back through an outcomeMsg. Local operations such as adding an ingredient
// are applied synchronously. An outcome of kind Superseded refreshes state but
// leaves the notice line untouched.
//
// # Views
//
//   - home: entry point, shows login or navigation hints
//   - authenticate / register: forms; tab moves between fields
//   - search: ingredient input, ingredient list and results panes
//   - recipeDetail: scrollable recipe, S saves recipes found by search
//   - collection: the user's saved recipes, R reloads
//
// # Header
//
// The header reads API health from state.Store on every tick. The API is
// shown offline after two consecutive failed checks.
//
// Letter shortcuts are ignored while a text field has focus; press esc to
// leave the field first. ctrl+t cycles the theme, and the choice is saved to
// the preferences file along with the last username.
package ui
