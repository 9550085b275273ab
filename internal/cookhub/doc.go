// Package cookhub provides an HTTP client for the CookHub recipe API.
//
// # Overview
//
// The API is a small JSON service that authenticates users, matches recipes
// against an ingredient list, resolves recipe details, and stores a per-user
// collection of saved recipes. This package only speaks the wire protocol;
// session rules (who may call what, when) live in the session, search,
// detail and collection packages.
//
// # Files
//
//   - client.go: Client construction, endpoint methods, request plumbing
//   - types.go: request and response structs mirroring the API schema
//
// # Client Usage
//
//	client, err := cookhub.NewClient(cfg.APIURL, cookhub.WithTimeout(cfg.RequestTimeout))
//	if err != nil {
//		return fmt.Errorf("init cookhub client: %w", err)
//	}
//
//	user, err := client.Login(ctx, cookhub.LoginRequest{Username: "ana", Password: pw})
//
// # API Endpoints
//
//   - GET  /                      health and version
//   - POST /login                 {username, password}
//   - POST /register              {username, email, password}
//   - POST /search_recipes        {ingredients: [...]}
//   - GET  /recipes/{id}          full recipe
//   - GET  /user/{userId}/recipes saved collection
//   - POST /save_recipe           {user_id, id, title, ingredients, steps, image}
//
// # Request Handling
//
// Every request carries the caller's context, Accept and User-Agent headers,
// and a fresh X-Request-ID (UUIDv4) that is also attached to the debug log
// record for the call. The transport timeout defaults to 10 seconds and is
// set from configuration with WithTimeout.
//
// # Error Handling
//
// Failures are returned as *domain.APIError whose Kind is one of:
//
//   - domain.ErrNetwork: no response (refused, DNS, timeout, cancelled)
//   - domain.ErrNotFound: HTTP 404
//   - domain.ErrServer: any other non-2xx status, a malformed body, or a 2xx
//     envelope with success=false
//
// Server-supplied "message" (or "error") text is copied into APIError.Message
// so the UI can show it verbatim. A failure is never reported as an empty
// result.
package cookhub
