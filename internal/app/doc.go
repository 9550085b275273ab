// Package app is the composition root for cookhub.
//
// Run wires the pieces together in this order:
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()          Read config.toml, apply overrides
//	       ├─────> logging.Open()         slog to <state_dir>/cookhub.log
//	       ├─────> prefs.Load()           Theme and last username
//	       ├─────> cookhub.NewClient()    HTTP client for the recipe API
//	       ├─────> session.NewStore()     Persisted identity slot
//	       ├─────> workflow.New()         Coordinator, then Restore()
//	       ├─────> StartHealthPoller()    Background API health checks
//	       └─────> ui.Run()               Bubble Tea program (blocks)
//
// Logs go to a file because the terminal belongs to the UI.
//
// # Health Polling
//
// The poller checks GET / at the configured interval (default 30s).
// Each consecutive failure doubles the wait, capped at five minutes, and a
// success resets it. Results land in a state.Store that the header reads on
// every UI tick. Poll failures are logged and never stop the program.
//
// # Errors
//
// Run returns an error only for startup problems: an unreadable or invalid
// config file, an unusable log path, or a malformed API URL. Everything that
// happens against the API afterwards is reported in the UI.
package app
