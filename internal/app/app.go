package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/five82/cookhub/internal/config"
	"github.com/five82/cookhub/internal/cookhub"
	"github.com/five82/cookhub/internal/logging"
	"github.com/five82/cookhub/internal/prefs"
	"github.com/five82/cookhub/internal/session"
	"github.com/five82/cookhub/internal/state"
	"github.com/five82/cookhub/internal/ui"
	"github.com/five82/cookhub/internal/workflow"
)

// Options configure the cookhub application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/cookhub/prefs.toml
	APIURL     string // overrides the configured API base URL
}

// Run boots the cookhub TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.APIURL); v != "" {
		cfg.APIURL = v
	}

	logger, closer, err := logging.Open(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = closer.Close() }()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn("load preferences failed", "error", err)
	}

	client, err := cookhub.NewClient(cfg.APIURL,
		cookhub.WithTimeout(cfg.RequestTimeout),
		cookhub.WithLogger(logger.With("component", "api")),
	)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	sessions := session.NewStore(cfg.IdentityPath(), logger.With("component", "session"))
	coord := workflow.New(client, sessions, logger.With("component", "workflow"))
	coord.Restore()

	logger.Info("cookhub starting", "api", client.BaseURL(), "state", cfg.IdentityPath())

	health := &state.Store{}
	StartHealthPoller(ctx, health, client, cfg.HealthInterval, logger.With("component", "health"))

	return ui.Run(ui.Options{
		Context:   ctx,
		Workflow:  coord,
		Health:    health,
		APIURL:    client.BaseURL(),
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
	})
}
