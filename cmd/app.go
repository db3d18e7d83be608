// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"mbcli/cli/internal/auth"
	"mbcli/cli/internal/config"
	apperrors "mbcli/cli/internal/errors"
	"mbcli/cli/internal/httperrors"
	"mbcli/cli/internal/keychain"
	"mbcli/cli/internal/logging"
	"mbcli/cli/internal/metabase"
)

// app bundles what every command needs: settings, logger, client and session service.
type app struct {
	cfg    config.Config
	log    *slog.Logger
	client *metabase.Client
	svc    *auth.Service
}

// newApp builds the client for creds. Client status lines go to out.
func newApp(creds config.Credentials, out io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	log := logging.NewLogger(os.Stderr, level)
	slog.SetDefault(log)

	client := metabase.New(creds.URL, creds.Username, creds.Password,
		metabase.WithOutput(out),
		metabase.WithLogger(log),
		metabase.WithTimeouts(cfg.Timeouts.Durations()),
	)
	return &app{
		cfg:    cfg,
		log:    log,
		client: client,
		svc:    auth.NewService(client, keychainManager(log)),
	}, nil
}

// keychainManager returns the OS keychain, or an in-memory store when the
// keychain is unavailable; sessions then last for a single invocation.
func keychainManager(log *slog.Logger) *keychain.Manager {
	km, err := keychain.GetManager()
	if err != nil {
		log.Debug("keychain unavailable, session will not persist", "error", err)
		return keychain.NewManagerWithBackend(keychain.NewMemoryBackend())
	}
	return km
}

// openSession resolves credentials, builds the client and makes sure it holds
// a session token, reusing the stored one when possible.
func openSession(ctx context.Context, out io.Writer) (*app, error) {
	creds, err := config.LoadCredentials()
	if err != nil {
		return nil, err
	}
	a, err := newApp(creds, out)
	if err != nil {
		return nil, err
	}
	if err := a.svc.EnsureSession(ctx); err != nil {
		return nil, a.explain(err, "authenticating")
	}
	return a, nil
}

// explain shows a troubleshooting screen for transport failures and returns err.
func (a *app) explain(err error, action string) error {
	if apperrors.Is(err, apperrors.Transport) {
		httperrors.Display(os.Stderr, err, action, a.client.BaseURL())
	}
	return err
}

// parseDatabaseID parses a positive database id argument.
func parseDatabaseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid database id %q: must be a positive integer", arg)
	}
	return id, nil
}

// exportPath returns the target file for a schema export. An explicit path
// wins; otherwise schema_db_<id>.json is placed in dir (or the working directory).
func exportPath(explicit, dir string, databaseID int) string {
	if explicit != "" {
		return explicit
	}
	name := fmt.Sprintf("schema_db_%d.json", databaseID)
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}
