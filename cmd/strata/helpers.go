// Shared helpers for strata CLI commands.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/strata/internal/logger"
	"github.com/mesh-intelligence/strata/internal/sqlite"
	"github.com/mesh-intelligence/strata/pkg/engine"
	"github.com/mesh-intelligence/strata/pkg/types"
)

// attachBackend resolves the data directory, creates a SQLite backend, and
// attaches it. The caller must defer backend.Detach().
func attachBackend() (*sqlite.Backend, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	return backend, nil
}

// newLogger builds the service logger from the loaded CLI settings.
func newLogger() zerolog.Logger {
	cfg := logger.Config{Level: defaultLogLevel}
	if cliConfig != nil {
		cfg.Level = cliConfig.LogLevel
		cfg.Pretty = cliConfig.LogPretty
	}
	return logger.New(cfg)
}

// buildEngine attaches the backend and wires an engine on top of it.
// The caller must defer backend.Detach().
func buildEngine(log zerolog.Logger) (*engine.Engine, *sqlite.Backend, error) {
	backend, err := attachBackend()
	if err != nil {
		return nil, nil, err
	}

	eng, err := engine.New(backend, logger.Component(log, "engine"))
	if err != nil {
		backend.Detach()
		return nil, nil, fmt.Errorf("build engine: %w", err)
	}

	return eng, backend, nil
}
