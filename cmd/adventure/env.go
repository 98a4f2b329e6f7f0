package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-adventure/internal/config"
	"github.com/vovakirdan/tui-adventure/internal/snapshot"
	"github.com/vovakirdan/tui-adventure/internal/storage"
	"github.com/vovakirdan/tui-adventure/internal/tilemap"
	"github.com/vovakirdan/tui-adventure/internal/world"
)

// env is everything a command shares: the logger, the run database and the
// snapshot store every world saves into.
type env struct {
	logger *log.Logger
	runs   *storage.Store // nil if the database could not be opened
	saves  *snapshot.BufferedStore
	logOut io.Closer
}

// openEnv wires flags into the world package. interactive commands own the
// terminal, so their log is discarded unless --log is given.
func openEnv(interactive bool) (*env, error) {
	e := &env{}

	var out io.Writer = os.Stderr
	if interactive {
		out = io.Discard
	}
	if flagLogFile != "" {
		f, err := os.OpenFile(expandHome(flagLogFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("cannot open log file: %w", err)
		}
		out = f
		e.logOut = f
	}
	e.logger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "adventure",
	})
	if flagDebug {
		e.logger.SetLevel(log.DebugLevel)
	}

	runs, err := storage.Open(flagDBPath)
	if err != nil {
		e.logger.Warn("could not open run database", "path", flagDBPath, "err", err)
		if interactive {
			fmt.Fprintf(os.Stderr, "Warning: could not open run database: %v\n", err)
		}
	} else {
		e.runs = runs
	}

	backend, err := e.snapshotBackend()
	if err != nil {
		e.close()
		return nil, err
	}
	e.saves = snapshot.NewStore(backend, e.logger)

	world.SetConfigPath(flagConfig)
	world.SetDifficultyPreset(flagDifficulty)
	world.SetStore(e.saves)
	world.SetLogger(e.logger)

	e.loadUserMaps()
	return e, nil
}

func (e *env) snapshotBackend() (snapshot.Backend, error) {
	switch flagStore {
	case "file":
		return snapshot.NewFileBackend(expandHome(flagSavesDir))
	case "sqlite":
		if e.runs == nil {
			return nil, errors.New("--store sqlite needs the database from --db")
		}
		return e.runs.Snapshots(), nil
	case "memory":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown --store %q (want file, sqlite or memory)", flagStore)
	}
}

// loadUserMaps registers maps from --maps or ~/.adventure/maps. Built-in
// ids win over user maps with the same id.
func (e *env) loadUserMaps() {
	dir := flagMapsDir
	if dir == "" {
		dir = config.UserDir()
		if dir == "" {
			return
		}
		dir = filepath.Join(dir, "maps")
		if _, err := os.Stat(dir); err != nil {
			return
		}
	}

	maps, err := tilemap.NewLoader(expandHome(dir)).LoadAll()
	if err != nil {
		e.logger.Warn("could not load user maps", "dir", dir, "err", err)
		return
	}
	added := world.RegisterMaps(maps)
	e.logger.Debug("user maps loaded", "dir", dir, "found", len(maps), "added", added)
}

// close flushes pending snapshots and releases everything openEnv opened.
func (e *env) close() error {
	var err error
	if e.saves != nil {
		err = e.saves.Flush()
	}
	if e.runs != nil {
		err = errors.Join(err, e.runs.Close())
	}
	if e.logOut != nil {
		e.logOut.Close() //nolint:errcheck
	}
	return err
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
