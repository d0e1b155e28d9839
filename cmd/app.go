package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/blob"
	"github.com/abhisek/pathwise/internal/config"
	"github.com/abhisek/pathwise/internal/engine"
	"github.com/abhisek/pathwise/internal/grading"
	"github.com/abhisek/pathwise/internal/logger"
	"github.com/abhisek/pathwise/internal/store"
)

// app holds the dependencies a command needs.
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	store  *store.Store
	engine *engine.Engine
}

// openApp resolves configuration, opens the store and builds the engine.
// Flags beat environment variables, which beat the config file.
func openApp(cmd *cobra.Command) (*app, error) {
	file, _ := cmd.Flags().GetString("config")
	v, err := config.New(file)
	if err != nil {
		return nil, err
	}
	for key, flag := range map[string]string{"db": "db", "log_mode": "log-mode"} {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind --%s: %w", flag, err)
			}
		}
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.ResolvePaths(); err != nil {
		return nil, fmt.Errorf("resolve paths: %w", err)
	}
	if err := store.EnsureDir(cfg.DB); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	blobs, err := blob.NewDirStore(cfg.BlobDir)
	if err != nil {
		st.Close()
		return nil, err
	}

	eng := engine.NewFromStore(st, blobs, grading.ArchiveGrader{}, log, engine.Options{
		DashboardLimit: cfg.DashboardLimit,
		PassScore:      cfg.PassScore,
	})
	log.Debug("store opened", "dialect", st.Dialect(), "blob_dir", cfg.BlobDir)
	return &app{cfg: cfg, log: log, store: st, engine: eng}, nil
}

func (a *app) Close() {
	a.store.Close()
	a.log.Sync()
}

func parseID(what, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID %q", what, s)
	}
	return id, nil
}

// userFlag reads the required --user flag.
func userFlag(cmd *cobra.Command) (int64, error) {
	id, _ := cmd.Flags().GetInt64("user")
	if id <= 0 {
		return 0, fmt.Errorf("--user is required")
	}
	return id, nil
}
