package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"vsm/config"
	"vsm/internal/adapter/cache"
	"vsm/internal/adapter/store"
	"vsm/internal/logging"
	"vsm/internal/metrics"
	"vsm/internal/usecase"
)

var errNoCorpus = errors.New("no corpus found. Run 'vsm load' first")

// openStore opens the corpus database under the root directory, creating it
// when create is set, and brings its schema up to date.
func openStore(create bool) (*store.BoltStore, error) {
	dir := GetRootDir()
	dbPath := config.CorpusDBPath(dir)

	if !create {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, errNoCorpus
		}
	} else if err := config.EnsureVSMDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create .vsm directory: %w", err)
	}

	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus store: %w", err)
	}

	result, err := st.CheckMigration()
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to check migration: %w", err)
	}

	switch {
	case result.NeedsRebuild:
		st.Close()
		return nil, fmt.Errorf("corpus at %s cannot be used: %s", dbPath, result.Reason)
	case result.NeedsMigration:
		logger.WithField("reason", result.Reason).Info("running schema migration")
		if err := st.Migrate(); err != nil {
			st.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}

	return st, nil
}

// newRanker builds the ranking use case over st and loads the index.
func newRanker(st *store.BoltStore, m *metrics.Metrics) (*usecase.RankUseCase, error) {
	cfg := GetConfig()

	var queryCache *cache.QueryCache
	if cfg.Cache.Enabled {
		queryCache = cache.NewQueryCache(cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}

	ranker := usecase.NewRankUseCase(st, queryCache, m, logging.WithComponent(logger, "rank"))
	if _, err := ranker.Reload(); err != nil {
		return nil, err
	}
	return ranker, nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
