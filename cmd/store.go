package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/windprox-cli/internal/store"
)

// initStore opens the run store and applies migrations.
func initStore(ctx context.Context) (store.Store, error) {
	if cfg.Store.Driver != "sqlite" {
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}

	path := cfg.Store.Path
	if path == "" {
		path = "windprox.db"
	}

	st, err := store.NewSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}
