package testsupport

import (
	"testing"

	"clipdeck/internal/config"
	"clipdeck/internal/store"
)

// MustOpenStore opens the config's store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	s, err := store.Open(cfg.StorePath())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}
