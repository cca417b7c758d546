package e2e

import (
	"context"
	"os"
	"path/filepath"

	"github.com/jisooooooooooo/sportus/internal/store"
)

// seedToken stores the access token in a fresh data directory.
func seedToken(dataDir, token string) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}
	st, err := store.Open(filepath.Join(dataDir, "sportus.db"))
	if err != nil {
		return err
	}
	defer st.Close()
	return st.SetAccessToken(context.Background(), token)
}
