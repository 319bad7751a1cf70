package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/impact-cli/internal/config"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("none", func(t *testing.T) {
		st, err := New(ctx, config.StoreConfig{Driver: DriverNone})
		require.NoError(t, err)
		assert.Nil(t, st)
	})

	t.Run("sqlite", func(t *testing.T) {
		st, err := New(ctx, config.StoreConfig{Driver: DriverSQLite, DatabaseURL: filepath.Join(t.TempDir(), "h.db")})
		require.NoError(t, err)
		t.Cleanup(func() { st.Close() }) //nolint:errcheck
		_, ok := st.(*SQLiteStore)
		assert.True(t, ok)
		assert.NoError(t, st.Migrate(ctx))
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := New(ctx, config.StoreConfig{Driver: "mysql"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown driver "mysql"`)
	})

	t.Run("postgres bad url", func(t *testing.T) {
		_, err := New(ctx, config.StoreConfig{Driver: DriverPostgres, DatabaseURL: "://not a url"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "postgres: parse config")
	})
}

func TestAnalysisFilter_Limit(t *testing.T) {
	assert.Equal(t, defaultListLimit, AnalysisFilter{}.limit())
	assert.Equal(t, defaultListLimit, AnalysisFilter{Limit: -3}.limit())
	assert.Equal(t, 7, AnalysisFilter{Limit: 7}.limit())
}
