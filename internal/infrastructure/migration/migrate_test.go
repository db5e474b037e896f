package migration

import (
	"testing"
	"testing/fstest"

	"github.com/storeadmin/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_EmbeddedMigrations(t *testing.T) {
	names, err := List(migrations.FS)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"000001_init_schema",
		"000002_processed_webhook_events",
	}, names)
}

func TestList(t *testing.T) {
	t.Run("sorted by version", func(t *testing.T) {
		fsys := fstest.MapFS{
			"000002_b.up.sql":   {Data: []byte("SELECT 1;")},
			"000002_b.down.sql": {Data: []byte("SELECT 1;")},
			"000001_a.up.sql":   {Data: []byte("SELECT 1;")},
			"000001_a.down.sql": {Data: []byte("SELECT 1;")},
			"README.md":         {Data: []byte("docs")},
		}

		names, err := List(fsys)

		require.NoError(t, err)
		assert.Equal(t, []string{"000001_a", "000002_b"}, names)
	})

	t.Run("missing down file", func(t *testing.T) {
		_, err := List(fstest.MapFS{"000001_a.up.sql": {Data: []byte("SELECT 1;")}})
		assert.ErrorContains(t, err, "000001_a has no down file")
	})

	t.Run("missing up file", func(t *testing.T) {
		_, err := List(fstest.MapFS{"000001_a.down.sql": {Data: []byte("SELECT 1;")}})
		assert.ErrorContains(t, err, "000001_a has no up file")
	})

	t.Run("empty source", func(t *testing.T) {
		names, err := List(fstest.MapFS{})
		require.NoError(t, err)
		assert.Empty(t, names)
	})
}
