package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ozymandias/internal/apperr"
	"ozymandias/internal/config"
	"ozymandias/internal/domain"
)

func TestNewWire_RequiresInitialisedHome(t *testing.T) {
	home := filepath.Join(t.TempDir(), "missing")
	_, err := NewWire(context.Background(), Config{Home: home})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConfig, apperr.KindOf(err))
}

func TestNewWire_InvalidSettings(t *testing.T) {
	settings := config.DefaultConfig()
	settings.Storage.Backend = "postgres"
	_, err := NewWire(context.Background(), Config{Home: t.TempDir(), Settings: settings})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConfig, apperr.KindOf(err))
}

func TestWorkspaceThenWire(t *testing.T) {
	ctx := context.Background()
	home := filepath.Join(t.TempDir(), "kb")
	settings := config.DefaultConfig()
	settings.Storage.Backend = config.BackendFile

	ws, err := NewWorkspace(Config{Home: home, Settings: settings})
	require.NoError(t, err)
	_, err = ws.Initialize(ctx)
	require.NoError(t, err)

	w, err := NewWire(ctx, Config{Home: home, Settings: settings})
	require.NoError(t, err)
	defer func() { require.NoError(t, w.Close()) }()

	note := filepath.Join(home, "note.md")
	require.NoError(t, os.WriteFile(note, []byte("# Note\nwired end to end\n"), 0o600))
	res, err := w.Knowledge.Ingest(ctx, note)
	require.NoError(t, err)
	assert.Equal(t, domain.IngestAdded, res.Status)

	docs, err := w.Store.List(ctx, domain.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.NotNil(t, w.Watcher(home))
}

func TestDefaultHome(t *testing.T) {
	t.Setenv(HomeEnv, "/tmp/ozy-test-home")
	home, err := DefaultHome()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/ozy-test-home", home)
}
