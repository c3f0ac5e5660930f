package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sluice/internal/adapters/file"
	"github.com/aretw0/sluice/pkg/domain"
	"github.com/aretw0/sluice/pkg/ports"
)

var _ ports.ScenarioStore = (*file.Store)(nil)

func TestStore_SaveLoadRoundtrip(t *testing.T) {
	store := file.NewStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "demo", []byte("nodes: []")))

	doc, err := store.Load(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, "nodes: []", string(doc))

	// Documents land as .yaml files.
	_, err = os.Stat(filepath.Join(store.BasePath, "demo.yaml"))
	assert.NoError(t, err)
}

func TestStore_CreatesDirectoryOnSave(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "scenarios")
	store := file.NewStore(base)

	require.NoError(t, store.Save(context.Background(), "demo", []byte("x")))
	_, err := os.Stat(base)
	assert.NoError(t, err)
}

func TestStore_LoadMissing(t *testing.T) {
	store := file.NewStore(t.TempDir())
	_, err := store.Load(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrScenarioNotFound)
}

func TestStore_EmptyNameRejected(t *testing.T) {
	store := file.NewStore(t.TempDir())
	assert.Error(t, store.Save(context.Background(), "", []byte("x")))
	_, err := store.Load(context.Background(), "")
	assert.Error(t, err)
}

func TestStore_Delete(t *testing.T) {
	store := file.NewStore(t.TempDir())
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "demo", []byte("x")))

	require.NoError(t, store.Delete(ctx, "demo"))
	_, err := store.Load(ctx, "demo")
	assert.ErrorIs(t, err, domain.ErrScenarioNotFound)

	assert.NoError(t, store.Delete(ctx, "demo"), "deleting a missing document is tolerated")
}

func TestStore_ListSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	store := file.NewStore(dir)
	ctx := context.Background()

	for _, name := range []string{"zulu", "alpha"} {
		require.NoError(t, store.Save(ctx, name, []byte("x")))
	}
	// Unrelated files and directories are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yaml"), 0o755))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zulu"}, names)
}

func TestStore_ListMissingDirectory(t *testing.T) {
	store := file.NewStore(filepath.Join(t.TempDir(), "never-created"))
	names, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}
