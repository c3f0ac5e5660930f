package middleware_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sluice/internal/adapters/memory"
	"github.com/aretw0/sluice/pkg/domain"
	"github.com/aretw0/sluice/pkg/persistence/middleware"
)

func key(b byte) []byte {
	k := make([]byte, 32)
	for i := range k {
		k[i] = b
	}
	return k
}

const scenarioDoc = `nodes:
  - id: feed
    kind: source
    interval: 1
    value: 5
`

func TestEncryption_RoundTrip(t *testing.T) {
	store := middleware.Chain(
		memory.NewStore(),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key('a')}),
	)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "demo", []byte(scenarioDoc)))

	doc, err := store.Load(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, scenarioDoc, string(doc))
}

func TestEncryption_StoredDocumentIsCiphertext(t *testing.T) {
	inner := memory.NewStore()
	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key('a')})(inner)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "demo", []byte(scenarioDoc)))

	raw, err := inner.Load(ctx, "demo")
	require.NoError(t, err)
	assert.NotEqual(t, scenarioDoc, string(raw))
	assert.False(t, bytes.Contains(raw, []byte("feed")))
}

func TestEncryption_NonceMakesCiphertextUnique(t *testing.T) {
	inner := memory.NewStore()
	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key('a')})(inner)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "one", []byte(scenarioDoc)))
	require.NoError(t, store.Save(ctx, "two", []byte(scenarioDoc)))

	one, err := inner.Load(ctx, "one")
	require.NoError(t, err)
	two, err := inner.Load(ctx, "two")
	require.NoError(t, err)
	assert.NotEqual(t, one, two)
}

func TestEncryption_KeyRotationReadsOldDocuments(t *testing.T) {
	inner := memory.NewStore()
	ctx := context.Background()

	oldStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key('a')})(inner)
	require.NoError(t, oldStore.Save(ctx, "legacy", []byte(scenarioDoc)))

	rotated := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    key('b'),
		FallbackKeys: [][]byte{key('a')},
	})(inner)

	doc, err := rotated.Load(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, scenarioDoc, string(doc))

	// Re-saving moves the document onto the active key.
	require.NoError(t, rotated.Save(ctx, "legacy", doc))

	activeOnly := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key('b')})(inner)
	doc, err = activeOnly.Load(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, scenarioDoc, string(doc))
}

func TestEncryption_WrongKeyFails(t *testing.T) {
	inner := memory.NewStore()
	ctx := context.Background()

	writer := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key('a')})(inner)
	require.NoError(t, writer.Save(ctx, "demo", []byte(scenarioDoc)))

	reader := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key('z')})(inner)
	_, err := reader.Load(ctx, "demo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decryption failed")
}

func TestEncryption_MissingScenarioPassesThrough(t *testing.T) {
	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key('a')})(memory.NewStore())

	_, err := store.Load(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrScenarioNotFound)
}

func TestEncryption_DeleteAndListDelegate(t *testing.T) {
	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key('a')})(memory.NewStore())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "b", []byte(scenarioDoc)))
	require.NoError(t, store.Save(ctx, "a", []byte(scenarioDoc)))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	require.NoError(t, store.Delete(ctx, "a"))
	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, names)
}

func TestEncryption_ShortKeyPanics(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	})
}
