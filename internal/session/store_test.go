package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upstic/admin-console/internal/model"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	sess := &model.Session{
		AccessToken:  "tok",
		RefreshToken: "refresh",
		TokenExpiry:  time.Now().Add(time.Hour).Truncate(time.Second),
		User:         &model.User{ID: "admin-1"},
	}
	require.NoError(t, store.Save(sess))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "tok", loaded.AccessToken)
	assert.Equal(t, "admin-1", loaded.User.ID)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStoreMissingFileYieldsNoSession(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestFileStoreCorruptFileYieldsNoSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("not json{"), 0600))

	store := NewFileStore(path)
	sess, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestFileStoreClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)
	require.NoError(t, store.Save(&model.Session{AccessToken: "tok"}))

	require.NoError(t, store.Clear())
	sess, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)

	// clearing an already-clear store is fine
	require.NoError(t, store.Clear())
}

func TestMemoryStoreCopies(t *testing.T) {
	store := NewMemoryStore()
	sess := &model.Session{AccessToken: "tok"}
	require.NoError(t, store.Save(sess))

	loaded, err := store.Load()
	require.NoError(t, err)
	loaded.AccessToken = "mutated"

	reloaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", reloaded.AccessToken)
}
