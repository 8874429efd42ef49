package manager

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phishsafe/probe"
	"phishsafe/query"
)

func newTestManager(t *testing.T) (*KeywordManager, *query.Database) {
	t.Helper()
	db, err := query.InitDatabase("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	km, err := NewKeywordManager(db, probe.DefaultKeywords())
	require.NoError(t, err)
	return km, db
}

func TestSnapshotStartsWithDefaults(t *testing.T) {
	km, _ := newTestManager(t)
	assert.Equal(t, probe.DefaultKeywords().Words(), km.Snapshot().Words())
	assert.Empty(t, km.Custom())
}

func TestAddRemove(t *testing.T) {
	km, db := newTestManager(t)

	before := km.Snapshot()
	require.NoError(t, km.Add("  ScreenCam "))

	assert.Equal(t, []string{"screencam"}, km.Custom())
	_, ok := km.Snapshot().Match("com.example.SCREENCAM")
	assert.True(t, ok)
	_, ok = before.Match("com.example.screencam")
	assert.False(t, ok, "earlier snapshots are not affected")

	stored, err := db.GetAllKeywords()
	require.NoError(t, err)
	assert.Equal(t, []string{"screencam"}, stored)

	require.NoError(t, km.Remove("SCREENCAM"))
	assert.Empty(t, km.Custom())
	_, ok = km.Snapshot().Match("screencam")
	assert.False(t, ok)
}

func TestAddRejectsEmpty(t *testing.T) {
	km, _ := newTestManager(t)
	assert.Error(t, km.Add("   "))
	assert.Error(t, km.Remove(""))
}

func TestRefreshPicksUpDatabaseChanges(t *testing.T) {
	km, db := newTestManager(t)
	require.NoError(t, db.InsertKeyword("rec it"))

	assert.Empty(t, km.Custom())
	require.NoError(t, km.Refresh())
	assert.Equal(t, []string{"rec it"}, km.Custom())
}

type memStore struct {
	names   map[string]struct{}
	inserts int
	deletes int
	err     error
}

func (m *memStore) GetAllKeywords() ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []string{}
	for n := range m.names {
		out = append(out, n)
	}
	return out, nil
}

func (m *memStore) InsertKeyword(name string) error {
	m.inserts++
	m.names[name] = struct{}{}
	return m.err
}

func (m *memStore) DeleteKeyword(name string) error {
	m.deletes++
	delete(m.names, name)
	return m.err
}

func TestManagerWritesThroughStore(t *testing.T) {
	store := &memStore{names: map[string]struct{}{"rec it": {}}}
	km, err := NewKeywordManager(store, probe.DefaultKeywords())
	require.NoError(t, err)
	assert.Equal(t, []string{"rec it"}, km.Custom())

	require.NoError(t, km.Add("ScreenCam"))
	require.NoError(t, km.Remove("rec it"))
	assert.Equal(t, 1, store.inserts)
	assert.Equal(t, 1, store.deletes)
	assert.Equal(t, []string{"screencam"}, km.Custom())
}

func TestManagerStoreErrors(t *testing.T) {
	store := &memStore{names: map[string]struct{}{}, err: errors.New("locked")}
	_, err := NewKeywordManager(store, probe.DefaultKeywords())
	assert.ErrorContains(t, err, "locked")
}
