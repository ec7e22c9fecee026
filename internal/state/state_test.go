package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func testDB(t *testing.T) *State {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := LoadAt(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// --- LoadAt / Close ---

func TestLoadAt_CreatesDB(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sub", "state.db")
	s, err := LoadAt(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestLoadAt_ReopensExistingDB(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.db")

	s1, err := LoadAt(dbPath)
	require.NoError(t, err)
	require.NoError(t, s1.SaveSession(Session{
		Mode:      "offline",
		Dirty:     []int{4},
		Originals: map[int]string{4: "2026-03-01T10:00:00Z"},
	}))
	require.NoError(t, s1.Close())

	s2, err := LoadAt(dbPath)
	require.NoError(t, err)
	defer s2.Close()

	sess, err := s2.LoadSession()
	require.NoError(t, err)
	assert.Equal(t, "offline", sess.Mode)
	assert.Equal(t, []int{4}, sess.Dirty)
	assert.Equal(t, "2026-03-01T10:00:00Z", sess.Originals[4])
}

// --- Session ---

func TestLoadSession_EmptyByDefault(t *testing.T) {
	s := testDB(t)
	sess, err := s.LoadSession()
	require.NoError(t, err)
	assert.Equal(t, "", sess.Mode)
	assert.Empty(t, sess.Dirty)
	assert.NotNil(t, sess.Originals)
	assert.Empty(t, sess.Originals)
}

func TestSaveSession_RoundTripWithNegativeIDs(t *testing.T) {
	s := testDB(t)
	in := Session{
		Mode:  "offline",
		Dirty: []int{12, -2, 3},
		Originals: map[int]string{
			12: "2026-03-01T10:00:00Z",
			3:  "2026-03-01T11:00:00Z",
			-2: "2026-03-02T08:15:30.123456789Z",
		},
	}
	require.NoError(t, s.SaveSession(in))

	out, err := s.LoadSession()
	require.NoError(t, err)
	assert.Equal(t, "offline", out.Mode)
	assert.Equal(t, []int{-2, 3, 12}, out.Dirty)
	assert.Equal(t, in.Originals, out.Originals)
}

func TestSaveSession_ReplacesPreviousContents(t *testing.T) {
	s := testDB(t)
	require.NoError(t, s.SaveSession(Session{
		Mode:      "offline",
		Dirty:     []int{1, 2},
		Originals: map[int]string{1: "a", 2: "b"},
	}))
	require.NoError(t, s.SaveSession(Session{
		Mode:      "online",
		Originals: map[int]string{7: "c"},
	}))

	out, err := s.LoadSession()
	require.NoError(t, err)
	assert.Equal(t, "online", out.Mode)
	assert.Empty(t, out.Dirty)
	assert.Equal(t, map[int]string{7: "c"}, out.Originals)
}

// --- LastSync ---

func TestLastSync_ZeroByDefault(t *testing.T) {
	s := testDB(t)
	assert.True(t, s.LastSync().IsZero())
}

func TestSetLastSync_RoundTrip(t *testing.T) {
	s := testDB(t)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.SetLastSync(at))
	assert.True(t, at.Equal(s.LastSync()))
}

func TestResetBucket_MissingAndExisting(t *testing.T) {
	s := testDB(t)
	name := []byte("scratch")

	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := resetBucket(tx, name)
		if err != nil {
			return err
		}
		return b.Put([]byte("k"), []byte("v"))
	})
	require.NoError(t, err)

	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := resetBucket(tx, name)
		if err != nil {
			return err
		}
		assert.Nil(t, b.Get([]byte("k")))
		return nil
	})
	require.NoError(t, err)
}
