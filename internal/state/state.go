// Package state keeps the session journal in a bbolt database: the
// current mode, the dirty article ids and the original server timestamps
// used for conflict detection. It lets an offline session survive a
// restart without losing track of what still has to be pushed.
package state

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"
	berrors "go.etcd.io/bbolt/errors"
)

const (
	// stateDirPerm is the permission mode for the state directory.
	stateDirPerm = fs.FileMode(0o700)

	// stateFilePerm is the permission mode for the state database file.
	stateFilePerm = fs.FileMode(0o600)

	// stateOpenTimeout is the maximum time to wait for the bolt database lock.
	stateOpenTimeout = 5 * time.Second
)

var (
	appBucket        = []byte("app")
	timestampsBucket = []byte("timestamps")
	dirtyBucket      = []byte("dirty")

	modeKey     = []byte("mode")
	lastSyncKey = []byte("last_sync")
)

// Session is the persisted part of the sync engine's working state.
type Session struct {
	Mode      string
	Dirty     []int
	Originals map[int]string
}

// State wraps a bbolt database for the session journal.
type State struct {
	db *bolt.DB
}

// LoadAt opens a state database at the given path, creating it and its
// buckets if they do not exist.
func LoadAt(path string) (*State, error) {
	if err := os.MkdirAll(filepath.Dir(path), stateDirPerm); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	db, err := bolt.Open(path, stateFilePerm, &bolt.Options{Timeout: stateOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{appBucket, timestampsBucket, dirtyBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing state db: %w", err)
	}

	return &State{db: db}, nil
}

// Close closes the database.
func (s *State) Close() error {
	return s.db.Close()
}

// LoadSession reads the journal. An empty database yields an empty
// session with a non-nil Originals map.
func (s *State) LoadSession() (Session, error) {
	sess := Session{Originals: make(map[int]string)}

	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(appBucket).Get(modeKey); v != nil {
			sess.Mode = string(v)
		}

		err := tx.Bucket(timestampsBucket).ForEach(func(k, v []byte) error {
			id, err := strconv.Atoi(string(k))
			if err != nil {
				return fmt.Errorf("corrupt timestamp key %q: %w", k, err)
			}

			sess.Originals[id] = string(v)

			return nil
		})
		if err != nil {
			return err
		}

		return tx.Bucket(dirtyBucket).ForEach(func(k, _ []byte) error {
			id, err := strconv.Atoi(string(k))
			if err != nil {
				return fmt.Errorf("corrupt dirty key %q: %w", k, err)
			}

			sess.Dirty = append(sess.Dirty, id)

			return nil
		})
	})
	if err != nil {
		return Session{}, fmt.Errorf("reading session: %w", err)
	}

	// Keys sort as strings in bolt; callers expect numeric order.
	sort.Ints(sess.Dirty)

	return sess, nil
}

// SaveSession replaces the whole journal in one transaction.
func (s *State) SaveSession(sess Session) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(appBucket).Put(modeKey, []byte(sess.Mode)); err != nil {
			return err
		}

		ts, err := resetBucket(tx, timestampsBucket)
		if err != nil {
			return err
		}

		for id, stamp := range sess.Originals {
			if err := ts.Put([]byte(strconv.Itoa(id)), []byte(stamp)); err != nil {
				return err
			}
		}

		dirty, err := resetBucket(tx, dirtyBucket)
		if err != nil {
			return err
		}

		for _, id := range sess.Dirty {
			if err := dirty.Put([]byte(strconv.Itoa(id)), []byte{1}); err != nil {
				return err
			}
		}

		return nil
	})
}

func resetBucket(tx *bolt.Tx, name []byte) (*bolt.Bucket, error) {
	if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, berrors.ErrBucketNotFound) {
		return nil, err
	}

	return tx.CreateBucket(name)
}

// LastSync returns when the collection was last confirmed in sync with
// the server, or the zero time.
func (s *State) LastSync() time.Time {
	var t time.Time

	_ = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(appBucket).Get(lastSyncKey)
		if v == nil {
			return nil
		}

		return t.UnmarshalText(v)
	})

	return t
}

// SetLastSync records the time of a successful full sync.
func (s *State) SetLastSync(t time.Time) error {
	data, err := t.UTC().MarshalText()
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(appBucket).Put(lastSyncKey, data)
	})
}
