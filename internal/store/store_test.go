package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := OpenInMemory()
	require.NoError(t, err)

	t.Cleanup(func() { s.Close() })

	return s
}

func TestCommitGuardRejectsExistingKey(t *testing.T) {
	s := newTestStore(t)

	key := []byte("users/ana@example.com")

	err := s.Commit(
		[]Op{{Kind: OpSet, Key: key, Value: []byte(`{"name":"Ana"}`)}},
		[]Check{{Key: key, MustNotExist: true}},
	)
	require.NoError(t, err)

	err = s.Commit(
		[]Op{{Kind: OpSet, Key: key, Value: []byte(`{"name":"Impostor"}`)}},
		[]Check{{Key: key, MustNotExist: true}},
	)
	assert.ErrorIs(t, err, ErrKeyExists)

	// The losing commit applied nothing.
	value, err := s.Get(key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Ana"}`, string(value))
}

func TestCommitIsAllOrNothing(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Commit([]Op{{Kind: OpSet, Key: []byte("a"), Value: []byte("1")}}, nil))

	// Batch carrying a violated check must not apply any of its ops.
	err := s.Commit(
		[]Op{
			{Kind: OpSet, Key: []byte("b"), Value: []byte("2")},
			{Kind: OpDelete, Key: []byte("a")},
		},
		[]Check{{Key: []byte("a"), MustNotExist: true}},
	)
	assert.ErrorIs(t, err, ErrKeyExists)

	_, err = s.Get([]byte("b"))
	assert.ErrorIs(t, err, ErrKeyNotFound)

	_, err = s.Get([]byte("a"))
	assert.NoError(t, err)
}

func TestConcurrentGuardedCreates(t *testing.T) {
	s := newTestStore(t)

	key := []byte("users/ana@example.com")

	const writers = 8

	results := make(chan error, writers)

	for i := 0; i < writers; i++ {
		go func() {
			results <- s.Commit(
				[]Op{{Kind: OpSet, Key: key, Value: []byte("v")}},
				[]Check{{Key: key, MustNotExist: true}},
			)
		}()
	}

	var created, lost int

	for i := 0; i < writers; i++ {
		err := <-results

		switch {
		case err == nil:
			created++
		case errors.Is(err, ErrKeyExists):
			lost++
		default:
			t.Fatalf("unexpected commit error: %v", err)
		}
	}

	// Exactly one creation wins; every loser learns the key exists
	// rather than seeing a bare conflict.
	assert.Equal(t, 1, created)
	assert.Equal(t, writers-1, lost)
}

func TestGetMissingKey(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get([]byte("nope"))
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestScanOrderAndEarlyTermination(t *testing.T) {
	s := newTestStore(t)

	var ops []Op
	for _, k := range []string{"p/3", "p/1", "q/9", "p/2"} {
		ops = append(ops, Op{Kind: OpSet, Key: []byte(k), Value: []byte(k)})
	}
	require.NoError(t, s.Commit(ops, nil))

	var seen []string
	err := s.Scan([]byte("p/"), func(key, value []byte) (bool, error) {
		seen = append(seen, string(key))
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"p/1", "p/2", "p/3"}, seen)

	seen = nil
	err = s.Scan([]byte("p/"), func(key, value []byte) (bool, error) {
		seen = append(seen, string(key))
		return len(seen) < 2, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"p/1", "p/2"}, seen)
}

func TestTTLEntryExpires(t *testing.T) {
	s := newTestStore(t)

	key := []byte("users/ana@example.com/notifications/1")

	// Badger tracks expiry with second granularity, so the test TTL
	// has to be comfortably above one second.
	err := s.Commit([]Op{{Kind: OpSet, Key: key, Value: []byte("hi"), TTL: 2 * time.Second}}, nil)
	require.NoError(t, err)

	_, err = s.Get(key)
	require.NoError(t, err)

	time.Sleep(3500 * time.Millisecond)

	_, err = s.Get(key)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	var seen int
	require.NoError(t, s.Scan([]byte("users/ana@example.com/notifications/"), func(key, value []byte) (bool, error) {
		seen++
		return true, nil
	}))
	assert.Zero(t, seen)
}

func TestDirectChild(t *testing.T) {
	prefix := []byte("users/")

	assert.True(t, DirectChild([]byte("users/ana@example.com"), prefix))
	assert.False(t, DirectChild([]byte("users/ana@example.com/notifications/1"), prefix))
	assert.False(t, DirectChild([]byte("projects/x"), prefix))
	assert.False(t, DirectChild([]byte("users/"), prefix))
}
