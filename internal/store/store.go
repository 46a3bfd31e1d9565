package store

import (
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

// Store wraps the Badger database behind the small contract the
// repositories need: point reads, ordered prefix scans and atomic
// multi-operation commits with optimistic preconditions.
//
// It is constructed once and passed to every repository explicitly;
// there is no package-level handle.
type Store struct {
	db *badger.DB
}

var (
	// ErrKeyExists is returned when a commit carried a must-not-exist
	// check and the key was already present.
	ErrKeyExists = errors.New("store: key already exists")

	// ErrKeyNotFound is returned by Get for absent keys.
	ErrKeyNotFound = errors.New("store: key not found")

	// ErrCommitConflict is returned when a concurrent commit touched a
	// key this commit read or checked. Callers surface it, they do not
	// retry internally.
	ErrCommitConflict = errors.New("store: commit conflict")

	// ErrUnavailable wraps any underlying engine fault.
	ErrUnavailable = errors.New("store: unavailable")
)

// Open opens (or creates) the database at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &Store{db: db}, nil
}

// OpenInMemory opens a throwaway in-memory database, used by tests.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &Store{db: db}, nil
}

// Close releases the database and its file lock.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value stored at key, or ErrKeyNotFound.
func (s *Store) Get(key []byte) ([]byte, error) {
	var value []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)

		if err != nil {
			return err
		}

		value, err = item.ValueCopy(nil)
		return err
	})

	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return value, nil
}

// Scan walks every key under prefix in byte order and calls fn with
// each key/value pair. Returning false from fn stops the scan early.
// The iteration is lazy; values are only loaded for visited entries.
func (s *Store) Scan(prefix []byte, fn func(key, value []byte) (bool, error)) error {
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()

			value, err := item.ValueCopy(nil)

			if err != nil {
				return err
			}

			cont, err := fn(item.KeyCopy(nil), value)

			if err != nil {
				return err
			}

			if !cont {
				return nil
			}
		}

		return nil
	})

	// Errors surfaced by fn pass through untouched so callers can keep
	// their own taxonomy; engine faults come back raw and are fatal to
	// the calling operation either way.
	return err
}

// OpKind selects what a commit operation does to its key.
type OpKind int

const (
	OpSet OpKind = iota
	OpDelete
)

// Op is one mutation inside an atomic commit. A non-zero TTL asks the
// engine to drop the record after that duration elapses.
type Op struct {
	Kind  OpKind
	Key   []byte
	Value []byte
	TTL   time.Duration
}

// Check is an optimistic precondition evaluated inside the commit's
// transaction. The checked key joins the transaction's read set, so a
// concurrent writer racing on it fails the commit with
// ErrCommitConflict.
type Check struct {
	Key          []byte
	MustNotExist bool
}

// Commit applies every op or none of them. A violated check fails the
// whole batch with ErrKeyExists; a conflicting concurrent commit fails
// it with ErrCommitConflict. A creation racing a winner that just
// created the same key would otherwise only ever see the conflict (the
// must-not-exist read clashes with the winner's write before the loser
// can observe it), so on conflict the checks are re-evaluated against
// the now-committed state and a guarded key that exists reports
// ErrKeyExists.
func (s *Store) Commit(ops []Op, checks []Check) error {
	txn := s.db.NewTransaction(true)
	defer txn.Discard()

	for _, check := range checks {
		_, err := txn.Get(check.Key)

		switch {
		case err == nil:
			if check.MustNotExist {
				return ErrKeyExists
			}
		case errors.Is(err, badger.ErrKeyNotFound):
			// Absent, which is what a must-not-exist check wants.
		default:
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	for _, op := range ops {
		var err error

		switch op.Kind {
		case OpSet:
			entry := badger.NewEntry(op.Key, op.Value)

			if op.TTL > 0 {
				entry = entry.WithTTL(op.TTL)
			}

			err = txn.SetEntry(entry)
		case OpDelete:
			err = txn.Delete(op.Key)
		default:
			err = fmt.Errorf("unknown op kind %d", op.Kind)
		}

		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	if err := txn.Commit(); err != nil {
		if errors.Is(err, badger.ErrConflict) {
			for _, check := range checks {
				if !check.MustNotExist {
					continue
				}

				if _, err := s.Get(check.Key); err == nil {
					return ErrKeyExists
				}
			}

			return ErrCommitConflict
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}
