package todo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gustapinto/go-todo-store/todo/snapshot"
	"github.com/sirupsen/logrus"
)

// Store A todo record store persisted as a single [Snapshot]
type Store struct {
	snapshot    Snapshot
	lock        chan struct{}
	lockTimeout time.Duration
	newID       IDGenerator
	logger      *logrus.Entry
}

var (
	errLockTimeout = errors.New("timed out waiting for the write lock")
	errUnchanged   = errors.New("collection unchanged")
)

// NewStore Initializes a working [Store]. If the snapshot was never saved it is
// created with an empty collection, an existing snapshot is left untouched
func NewStore(ctx context.Context, snapshot Snapshot, opts ...Option) (*Store, error) {
	if snapshot == nil {
		return nil, errors.New("the snapshot must not be nil")
	}

	store := &Store{
		snapshot:    snapshot,
		lock:        make(chan struct{}, 1),
		lockTimeout: DefaultLockTimeout,
		newID:       NewUUID,
		logger:      discardLogger(),
	}

	for _, opt := range opts {
		opt(store)
	}

	if err := store.init(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *Store) init(ctx context.Context) error {
	unlock, err := s.lockWrites(ctx, "init")
	if err != nil {
		return err
	}
	defer unlock()

	_, err = s.snapshot.Load(ctx)
	if err == nil {
		return nil
	}

	if !errors.Is(err, snapshot.ErrNotExist) {
		return s.fail("init", err)
	}

	if err := s.save(ctx, "init", []Record{}); err != nil {
		return err
	}

	s.logger.WithField("op", "init").Info("created empty snapshot")

	return nil
}

// List Return every record of the collection, in insertion order
func (s *Store) List(ctx context.Context) ([]Record, error) {
	return s.load(ctx, "list")
}

// Get Find a record by its id, it returns ErrNotFound if the id does not exists in the collection
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	records, err := s.load(ctx, "get")
	if err != nil {
		return Record{}, err
	}

	i := indexOf(records, id)
	if i < 0 {
		return Record{}, ErrNotFound
	}

	return records[i], nil
}

// Insert Append a new, not completed, record to the collection and return its id
func (s *Store) Insert(ctx context.Context, title, description string) (string, error) {
	if isBlank(title) {
		return "", &ValidationError{Field: "title"}
	}

	if isBlank(description) {
		return "", &ValidationError{Field: "description"}
	}

	var id string
	err := s.mutate(ctx, "insert", func(records []Record) ([]Record, error) {
		newID, err := s.uniqueID(records)
		if err != nil {
			return nil, err
		}

		id = newID

		return append(records, Record{
			ID:          id,
			Title:       title,
			Description: description,
			Completed:   false,
		}), nil
	})
	if err != nil {
		return "", err
	}

	return id, nil
}

// Update Merge the patch onto the record with the given id, it returns ErrNotFound
// if the id does not exists in the collection
func (s *Store) Update(ctx context.Context, id string, patch Patch) error {
	if err := patch.validate(); err != nil {
		return err
	}

	return s.mutate(ctx, "update", func(records []Record) ([]Record, error) {
		i := indexOf(records, id)
		if i < 0 {
			return nil, ErrNotFound
		}

		if patch.IsEmpty() {
			return nil, errUnchanged
		}

		patch.apply(&records[i])

		return records, nil
	})
}

// Delete Remove the record with the given id, it returns ErrNotFound if the id does
// not exists in the collection
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, "delete", func(records []Record) ([]Record, error) {
		i := indexOf(records, id)
		if i < 0 {
			return nil, ErrNotFound
		}

		return append(records[:i], records[i+1:]...), nil
	})
}

// mutate Runs a read-modify-write cycle while holding the write lock. Nothing is
// written when fn fails
func (s *Store) mutate(ctx context.Context, op string, fn func([]Record) ([]Record, error)) error {
	unlock, err := s.lockWrites(ctx, op)
	if err != nil {
		return err
	}
	defer unlock()

	records, err := s.load(ctx, op)
	if err != nil {
		return err
	}

	records, err = fn(records)
	if errors.Is(err, errUnchanged) {
		return nil
	}

	if err != nil {
		s.logger.WithFields(logrus.Fields{"op": op}).WithError(err).Debug("mutation rejected")
		return err
	}

	return s.save(ctx, op, records)
}

func (s *Store) lockWrites(ctx context.Context, op string) (unlock func(), err error) {
	timer := time.NewTimer(s.lockTimeout)
	defer timer.Stop()

	select {
	case s.lock <- struct{}{}:
		return func() { <-s.lock }, nil
	case <-ctx.Done():
		return nil, s.fail(op, ctx.Err())
	case <-timer.C:
		return nil, s.fail(op, errLockTimeout)
	}
}

func (s *Store) uniqueID(records []Record) (string, error) {
	for range maxIDAttempts {
		id, err := s.newID()
		if err != nil {
			return "", &StorageError{Op: "insert", Err: fmt.Errorf("generate id: %w", err)}
		}

		if id != "" && indexOf(records, id) < 0 {
			return id, nil
		}
	}

	return "", &StorageError{Op: "insert", Err: errors.New("could not generate a unique id")}
}

func (s *Store) load(ctx context.Context, op string) ([]Record, error) {
	data, err := s.snapshot.Load(ctx)
	if err != nil {
		return nil, s.fail(op, err)
	}

	records, err := decode(data)
	if err != nil {
		return nil, s.fail(op, err)
	}

	return records, nil
}

func (s *Store) save(ctx context.Context, op string, records []Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return s.fail(op, err)
	}

	if err := s.snapshot.Save(ctx, data); err != nil {
		return s.fail(op, err)
	}

	s.logger.WithFields(logrus.Fields{"op": op, "records": len(records)}).Debug("snapshot saved")

	return nil
}

func (s *Store) fail(op string, err error) error {
	s.logger.WithField("op", op).WithError(err).Error("snapshot operation failed")

	return &StorageError{Op: op, Err: err}
}

// decode Parses a snapshot. Blank content is an empty collection, anything that
// is not a JSON array of records with distinct ids is rejected
func decode(data []byte) ([]Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []Record{}, nil
	}

	if data[0] != '[' {
		return nil, errors.New("snapshot is not a JSON array")
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	seen := make(map[string]struct{}, len(records))
	for _, record := range records {
		if _, exists := seen[record.ID]; exists {
			return nil, fmt.Errorf("duplicate id %q in snapshot", record.ID)
		}

		seen[record.ID] = struct{}{}
	}

	if records == nil {
		records = []Record{}
	}

	return records, nil
}
