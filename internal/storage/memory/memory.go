// Package memory is an in-process storage backend used for development and
// for exercising the engine without a database.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/phatch9/Financial-Cloud-Management/internal/storage"
)

type data struct {
	budgets      map[uuid.UUID]storage.Budget
	transactions map[uuid.UUID]storage.Transaction
	users        map[uuid.UUID]storage.User
}

func newData() *data {
	return &data{
		budgets:      map[uuid.UUID]storage.Budget{},
		transactions: map[uuid.UUID]storage.Transaction{},
		users:        map[uuid.UUID]storage.User{},
	}
}

func (d *data) clone() *data {
	c := &data{
		budgets:      make(map[uuid.UUID]storage.Budget, len(d.budgets)),
		transactions: make(map[uuid.UUID]storage.Transaction, len(d.transactions)),
		users:        make(map[uuid.UUID]storage.User, len(d.users)),
	}
	for k, v := range d.budgets {
		c.budgets[k] = v
	}
	for k, v := range d.transactions {
		c.transactions[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	return c
}

// source hands tables the data set they operate on.
type source interface {
	read(fn func(d *data))
	write(fn func(d *data))
}

// Store owns the committed data set. Only one Writer may be open at a time;
// it works on a private copy that replaces the committed set on Commit.
type Store struct {
	mu      sync.RWMutex
	writeMu sync.Mutex
	current *data
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		current: newData(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// NewStorage returns a storage.Storage backed by a fresh in-memory Store.
func NewStorage() *storage.Storage {
	return NewStore().Storage()
}

func (s *Store) Storage() *storage.Storage {
	live := &liveSource{store: s}
	return storage.New(
		&budgetsTable{src: live, now: s.now},
		&transactionsTable{src: live, now: s.now},
		&usersTable{src: live, now: s.now},
		s.begin,
		nil,
	)
}

func (s *Store) begin(ctx context.Context) (*storage.Writer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.writeMu.Lock()

	s.mu.RLock()
	working := s.current.clone()
	s.mu.RUnlock()

	tx := &txSource{store: s, data: working}
	return storage.NewWriter(
		tx,
		&budgetsTable{src: tx, now: s.now},
		&transactionsTable{src: tx, now: s.now},
		&usersTable{src: tx, now: s.now},
	), nil
}

type liveSource struct {
	store *Store
}

func (l *liveSource) read(fn func(d *data)) {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()
	fn(l.store.current)
}

// write waits for any open Writer so its commit cannot discard the change.
func (l *liveSource) write(fn func(d *data)) {
	l.store.writeMu.Lock()
	defer l.store.writeMu.Unlock()
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	fn(l.store.current)
}

type txSource struct {
	mu    sync.Mutex
	store *Store
	data  *data
	done  bool
}

func (t *txSource) read(fn func(d *data)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.data)
}

func (t *txSource) write(fn func(d *data)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.data)
}

func (t *txSource) Commit(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return errTxDone
	}
	t.done = true

	t.store.mu.Lock()
	t.store.current = t.data
	t.store.mu.Unlock()
	t.store.writeMu.Unlock()
	return nil
}

func (t *txSource) Rollback(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return errTxDone
	}
	t.done = true
	t.data = nil
	t.store.writeMu.Unlock()
	return nil
}
