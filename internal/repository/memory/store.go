// Package memory is an in-process implementation of the docvault repositories.
// It backs STORAGE=memory and the service tests, and enforces the same
// uniqueness and ownership rules as the Postgres schema.
package memory

import (
	"maps"
	"sync"

	models "docvault/internal/domain/models/docvault"
)

// Store holds all tables behind one lock
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex // serializes ExecTx callers
	data *tables

	calls    map[string]int
	failNext map[string]error
}

type tables struct {
	categories map[int64]models.Category
	documents  map[int64]models.Document
	versions   map[int64]models.DocumentVersion
	changelogs map[int64]models.Changelog
	seq        map[string]int64 // per-table, like BIGSERIAL
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		data: &tables{
			categories: map[int64]models.Category{},
			documents:  map[int64]models.Document{},
			versions:   map[int64]models.DocumentVersion{},
			changelogs: map[int64]models.Changelog{},
			seq:        map[string]int64{},
		},
		calls:    map[string]int{},
		failNext: map[string]error{},
	}
}

func (t *tables) clone() *tables {
	return &tables{
		categories: maps.Clone(t.categories),
		documents:  maps.Clone(t.documents),
		versions:   maps.Clone(t.versions),
		changelogs: maps.Clone(t.changelogs),
		seq:        maps.Clone(t.seq),
	}
}

func (t *tables) nextID(table string) int64 {
	t.seq[table]++
	return t.seq[table]
}

// Calls returns how many times a repository method ran, keyed "Repo.Method"
func (s *Store) Calls(op string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls[op]
}

// ResetCalls zeroes every call counter
func (s *Store) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.calls)
}

// FailNext makes the next call to op return err. Used to exercise rollback.
func (s *Store) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[op] = err
}

// begin records the call and returns an injected failure if one is armed.
// Callers must hold s.mu.
func (s *Store) begin(op string) error {
	s.calls[op]++
	if err, ok := s.failNext[op]; ok {
		delete(s.failNext, op)
		return err
	}
	return nil
}
