package time_entry

import (
	"context"
	"sort"
	"sync"

	"github.com/flexkonto/flexkonto/pkg/worktime"
)

// RepositoryStub keeps entries in memory. Transactions run under the stub's
// lock but are not rolled back.
type RepositoryStub struct {
	mu      sync.Mutex
	nextId  int
	entries map[int]map[int]Entry
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{entries: map[int]map[int]Entry{}}
}

type lockedStub struct {
	*RepositoryStub
}

func (s *RepositoryStub) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(lockedStub{s})
}

func (s lockedStub) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	return fn(s)
}

func (s lockedStub) List(ctx context.Context, userId int) ([]Entry, error) {
	return s.list(userId), nil
}

func (s lockedStub) Get(ctx context.Context, userId int, id int) (Entry, error) {
	return s.get(userId, id)
}

func (s lockedStub) Create(ctx context.Context, userId int, entries []worktime.TimeEntry) ([]Entry, error) {
	return s.create(userId, entries), nil
}

func (s lockedStub) Update(ctx context.Context, userId int, entry Entry) (Entry, error) {
	return s.update(userId, entry)
}

func (s lockedStub) Delete(ctx context.Context, userId int, id int) error {
	return s.delete(userId, id)
}

func (s lockedStub) DeleteAll(ctx context.Context, userId int) (int, error) {
	return s.deleteAll(userId), nil
}

func (s lockedStub) DeleteIds(ctx context.Context, userId int, ids []int) (int, error) {
	return s.deleteIds(userId, ids), nil
}

func (s *RepositoryStub) List(ctx context.Context, userId int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list(userId), nil
}

func (s *RepositoryStub) Get(ctx context.Context, userId int, id int) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(userId, id)
}

func (s *RepositoryStub) Create(ctx context.Context, userId int, entries []worktime.TimeEntry) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.create(userId, entries), nil
}

func (s *RepositoryStub) Update(ctx context.Context, userId int, entry Entry) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(userId, entry)
}

func (s *RepositoryStub) Delete(ctx context.Context, userId int, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delete(userId, id)
}

func (s *RepositoryStub) DeleteAll(ctx context.Context, userId int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteAll(userId), nil
}

func (s *RepositoryStub) DeleteIds(ctx context.Context, userId int, ids []int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteIds(userId, ids), nil
}

func (s *RepositoryStub) list(userId int) []Entry {
	var result []Entry
	for _, e := range s.entries[userId] {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date > result[j].Date
		}
		return result[i].Id < result[j].Id
	})
	return result
}

func (s *RepositoryStub) get(userId int, id int) (Entry, error) {
	e, ok := s.entries[userId][id]
	if !ok {
		return Entry{}, ErrEntryNotFound
	}
	return e, nil
}

func (s *RepositoryStub) create(userId int, entries []worktime.TimeEntry) []Entry {
	if s.entries[userId] == nil {
		s.entries[userId] = map[int]Entry{}
	}
	var created []Entry
	for _, e := range entries {
		s.nextId++
		entry := Entry{Id: s.nextId, TimeEntry: e}
		s.entries[userId][entry.Id] = entry
		created = append(created, entry)
	}
	return created
}

func (s *RepositoryStub) update(userId int, entry Entry) (Entry, error) {
	if _, ok := s.entries[userId][entry.Id]; !ok {
		return Entry{}, ErrEntryNotFound
	}
	s.entries[userId][entry.Id] = entry
	return entry, nil
}

func (s *RepositoryStub) delete(userId int, id int) error {
	if _, ok := s.entries[userId][id]; !ok {
		return ErrEntryNotFound
	}
	delete(s.entries[userId], id)
	return nil
}

func (s *RepositoryStub) deleteAll(userId int) int {
	count := len(s.entries[userId])
	delete(s.entries, userId)
	return count
}

func (s *RepositoryStub) deleteIds(userId int, ids []int) int {
	count := 0
	for _, id := range ids {
		if _, ok := s.entries[userId][id]; ok {
			delete(s.entries[userId], id)
			count++
		}
	}
	return count
}
