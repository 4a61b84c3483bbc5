package time_entry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/flexkonto/flexkonto/internal/event_bus"
	"github.com/flexkonto/flexkonto/pkg/importer"
	"github.com/flexkonto/flexkonto/pkg/user"
	"github.com/flexkonto/flexkonto/pkg/worktime"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidEntry = errors.New("invalid time entry")
var ErrEmptyPayload = errors.New("no entries given")

type Service interface {
	ListEntries(ctx context.Context) ([]Entry, error)
	// EntriesForUser returns the entries of a user known by id, used outside requests.
	EntriesForUser(ctx context.Context, userId int) ([]worktime.TimeEntry, error)
	CreateEntries(ctx context.Context, entries []worktime.TimeEntry) ([]Entry, error)
	UpdateEntry(ctx context.Context, id int, entry worktime.TimeEntry) (Entry, error)
	DeleteEntry(ctx context.Context, id int) error
	DeleteAllEntries(ctx context.Context) (int, error)
	// Deduplicate keeps the oldest entry of every group sharing date, type,
	// times and notes, and returns how many entries it removed.
	Deduplicate(ctx context.Context) (int, error)
	// Import appends the entries of a CSV time-clock export dated in year.
	Import(ctx context.Context, year int, export io.Reader) ([]Entry, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *ServiceImpl) ListEntries(ctx context.Context) ([]Entry, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.List(ctx, userId)
}

func (s *ServiceImpl) EntriesForUser(ctx context.Context, userId int) ([]worktime.TimeEntry, error) {
	entries, err := s.repo.List(ctx, userId)
	if err != nil {
		return nil, err
	}
	return TimeEntries(entries), nil
}

func (s *ServiceImpl) CreateEntries(ctx context.Context, entries []worktime.TimeEntry) ([]Entry, error) {
	return s.create(ctx, entries, event_bus.EntriesCreated)
}

func (s *ServiceImpl) create(ctx context.Context, entries []worktime.TimeEntry, change event_bus.EntryChange) ([]Entry, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyPayload
	}

	normalized := make([]worktime.TimeEntry, 0, len(entries))
	for i, e := range entries {
		n, err := Normalize(e)
		if err != nil {
			if len(entries) > 1 {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
			return nil, err
		}
		normalized = append(normalized, n)
	}

	created, err := s.repo.Create(ctx, userId, normalized)
	if err != nil {
		log.Errorf("failed to create entries: %v", err)
		return nil, err
	}
	s.publish(ctx, userId, change, len(created))
	return created, nil
}

func (s *ServiceImpl) UpdateEntry(ctx context.Context, id int, entry worktime.TimeEntry) (Entry, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to get current user: %w", err)
	}
	normalized, err := Normalize(entry)
	if err != nil {
		return Entry{}, err
	}

	updated, err := s.repo.Update(ctx, userId, Entry{Id: id, TimeEntry: normalized})
	if err != nil {
		return Entry{}, err
	}
	s.publish(ctx, userId, event_bus.EntriesUpdated, 1)
	return updated, nil
}

func (s *ServiceImpl) DeleteEntry(ctx context.Context, id int) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	if err := s.repo.Delete(ctx, userId, id); err != nil {
		return err
	}
	s.publish(ctx, userId, event_bus.EntriesDeleted, 1)
	return nil
}

func (s *ServiceImpl) DeleteAllEntries(ctx context.Context) (int, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get current user: %w", err)
	}
	count, err := s.repo.DeleteAll(ctx, userId)
	if err != nil {
		return 0, err
	}
	log.Infof("deleted all %d entries of user %d", count, userId)
	s.publish(ctx, userId, event_bus.EntriesDeleted, count)
	return count, nil
}

func (s *ServiceImpl) Deduplicate(ctx context.Context) (int, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get current user: %w", err)
	}

	removed := 0
	err = s.repo.WithTransaction(ctx, func(repo Repository) error {
		entries, err := repo.List(ctx, userId)
		if err != nil {
			return err
		}
		removed, err = repo.DeleteIds(ctx, userId, duplicateIds(entries))
		return err
	})
	if err != nil {
		log.Errorf("failed to deduplicate entries of user %d: %v", userId, err)
		return 0, err
	}

	if removed > 0 {
		s.publish(ctx, userId, event_bus.EntriesDeduplicated, removed)
	}
	return removed, nil
}

func (s *ServiceImpl) Import(ctx context.Context, year int, export io.Reader) ([]Entry, error) {
	if year < 1900 || year > 9999 {
		return nil, fmt.Errorf("%w: year %d out of range", ErrInvalidEntry, year)
	}
	entries, err := importer.ParseCSV(export, year)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	log.Debugf("parsed %d entries from export", len(entries))
	return s.create(ctx, entries, event_bus.EntriesImported)
}

func (s *ServiceImpl) publish(ctx context.Context, userId int, change event_bus.EntryChange, count int) {
	err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.TimeEntriesChangedType, event_bus.TimeEntriesChanged{
		UserId: userId,
		Change: change,
		Count:  count,
	}))
	if err != nil {
		log.Warnf("entries of user %d changed but subscribers failed: %v", userId, err)
	}
}

// duplicateIds returns the ids of all entries but the oldest of each identity key.
func duplicateIds(entries []Entry) []int {
	byAge := append([]Entry(nil), entries...)
	sort.Slice(byAge, func(i, j int) bool { return byAge[i].Id < byAge[j].Id })

	seen := make(map[worktime.EntryKey]bool, len(byAge))
	var ids []int
	for _, e := range byAge {
		key := e.Key()
		if seen[key] {
			ids = append(ids, e.Id)
			continue
		}
		seen[key] = true
	}
	return ids
}

// Normalize validates an entry and brings it into stored form: zero-padded
// punches, a type and a value. A work entry with both punches and no pause
// gets the pause the break rules derive for it.
func Normalize(e worktime.TimeEntry) (worktime.TimeEntry, error) {
	e.Date = strings.TrimSpace(e.Date)
	date, ok := worktime.ParseDate(e.Date)
	if !ok {
		return worktime.TimeEntry{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidEntry, e.Date)
	}

	if e.Type == "" {
		e.Type = worktime.Work
	}
	if !e.Type.Valid() {
		return worktime.TimeEntry{}, fmt.Errorf("%w: unknown type %q", ErrInvalidEntry, e.Type)
	}

	e.Value = e.Fraction()
	if e.Value != 1 && e.Value != 0.5 {
		return worktime.TimeEntry{}, fmt.Errorf("%w: value must be 0.5 or 1.0, got %v", ErrInvalidEntry, e.Value)
	}

	if e.StartTime, ok = worktime.NormalizeClock(e.StartTime); !ok {
		return worktime.TimeEntry{}, fmt.Errorf("%w: start time is not HH:MM", ErrInvalidEntry)
	}
	if e.EndTime, ok = worktime.NormalizeClock(e.EndTime); !ok {
		return worktime.TimeEntry{}, fmt.Errorf("%w: end time is not HH:MM", ErrInvalidEntry)
	}

	if e.PauseDuration < 0 {
		return worktime.TimeEntry{}, fmt.Errorf("%w: pause must not be negative", ErrInvalidEntry)
	}
	if e.Type == worktime.Work && e.PauseDuration == 0 && e.StartTime != "" && e.EndTime != "" {
		e.PauseDuration = worktime.CalculateWorkDetailsOn(date, e.StartTime, e.EndTime, "", "").PauseDuration
	}

	e.Notes = strings.TrimSpace(e.Notes)
	return e, nil
}
