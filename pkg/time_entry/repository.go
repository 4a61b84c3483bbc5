package time_entry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flexkonto/flexkonto/pkg/worktime"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrEntryNotFound = errors.New("time entry not found")

const entryColumns = `id, entry_date, entry_type, value, start_time, end_time, pause_minutes, notes`

type Repository interface {
	WithTransaction(ctx context.Context, fn func(repo Repository) error) error
	// List returns all entries of the user, latest date first.
	List(ctx context.Context, userId int) ([]Entry, error)
	Get(ctx context.Context, userId int, id int) (Entry, error)
	Create(ctx context.Context, userId int, entries []worktime.TimeEntry) ([]Entry, error)
	Update(ctx context.Context, userId int, entry Entry) (Entry, error)
	Delete(ctx context.Context, userId int, id int) error
	DeleteAll(ctx context.Context, userId int) (int, error)
	// DeleteIds removes the given entries and returns how many existed.
	DeleteIds(ctx context.Context, userId int, ids []int) (int, error)
}

type repositoryImpl struct {
	db *pgxpool.Pool
	tx pgx.Tx
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) getQueryer() interface {
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *repositoryImpl) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	if r.tx != nil {
		return fn(r)
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		// no-op after a successful commit
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Errorf("rollback error: %v", rbErr)
		}
	}()

	if err := fn(&repositoryImpl{db: r.db, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *repositoryImpl) List(ctx context.Context, userId int) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entry WHERE user_id = $1 ORDER BY entry_date DESC, id`
	rows, err := r.getQueryer().Query(ctx, query, userId)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

func (r *repositoryImpl) Get(ctx context.Context, userId int, id int) (Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entry WHERE user_id = $1 AND id = $2`
	entry, err := scanEntry(r.getQueryer().QueryRow(ctx, query, userId, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, ErrEntryNotFound
	}
	return entry, err
}

func (r *repositoryImpl) Create(ctx context.Context, userId int, entries []worktime.TimeEntry) ([]Entry, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	const columnsPerRow = 8
	var valuesBuilder strings.Builder
	args := make([]any, 0, len(entries)*columnsPerRow)
	placeholder := 1
	for idx, e := range entries {
		if idx > 0 {
			valuesBuilder.WriteByte(',')
		}
		valuesBuilder.WriteString("(")
		for i := 0; i < columnsPerRow; i++ {
			if i > 0 {
				valuesBuilder.WriteByte(',')
			}
			fmt.Fprintf(&valuesBuilder, "$%d", placeholder)
			placeholder++
		}
		valuesBuilder.WriteString(")")

		args = append(args,
			userId,
			e.Date,
			string(e.Type),
			e.Value,
			e.StartTime,
			e.EndTime,
			int(e.PauseDuration/time.Minute),
			e.Notes,
		)
	}

	query := fmt.Sprintf(`INSERT INTO time_entry (
                            user_id,
                            entry_date,
                            entry_type,
                            value,
                            start_time,
                            end_time,
                            pause_minutes,
                            notes
                  ) VALUES %s RETURNING `+entryColumns, valuesBuilder.String())

	rows, err := r.getQueryer().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not create entries: %w", err)
	}
	return scanEntries(rows)
}

func (r *repositoryImpl) Update(ctx context.Context, userId int, entry Entry) (Entry, error) {
	query := `UPDATE time_entry
			  SET entry_date = $1, entry_type = $2, value = $3, start_time = $4, end_time = $5, pause_minutes = $6, notes = $7
			  WHERE user_id = $8 AND id = $9
			  RETURNING ` + entryColumns
	updated, err := scanEntry(r.getQueryer().QueryRow(ctx, query,
		entry.Date,
		string(entry.Type),
		entry.Value,
		entry.StartTime,
		entry.EndTime,
		int(entry.PauseDuration/time.Minute),
		entry.Notes,
		userId,
		entry.Id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, ErrEntryNotFound
	} else if err != nil {
		return Entry{}, fmt.Errorf("could not update entry: %w", err)
	}
	return updated, nil
}

func (r *repositoryImpl) Delete(ctx context.Context, userId int, id int) error {
	result, err := r.getQueryer().Exec(ctx, `DELETE FROM time_entry WHERE user_id = $1 AND id = $2`, userId, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *repositoryImpl) DeleteAll(ctx context.Context, userId int) (int, error) {
	result, err := r.getQueryer().Exec(ctx, `DELETE FROM time_entry WHERE user_id = $1`, userId)
	if err != nil {
		return 0, err
	}
	return int(result.RowsAffected()), nil
}

func (r *repositoryImpl) DeleteIds(ctx context.Context, userId int, ids []int) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := r.getQueryer().Exec(ctx, `DELETE FROM time_entry WHERE user_id = $1 AND id = ANY($2)`, userId, ids)
	if err != nil {
		return 0, err
	}
	return int(result.RowsAffected()), nil
}

func scanEntries(rows pgx.Rows) ([]Entry, error) {
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func scanEntry(row pgx.Row) (Entry, error) {
	var entry Entry
	var entryType string
	var pauseMinutes int
	err := row.Scan(
		&entry.Id,
		&entry.Date,
		&entryType,
		&entry.Value,
		&entry.StartTime,
		&entry.EndTime,
		&pauseMinutes,
		&entry.Notes,
	)
	if err != nil {
		return Entry{}, err
	}
	entry.Type = worktime.EntryType(entryType)
	entry.PauseDuration = time.Duration(pauseMinutes) * time.Minute
	return entry, nil
}
