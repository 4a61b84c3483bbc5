package user_config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flexkonto/flexkonto/pkg/worktime"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrConfigNotFound = errors.New("user config not found")

type Repository interface {
	Get(ctx context.Context, userId int) (worktime.UserConfig, error)
	// Upsert stores cfg as the user's config, replacing any previous one.
	Upsert(ctx context.Context, userId int, cfg worktime.UserConfig) (worktime.UserConfig, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Get(ctx context.Context, userId int) (worktime.UserConfig, error) {
	query := `SELECT weekly_target_hours, yearly_vacation_days, initial_overtime_minutes, vacation_carryover
			  FROM user_config WHERE user_id = $1`
	var cfg worktime.UserConfig
	var initialMinutes int
	err := r.db.QueryRow(ctx, query, userId).Scan(
		&cfg.WeeklyTargetHours,
		&cfg.YearlyVacationDays,
		&initialMinutes,
		&cfg.VacationCarryover,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return worktime.UserConfig{}, ErrConfigNotFound
	} else if err != nil {
		return worktime.UserConfig{}, fmt.Errorf("failed to get user config: %w", err)
	}
	cfg.InitialOvertimeBalance = time.Duration(initialMinutes) * time.Minute
	return cfg, nil
}

func (r *RepositoryImpl) Upsert(ctx context.Context, userId int, cfg worktime.UserConfig) (worktime.UserConfig, error) {
	query := `INSERT INTO user_config (user_id, weekly_target_hours, yearly_vacation_days, initial_overtime_minutes, vacation_carryover)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (user_id) DO UPDATE SET
			      weekly_target_hours = EXCLUDED.weekly_target_hours,
			      yearly_vacation_days = EXCLUDED.yearly_vacation_days,
			      initial_overtime_minutes = EXCLUDED.initial_overtime_minutes,
			      vacation_carryover = EXCLUDED.vacation_carryover,
			      updated_at = now()`
	_, err := r.db.Exec(ctx, query,
		userId,
		cfg.WeeklyTargetHours,
		cfg.YearlyVacationDays,
		int(cfg.InitialOvertimeBalance/time.Minute),
		cfg.VacationCarryover,
	)
	if err != nil {
		return worktime.UserConfig{}, fmt.Errorf("failed to store user config: %w", err)
	}
	return cfg, nil
}
