package balance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flexkonto/flexkonto/internal/event_bus"
	"github.com/flexkonto/flexkonto/internal/utils"
	"github.com/flexkonto/flexkonto/pkg/user"
	"github.com/flexkonto/flexkonto/pkg/worktime"
	log "github.com/sirupsen/logrus"
)

// maxLedgerDays bounds a single ledger request.
const maxLedgerDays = 3660

var ErrInvalidRange = errors.New("invalid date range")
var ErrInvalidPunch = errors.New("invalid punch")

type Service interface {
	GetBalances(ctx context.Context) (worktime.Balances, error)
	GetLedger(ctx context.Context, from, to time.Time) ([]worktime.LedgerRow, error)
	Calculate(ctx context.Context, request CalculationRequest) (Calculation, error)
}

type ConfigReader interface {
	GetConfigForUser(ctx context.Context, userId int) (worktime.UserConfig, error)
}

type EntriesReader interface {
	EntriesForUser(ctx context.Context, userId int) ([]worktime.TimeEntry, error)
}

// CalculationRequest holds the punches of one day. A zero Date evaluates
// without a calendar.
type CalculationRequest struct {
	Date           time.Time
	T1, T2, T3, T4 string
}

type Calculation struct {
	worktime.WorkCalculation
	DailyTarget time.Duration
	// SuggestedEnd is the earliest end of the second block reaching the
	// daily target, empty when t1..t3 are incomplete or the day is too short.
	SuggestedEnd string
}

type ServiceImpl struct {
	configs ConfigReader
	entries EntriesReader
	clock   utils.Clock
}

func NewService(configs ConfigReader, entries EntriesReader, clock utils.Clock, eventBus *event_bus.EventBus) *ServiceImpl {
	service := &ServiceImpl{configs: configs, entries: entries, clock: clock}
	event_bus.SubscribeTyped[event_bus.TimeEntriesChanged](
		eventBus,
		event_bus.TimeEntriesChangedType,
		func(e event_bus.EventT[event_bus.TimeEntriesChanged]) error {
			log.Debugf("received entries changed event: %+v", e.Data)
			_, err := service.Refresh(e.Context(), e.Data.UserId)
			return err
		},
	)
	event_bus.SubscribeTyped[event_bus.UserConfigUpdated](
		eventBus,
		event_bus.UserConfigUpdatedType,
		func(e event_bus.EventT[event_bus.UserConfigUpdated]) error {
			log.Debugf("received config updated event: %+v", e.Data)
			_, err := service.Refresh(e.Context(), e.Data.UserId)
			return err
		},
	)
	return service
}

func (s *ServiceImpl) GetBalances(ctx context.Context) (worktime.Balances, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return worktime.Balances{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.balancesOf(ctx, userId)
}

// Refresh recomputes the balances of a user and logs them at debug level.
// It runs on every entry or config change and only serves observability;
// nothing is cached, GetBalances always computes afresh.
func (s *ServiceImpl) Refresh(ctx context.Context, userId int) (worktime.Balances, error) {
	if !log.IsLevelEnabled(log.DebugLevel) {
		return worktime.Balances{}, nil
	}
	balances, err := s.balancesOf(ctx, userId)
	if err != nil {
		log.Errorf("failed to refresh balances of user %d: %v", userId, err)
		return worktime.Balances{}, err
	}
	log.WithFields(log.Fields{
		"user":     userId,
		"today":    balances.Today.Format(worktime.DateLayout),
		"flex":     worktime.FormatDuration(balances.YearFlex),
		"overtime": worktime.FormatDuration(balances.Overtime),
		"vacation": balances.Vacation.String(),
	}).Debug("balances refreshed")
	return balances, nil
}

func (s *ServiceImpl) balancesOf(ctx context.Context, userId int) (worktime.Balances, error) {
	cfg, entries, err := s.load(ctx, userId)
	if err != nil {
		return worktime.Balances{}, err
	}
	return worktime.AggregateBalances(cfg, entries, s.clock.Now()), nil
}

func (s *ServiceImpl) GetLedger(ctx context.Context, from, to time.Time) ([]worktime.LedgerRow, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	from, to = worktime.DayOf(from), worktime.DayOf(to)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: %s is before %s", ErrInvalidRange, to.Format(worktime.DateLayout), from.Format(worktime.DateLayout))
	}
	if to.Sub(from) > maxLedgerDays*24*time.Hour {
		return nil, fmt.Errorf("%w: at most %d days", ErrInvalidRange, maxLedgerDays)
	}

	cfg, entries, err := s.load(ctx, userId)
	if err != nil {
		return nil, err
	}
	return worktime.Ledger(cfg, entries, from, to), nil
}

func (s *ServiceImpl) Calculate(ctx context.Context, request CalculationRequest) (Calculation, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Calculation{}, fmt.Errorf("failed to get current user: %w", err)
	}
	for i, punch := range []string{request.T1, request.T2, request.T3, request.T4} {
		if punch != "" && !worktime.IsValidClock(punch) {
			return Calculation{}, fmt.Errorf("%w: t%d %q is not HH:MM", ErrInvalidPunch, i+1, punch)
		}
	}

	cfg, err := s.configs.GetConfigForUser(ctx, userId)
	if err != nil {
		return Calculation{}, err
	}

	var result worktime.WorkCalculation
	if request.Date.IsZero() {
		result = worktime.CalculateWorkDetails(request.T1, request.T2, request.T3, request.T4)
	} else {
		result = worktime.CalculateWorkDetailsOn(request.Date, request.T1, request.T2, request.T3, request.T4)
	}

	calculation := Calculation{WorkCalculation: result, DailyTarget: cfg.DailyTarget()}
	if end, ok := worktime.SuggestEnd(request.Date, request.T1, request.T2, request.T3, cfg.DailyTarget()); ok {
		calculation.SuggestedEnd = end
	}
	return calculation, nil
}

func (s *ServiceImpl) load(ctx context.Context, userId int) (worktime.UserConfig, []worktime.TimeEntry, error) {
	cfg, err := s.configs.GetConfigForUser(ctx, userId)
	if err != nil {
		return worktime.UserConfig{}, nil, fmt.Errorf("failed to get config: %w", err)
	}
	entries, err := s.entries.EntriesForUser(ctx, userId)
	if err != nil {
		return worktime.UserConfig{}, nil, fmt.Errorf("failed to get entries: %w", err)
	}
	return cfg, entries, nil
}
