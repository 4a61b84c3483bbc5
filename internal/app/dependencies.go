package app

import (
	"github.com/flexkonto/flexkonto/internal/config"
	"github.com/flexkonto/flexkonto/internal/event_bus"
	"github.com/flexkonto/flexkonto/internal/utils"
	"github.com/flexkonto/flexkonto/pkg/balance"
	"github.com/flexkonto/flexkonto/pkg/time_entry"
	"github.com/flexkonto/flexkonto/pkg/user"
	"github.com/flexkonto/flexkonto/pkg/user_config"
	"github.com/flexkonto/flexkonto/pkg/worktime"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories are the storage backends the services are built on.
type Repositories struct {
	Users   user.Repository
	Configs user_config.Repository
	Entries time_entry.Repository
}

func PostgresRepositories(db *pgxpool.Pool) Repositories {
	return Repositories{
		Users:   user.NewRepository(db),
		Configs: user_config.NewRepository(db),
		Entries: time_entry.NewRepository(db),
	}
}

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus
	Clock    utils.Clock

	UserService user.Service
	UserHandler *user.Handler

	ConfigService *user_config.ServiceImpl
	ConfigHandler *user_config.Handler

	EntryService *time_entry.ServiceImpl
	EntryHandler *time_entry.Handler

	BalanceService    *balance.ServiceImpl
	CsvLedgerRenderer *balance.CsvLedgerRendererImpl
	BalanceHandler    *balance.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(repos Repositories, cfg config.Application, clock utils.Clock) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = clock

	deps.UserService = user.NewService(repos.Users)
	deps.UserHandler = user.NewHandler(deps.UserService)

	defaults := worktime.UserConfig{
		WeeklyTargetHours:  cfg.Defaults.WeeklyTargetHours,
		YearlyVacationDays: cfg.Defaults.YearlyVacationDays,
	}
	deps.ConfigService = user_config.NewService(repos.Configs, defaults, deps.EventBus)
	deps.ConfigHandler = user_config.NewHandler(deps.ConfigService)

	deps.EntryService = time_entry.NewService(repos.Entries, deps.EventBus)
	deps.EntryHandler = time_entry.NewHandler(deps.EntryService)

	deps.BalanceService = balance.NewService(deps.ConfigService, deps.EntryService, deps.Clock, deps.EventBus)
	deps.CsvLedgerRenderer = balance.NewCsvLedgerRenderer()
	deps.BalanceHandler = balance.NewHandler(deps.BalanceService, deps.CsvLedgerRenderer)

	return deps
}
