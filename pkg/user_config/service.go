package user_config

import (
	"context"
	"errors"
	"fmt"

	"github.com/flexkonto/flexkonto/internal/event_bus"
	"github.com/flexkonto/flexkonto/pkg/user"
	"github.com/flexkonto/flexkonto/pkg/worktime"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidConfig = errors.New("invalid user config")

type Service interface {
	// GetConfig returns the current user's config, storing the defaults on first access.
	GetConfig(ctx context.Context) (worktime.UserConfig, error)
	// GetConfigForUser is GetConfig for a user known by id, used outside requests.
	GetConfigForUser(ctx context.Context, userId int) (worktime.UserConfig, error)
	UpdateConfig(ctx context.Context, cfg worktime.UserConfig) (worktime.UserConfig, error)
}

type ServiceImpl struct {
	repo     Repository
	defaults worktime.UserConfig
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, defaults worktime.UserConfig, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, defaults: defaults, eventBus: eventBus}
}

func (s *ServiceImpl) GetConfig(ctx context.Context) (worktime.UserConfig, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return worktime.UserConfig{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.GetConfigForUser(ctx, userId)
}

func (s *ServiceImpl) GetConfigForUser(ctx context.Context, userId int) (worktime.UserConfig, error) {
	cfg, err := s.repo.Get(ctx, userId)
	if errors.Is(err, ErrConfigNotFound) {
		log.Debugf("no config for user %d, storing defaults", userId)
		return s.repo.Upsert(ctx, userId, s.defaults)
	}
	return cfg, err
}

func (s *ServiceImpl) UpdateConfig(ctx context.Context, cfg worktime.UserConfig) (worktime.UserConfig, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return worktime.UserConfig{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := validate(cfg); err != nil {
		return worktime.UserConfig{}, err
	}

	stored, err := s.repo.Upsert(ctx, userId, cfg)
	if err != nil {
		log.Errorf("failed to update config of user %d: %v", userId, err)
		return worktime.UserConfig{}, err
	}

	err = s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.UserConfigUpdatedType, event_bus.UserConfigUpdated{
		UserId:             userId,
		WeeklyTargetHours:  stored.WeeklyTargetHours,
		YearlyVacationDays: stored.YearlyVacationDays,
	}))
	if err != nil {
		log.Warnf("config of user %d stored but subscribers failed: %v", userId, err)
	}
	return stored, nil
}

func validate(cfg worktime.UserConfig) error {
	if cfg.WeeklyTargetHours < 0 || cfg.WeeklyTargetHours > 7*24 {
		return fmt.Errorf("%w: weekly target hours must be between 0 and 168", ErrInvalidConfig)
	}
	if cfg.YearlyVacationDays < 0 || cfg.YearlyVacationDays > 366 {
		return fmt.Errorf("%w: yearly vacation days must be between 0 and 366", ErrInvalidConfig)
	}
	return nil
}
