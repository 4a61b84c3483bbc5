package user_config

import (
	"context"
	"sync"

	"github.com/flexkonto/flexkonto/pkg/worktime"
)

type RepositoryStub struct {
	mu      sync.Mutex
	configs map[int]worktime.UserConfig
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{configs: map[int]worktime.UserConfig{}}
}

func (s *RepositoryStub) Get(ctx context.Context, userId int) (worktime.UserConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg, ok := s.configs[userId]
	if !ok {
		return worktime.UserConfig{}, ErrConfigNotFound
	}
	return cfg, nil
}

func (s *RepositoryStub) Upsert(ctx context.Context, userId int, cfg worktime.UserConfig) (worktime.UserConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[userId] = cfg
	return cfg, nil
}
