package user

import (
	"context"
	"sync"
)

type RepositoryStub struct {
	mu     sync.Mutex
	nextId int
	data   map[int]User
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{data: map[int]User{}}
}

func (s *RepositoryStub) CreateUser(ctx context.Context, user User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.data {
		if existing.Username == user.Username || existing.Uid == user.Uid {
			return User{}, ErrUsernameTaken
		}
	}
	s.nextId++
	user.Id = s.nextId
	s.data[user.Id] = user
	return user, nil
}

func (s *RepositoryStub) GetUser(ctx context.Context, id int) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.data[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (s *RepositoryStub) GetUserByUid(ctx context.Context, uid string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.data {
		if user.Uid == uid {
			return user, nil
		}
	}
	return User{}, ErrUserNotFound
}
