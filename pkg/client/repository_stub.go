package client

import (
	"context"
	"fmt"
	"sync"
)

type RepositoryStub struct {
	mu      sync.RWMutex
	nextId  int
	clients map[string]Client
	order   []string
	err     error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{clients: map[string]Client{}}
}

func (s *RepositoryStub) List(ctx context.Context) ([]Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	clients := make([]Client, 0, len(s.order))
	for _, id := range s.order {
		clients = append(clients, s.clients[id])
	}
	return clients, nil
}

func (s *RepositoryStub) Get(ctx context.Context, id string) (Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return Client{}, s.err
	}
	c, exists := s.clients[id]
	if !exists {
		return Client{}, ErrClientNotFound
	}
	return c, nil
}

func (s *RepositoryStub) Create(ctx context.Context, client Client) (Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return Client{}, s.err
	}
	s.nextId++
	client.Id = fmt.Sprintf("%d", s.nextId)
	s.clients[client.Id] = client
	s.order = append(s.order, client.Id)
	return client, nil
}

func (s *RepositoryStub) Update(ctx context.Context, client Client) (Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return Client{}, s.err
	}
	if _, exists := s.clients[client.Id]; !exists {
		return Client{}, ErrClientNotFound
	}
	s.clients[client.Id] = client
	return client, nil
}

// FailWith makes every following call return err, nil resets it.
func (s *RepositoryStub) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *RepositoryStub) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextId = 0
	s.clients = map[string]Client{}
	s.order = nil
	s.err = nil
}
