package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/billbook/billbook/pkg/client"
)

type Service interface {
	List(ctx context.Context) ([]Project, error)
	Get(ctx context.Context, id string) (Project, error)
}

type ServiceImpl struct {
	clients client.Service
}

func NewService(clients client.Service) *ServiceImpl {
	return &ServiceImpl{clients: clients}
}

func (s *ServiceImpl) List(ctx context.Context) ([]Project, error) {
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	projects := make([]Project, 0, len(clients))
	for _, c := range clients {
		projects = append(projects, FromClient(c))
	}
	return projects, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Project, error) {
	c, err := s.clients.Get(ctx, id)
	if err != nil {
		if errors.Is(err, client.ErrClientNotFound) {
			return Project{}, ErrProjectNotFound
		}
		return Project{}, fmt.Errorf("failed to get client %s: %w", id, err)
	}
	return FromClient(c), nil
}
