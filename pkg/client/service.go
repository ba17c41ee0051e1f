package client

import (
	"context"
	"fmt"

	"github.com/billbook/billbook/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	List(ctx context.Context) ([]Client, error)
	Get(ctx context.Context, id string) (Client, error)
	Create(ctx context.Context, client Client) (Client, error)
	Update(ctx context.Context, client Client) (Client, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *ServiceImpl) List(ctx context.Context) ([]Client, error) {
	return s.repo.List(ctx)
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Client, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) Create(ctx context.Context, client Client) (Client, error) {
	if err := client.Validate(); err != nil {
		return Client{}, err
	}
	client.Id = ""
	created, err := s.repo.Create(ctx, client)
	if err != nil {
		return Client{}, fmt.Errorf("failed to create client: %w", err)
	}
	s.publishSaved(ctx, created, true)
	return created, nil
}

func (s *ServiceImpl) Update(ctx context.Context, client Client) (Client, error) {
	if client.Id == "" {
		return Client{}, fmt.Errorf("%w: missing id", ErrInvalidClient)
	}
	if err := client.Validate(); err != nil {
		return Client{}, err
	}
	updated, err := s.repo.Update(ctx, client)
	if err != nil {
		return Client{}, err
	}
	s.publishSaved(ctx, updated, false)
	return updated, nil
}

// publishSaved notifies subscribers after the client is stored. The write is already done, so a
// subscriber failure is logged and not returned to the caller.
func (s *ServiceImpl) publishSaved(ctx context.Context, client Client, created bool) {
	if s.eventBus == nil {
		return
	}
	err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.ClientSavedType, event_bus.ClientSaved{
		Id:      client.Id,
		Name:    client.Name,
		Created: created,
	}))
	if err != nil {
		log.Errorf("failed to publish client saved event: %v", err)
	}
}
