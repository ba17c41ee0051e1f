package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/billbook/billbook/internal/event_bus"
	"github.com/billbook/billbook/pkg/client"
	log "github.com/sirupsen/logrus"
)

var ErrUnknownProject = errors.New("project not found")

// ClientReader resolves the client owning a project. Projects and clients share ids.
type ClientReader interface {
	Get(ctx context.Context, id string) (client.Client, error)
}

type Service interface {
	List(ctx context.Context) ([]Payment, error)
	ListByProject(ctx context.Context, projectId string) ([]Payment, error)
	Create(ctx context.Context, payment Payment) (Payment, error)
}

type ServiceImpl struct {
	repo     Repository
	clients  ClientReader
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, clients ClientReader, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, clients: clients, eventBus: eventBus}
}

func (s *ServiceImpl) List(ctx context.Context) ([]Payment, error) {
	return s.repo.List(ctx)
}

func (s *ServiceImpl) ListByProject(ctx context.Context, projectId string) ([]Payment, error) {
	return s.repo.ListByProject(ctx, projectId)
}

// Create validates and stores a new payment. The owning client must exist; its name is copied
// onto the payment when the caller did not provide one.
func (s *ServiceImpl) Create(ctx context.Context, payment Payment) (Payment, error) {
	if err := payment.Validate(); err != nil {
		return Payment{}, err
	}
	owner, err := s.clients.Get(ctx, payment.ProjectId)
	if err != nil {
		if errors.Is(err, client.ErrClientNotFound) {
			return Payment{}, fmt.Errorf("%w: %s", ErrUnknownProject, payment.ProjectId)
		}
		return Payment{}, fmt.Errorf("failed to resolve project %s: %w", payment.ProjectId, err)
	}
	if payment.ClientName == "" {
		payment.ClientName = owner.Name
	}
	payment.Id = ""

	created, err := s.repo.Create(ctx, payment)
	if err != nil {
		return Payment{}, fmt.Errorf("failed to create payment: %w", err)
	}

	if s.eventBus != nil {
		err = s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.PaymentCreatedType, event_bus.PaymentCreated{
			Id:        created.Id,
			ProjectId: created.ProjectId,
			Date:      created.Date,
			Amount:    created.Amount,
			Type:      string(created.Type),
		}))
		if err != nil {
			log.Errorf("failed to publish payment created event: %v", err)
		}
	}
	return created, nil
}
