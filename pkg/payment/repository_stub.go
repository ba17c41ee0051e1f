package payment

import (
	"context"
	"fmt"
	"sync"
)

type RepositoryStub struct {
	mu       sync.RWMutex
	nextId   int
	payments []Payment
	err      error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{}
}

func (s *RepositoryStub) List(ctx context.Context) ([]Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	payments := make([]Payment, len(s.payments))
	copy(payments, s.payments)
	return payments, nil
}

func (s *RepositoryStub) ListByProject(ctx context.Context, projectId string) ([]Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	payments := make([]Payment, 0)
	for _, p := range s.payments {
		if p.ProjectId == projectId {
			payments = append(payments, p)
		}
	}
	return payments, nil
}

func (s *RepositoryStub) Create(ctx context.Context, payment Payment) (Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return Payment{}, s.err
	}
	s.nextId++
	payment.Id = fmt.Sprintf("pay-%d", s.nextId)
	s.payments = append(s.payments, payment)
	return payment, nil
}

// Add stores payments as they are, without validation, to seed tests with records a real store
// might hand back.
func (s *RepositoryStub) Add(payments ...Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = append(s.payments, payments...)
}

func (s *RepositoryStub) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *RepositoryStub) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextId = 0
	s.payments = nil
	s.err = nil
}
