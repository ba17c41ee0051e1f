package dashboard

import (
	"context"
	"fmt"

	"github.com/billbook/billbook/internal/event_bus"
	"github.com/billbook/billbook/pkg/aggregator"
	log "github.com/sirupsen/logrus"
)

// BalanceMonitor warns when a project ends up past its budget, either because a payment was
// recorded or because the client's budget was lowered. The stored budget is left as it is.
type BalanceMonitor struct {
	projects ProjectReader
	payments PaymentReader
}

func NewBalanceMonitor(projects ProjectReader, payments PaymentReader) *BalanceMonitor {
	return &BalanceMonitor{projects: projects, payments: payments}
}

func (m *BalanceMonitor) Subscribe(bus *event_bus.EventBus) (unsubscribe func()) {
	unsubscribePayments := event_bus.SubscribeTyped(bus, event_bus.PaymentCreatedType,
		func(e event_bus.EventT[event_bus.PaymentCreated]) error {
			return m.check(e.Context(), e.Data.ProjectId, "payment "+e.Data.Id)
		})
	unsubscribeClients := event_bus.SubscribeTyped(bus, event_bus.ClientSavedType,
		func(e event_bus.EventT[event_bus.ClientSaved]) error {
			if e.Data.Created {
				return nil
			}
			return m.check(e.Context(), e.Data.Id, "budget change of client "+e.Data.Name)
		})
	return func() {
		unsubscribePayments()
		unsubscribeClients()
	}
}

func (m *BalanceMonitor) check(ctx context.Context, projectId string, cause string) error {
	p, err := m.projects.Get(ctx, projectId)
	if err != nil {
		return fmt.Errorf("failed to load project %s: %w", projectId, err)
	}
	payments, err := m.payments.ListByProject(ctx, p.Id)
	if err != nil {
		return fmt.Errorf("failed to load payments of project %s: %w", p.Id, err)
	}

	remaining := aggregator.RemainingBalance(p, payments)
	if remaining.IsNegative() {
		log.Warnf("Project %s (%s) is overpaid by %s after %s", p.Id, p.Name, remaining.Neg().StringFixed(2), cause)
	} else {
		log.Debugf("Project %s remaining balance %s", p.Id, remaining.StringFixed(2))
	}
	return nil
}
