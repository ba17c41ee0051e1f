package app

import (
	"github.com/billbook/billbook/internal/config"
	"github.com/billbook/billbook/internal/event_bus"
	"github.com/billbook/billbook/pkg/client"
	"github.com/billbook/billbook/pkg/dashboard"
	"github.com/billbook/billbook/pkg/payment"
	"github.com/billbook/billbook/pkg/project"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus

	ClientService *client.ServiceImpl
	ClientHandler *client.Handler

	ProjectService *project.ServiceImpl
	ProjectHandler *project.Handler

	PaymentService *payment.ServiceImpl
	PaymentHandler *payment.Handler

	DashboardService *dashboard.ServiceImpl
	CsvRenderer      *dashboard.CsvRendererImpl
	DashboardHandler *dashboard.Handler
	BalanceMonitor   *dashboard.BalanceMonitor

	unsubscribe []func()
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(store *Store, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()

	deps.ClientService = client.NewService(store.Clients, deps.EventBus)
	deps.ClientHandler = client.NewHandler(deps.ClientService)

	deps.ProjectService = project.NewService(deps.ClientService)
	deps.ProjectHandler = project.NewHandler(deps.ProjectService)

	deps.PaymentService = payment.NewService(store.Payments, deps.ClientService, deps.EventBus)
	deps.PaymentHandler = payment.NewHandler(deps.PaymentService)

	deps.DashboardService = dashboard.NewService(
		deps.ClientService,
		deps.ProjectService,
		deps.PaymentService,
		cfg.Display.Location(),
		cfg.Display.Currency,
	)
	deps.CsvRenderer = dashboard.NewCsvRenderer(cfg.Display.Currency)
	deps.DashboardHandler = dashboard.NewHandler(deps.DashboardService, deps.CsvRenderer)

	deps.BalanceMonitor = dashboard.NewBalanceMonitor(deps.ProjectService, deps.PaymentService)
	deps.unsubscribe = append(deps.unsubscribe, deps.BalanceMonitor.Subscribe(deps.EventBus))

	return deps
}

func (d *Dependencies) Close() {
	for _, unsubscribe := range d.unsubscribe {
		unsubscribe()
	}
	d.unsubscribe = nil
}
