package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/billbook/billbook/internal/utils"
	"github.com/billbook/billbook/pkg/aggregator"
	"github.com/billbook/billbook/pkg/client"
	"github.com/billbook/billbook/pkg/payment"
	"github.com/billbook/billbook/pkg/project"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidMonth = errors.New("invalid month")

type ClientLister interface {
	List(ctx context.Context) ([]client.Client, error)
}

type ProjectReader interface {
	Get(ctx context.Context, id string) (project.Project, error)
}

type PaymentReader interface {
	List(ctx context.Context) ([]payment.Payment, error)
	ListByProject(ctx context.Context, projectId string) ([]payment.Payment, error)
}

type Service interface {
	Summary(ctx context.Context) (Summary, error)
	Overview(ctx context.Context, projectId string) (Overview, error)
	Calendar(ctx context.Context, month string) (Calendar, error)
	Timeline(ctx context.Context) ([]TimelineEntry, error)
	ProjectBalance(ctx context.Context, projectId string) (ProjectBalance, error)
}

// ServiceImpl fetches a fresh snapshot on every call and hands it to the aggregator. Nothing is
// cached between calls.
type ServiceImpl struct {
	clients  ClientLister
	projects ProjectReader
	payments PaymentReader
	clock    utils.Clock
	location *time.Location
	currency string
}

func NewService(
	clients ClientLister,
	projects ProjectReader,
	payments PaymentReader,
	location *time.Location,
	currency string,
) *ServiceImpl {
	if location == nil {
		location = time.UTC
	}
	return &ServiceImpl{
		clients:  clients,
		projects: projects,
		payments: payments,
		clock:    &utils.SystemClock{},
		location: location,
		currency: currency,
	}
}

func (s *ServiceImpl) Summary(ctx context.Context) (Summary, error) {
	clients, err := s.clients.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load clients: %w", err)
	}
	payments, err := s.payments.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load payments: %w", err)
	}

	totals := aggregator.TotalsByType(payments)
	warnSkipped("summary", totals.Skipped)
	return Summary{
		TotalEarnings:  aggregator.TotalAmount(payments),
		ClientCount:    len(clients),
		ConsultingFees: totals.ConsultingFee,
		Bonuses:        totals.Bonus,
		Skipped:        totals.Skipped,
		Currency:       s.currency,
	}, nil
}

// Overview groups payments per day. An empty selector means every project.
func (s *ServiceImpl) Overview(ctx context.Context, projectId string) (Overview, error) {
	if projectId == "" {
		projectId = aggregator.AllProjects
	}
	payments, names, err := s.snapshot(ctx)
	if err != nil {
		return Overview{}, err
	}

	selected := aggregator.FilterByProject(payments, projectId)
	groups := aggregator.GroupByCalendarDate(selected, names)
	warnSkipped("overview", skippedIn(groups))
	undated := aggregator.Undated(selected)
	if undated > 0 {
		log.Warnf("overview: %d payments without a date left out of the chart", undated)
	}
	return Overview{
		ProjectId: projectId,
		Groups:    groups,
		Total:     aggregator.TotalAmount(selected),
		Undated:   undated,
	}, nil
}

// Calendar returns the payment days of a month given as YYYY-MM. An empty month means the current
// month in the display timezone.
func (s *ServiceImpl) Calendar(ctx context.Context, month string) (Calendar, error) {
	start, err := s.parseMonth(month)
	if err != nil {
		return Calendar{}, err
	}
	payments, names, err := s.snapshot(ctx)
	if err != nil {
		return Calendar{}, err
	}

	inMonth := make([]payment.Payment, 0)
	for _, p := range payments {
		if p.Dated() && p.Date.Year() == start.Year() && p.Date.Month() == start.Month() {
			inMonth = append(inMonth, p)
		}
	}
	groups := aggregator.GroupByCalendarDate(inMonth, names)
	warnSkipped("calendar", skippedIn(groups))
	return Calendar{Month: start, Days: groups}, nil
}

func (s *ServiceImpl) Timeline(ctx context.Context) ([]TimelineEntry, error) {
	payments, err := s.payments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	ordered := make([]payment.Payment, 0, len(payments))
	for _, p := range payments {
		if p.Dated() {
			ordered = append(ordered, p)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	entries := make([]TimelineEntry, 0, len(ordered))
	for _, p := range ordered {
		entries = append(entries, TimelineEntry{Payment: p, Label: p.Date.Format(TimelineLabelLayout)})
	}
	return entries, nil
}

func (s *ServiceImpl) ProjectBalance(ctx context.Context, projectId string) (ProjectBalance, error) {
	p, err := s.projects.Get(ctx, projectId)
	if err != nil {
		return ProjectBalance{}, err
	}
	payments, err := s.payments.ListByProject(ctx, projectId)
	if err != nil {
		return ProjectBalance{}, fmt.Errorf("failed to load payments of project %s: %w", projectId, err)
	}
	balance := aggregator.ProjectBalance(p, payments)
	warnSkipped("project balance", balance.Skipped)
	return ProjectBalance{Project: p, Balance: balance}, nil
}

func (s *ServiceImpl) snapshot(ctx context.Context) ([]payment.Payment, map[string]string, error) {
	payments, err := s.payments.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load payments: %w", err)
	}
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load clients: %w", err)
	}
	return payments, aggregator.DisplayNames(clients), nil
}

func (s *ServiceImpl) parseMonth(month string) (time.Time, error) {
	if month == "" {
		return utils.MonthStart(s.clock.Now(), s.location), nil
	}
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q, expected YYYY-MM", ErrInvalidMonth, month)
	}
	return start, nil
}

func skippedIn(groups []aggregator.DateGroup) int {
	skipped := 0
	for _, g := range groups {
		skipped += g.Skipped
	}
	return skipped
}

func warnSkipped(view string, skipped int) {
	if skipped > 0 {
		log.Warnf("%s: %d payments with an unknown type left out of per-type figures", view, skipped)
	}
}
