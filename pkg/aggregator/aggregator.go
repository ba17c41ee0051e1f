// Package aggregator computes payment summaries over an in-memory snapshot of payments. Every
// function is pure: it reads its arguments, never modifies them and keeps no state between calls.
//
// Records with a type outside the payment enumeration never make a computation fail. They are left
// out of per-type figures, still count towards amount totals, and are reported through Skipped
// counters.
package aggregator

import (
	"sort"
	"time"

	"github.com/billbook/billbook/pkg/client"
	"github.com/billbook/billbook/pkg/payment"
	"github.com/billbook/billbook/pkg/project"
	"github.com/shopspring/decimal"
)

// AllProjects is the FilterByProject selector that keeps every payment.
const AllProjects = "all"

const (
	DateLabelLayout = "02 Jan 2006"
	UnknownName     = "Unknown"
	dateKeyLayout   = "2006-01-02"
)

type TypeTotals struct {
	ConsultingFee decimal.Decimal
	Bonus         decimal.Decimal
	// Skipped counts payments left out because of an unknown type.
	Skipped int
}

// Sum is the total of both type buckets.
func (t TypeTotals) Sum() decimal.Decimal {
	return t.ConsultingFee.Add(t.Bonus)
}

func TotalsByType(payments []payment.Payment) TypeTotals {
	totals := TypeTotals{ConsultingFee: decimal.Zero, Bonus: decimal.Zero}
	for _, p := range payments {
		switch p.Type {
		case payment.ConsultingFee:
			totals.ConsultingFee = totals.ConsultingFee.Add(p.Amount)
		case payment.Bonus:
			totals.Bonus = totals.Bonus.Add(p.Amount)
		default:
			totals.Skipped++
		}
	}
	return totals
}

// TotalAmount sums every payment regardless of type.
func TotalAmount(payments []payment.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

// RemainingBalance is the project's budget minus the consulting fees paid for it. Bonuses and
// payments of other projects are ignored. An overpaid project has a negative balance.
func RemainingBalance(p project.Project, payments []payment.Payment) decimal.Decimal {
	paid := decimal.Zero
	for _, pay := range payments {
		if pay.ProjectId == p.Id && pay.Type == payment.ConsultingFee {
			paid = paid.Add(pay.Amount)
		}
	}
	return p.Budget.Sub(paid)
}

type Balance struct {
	Budget    decimal.Decimal
	Paid      decimal.Decimal
	Bonuses   decimal.Decimal
	Remaining decimal.Decimal
	Skipped   int
}

func (b Balance) Overpaid() bool {
	return b.Remaining.IsNegative()
}

// ProjectBalance gathers the figures of a project's payment summary in one pass over the
// project's payments.
func ProjectBalance(p project.Project, payments []payment.Payment) Balance {
	totals := TotalsByType(FilterByProject(payments, p.Id))
	return Balance{
		Budget:    p.Budget,
		Paid:      totals.ConsultingFee,
		Bonuses:   totals.Bonus,
		Remaining: RemainingBalance(p, payments),
		Skipped:   totals.Skipped,
	}
}

// FilterByProject keeps the payments of one project. The AllProjects selector returns the input
// unchanged.
func FilterByProject(payments []payment.Payment, projectId string) []payment.Payment {
	if projectId == AllProjects {
		return payments
	}
	filtered := make([]payment.Payment, 0)
	for _, p := range payments {
		if p.ProjectId == projectId {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

type GroupedPayment struct {
	payment.Payment
	DisplayName string
	// TypeLabel is empty for payments with an unknown type.
	TypeLabel string
}

type DateGroup struct {
	Date     time.Time
	Label    string
	Total    decimal.Decimal
	Payments []GroupedPayment
	// Skipped counts grouped payments with an unknown type. They are part of Total.
	Skipped int
}

// GroupByCalendarDate merges payments made on the same calendar date and orders the groups by
// date, oldest first. Ordering uses the date itself, never the label. Payments inside a group keep
// their input order. Undated payments belong to no group, see Undated. names maps project ids to
// display names, see DisplayNames.
func GroupByCalendarDate(payments []payment.Payment, names map[string]string) []DateGroup {
	index := make(map[string]int)
	groups := make([]DateGroup, 0)
	for _, p := range payments {
		if !p.Dated() {
			continue
		}
		key := p.Date.Format(dateKeyLayout)
		i, exists := index[key]
		if !exists {
			date := time.Date(p.Date.Year(), p.Date.Month(), p.Date.Day(), 0, 0, 0, 0, time.UTC)
			groups = append(groups, DateGroup{Date: date, Label: date.Format(DateLabelLayout), Total: decimal.Zero})
			i = len(groups) - 1
			index[key] = i
		}
		g := &groups[i]
		g.Total = g.Total.Add(p.Amount)
		grouped := GroupedPayment{Payment: p, DisplayName: displayName(p, names)}
		if p.Type.Valid() {
			grouped.TypeLabel = string(p.Type)
		} else {
			g.Skipped++
		}
		g.Payments = append(g.Payments, grouped)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Date.Before(groups[j].Date)
	})
	return groups
}

// Undated counts the payments GroupByCalendarDate leaves out for lack of a date. They still count
// in TotalAmount and TotalsByType.
func Undated(payments []payment.Payment) int {
	undated := 0
	for _, p := range payments {
		if !p.Dated() {
			undated++
		}
	}
	return undated
}

// DisplayNames builds the project id to client name table used by GroupByCalendarDate. A
// client's project shares the client's id.
func DisplayNames(clients []client.Client) map[string]string {
	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.Id] = c.Name
	}
	return names
}

func displayName(p payment.Payment, names map[string]string) string {
	if name, ok := names[p.ProjectId]; ok && name != "" {
		return name
	}
	if p.ClientName != "" {
		return p.ClientName
	}
	return UnknownName
}
