package dashboard

import (
	"time"

	"github.com/billbook/billbook/pkg/aggregator"
	"github.com/billbook/billbook/pkg/payment"
	"github.com/billbook/billbook/pkg/project"
	"github.com/shopspring/decimal"
)

const TimelineLabelLayout = "Jan 2"

// Summary feeds the total earnings and client count widgets.
type Summary struct {
	TotalEarnings  decimal.Decimal
	ClientCount    int
	ConsultingFees decimal.Decimal
	Bonuses        decimal.Decimal
	Skipped        int
	Currency       string
}

// Overview is the per-day bar chart, optionally narrowed to one project.
type Overview struct {
	ProjectId string
	Groups    []aggregator.DateGroup
	Total     decimal.Decimal
	// Undated payments are part of Total but of no group.
	Undated int
}

type Calendar struct {
	Month time.Time
	Days  []aggregator.DateGroup
}

type TimelineEntry struct {
	Payment payment.Payment
	Label   string
}

type ProjectBalance struct {
	Project project.Project
	aggregator.Balance
}
