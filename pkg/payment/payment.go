package payment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidPayment = errors.New("invalid payment")

// Type classifies a payment. Only ConsultingFee payments are deducted from a project's budget.
type Type string

const (
	ConsultingFee Type = "Consulting Fee"
	Bonus         Type = "Bonus"
)

var Types = []Type{ConsultingFee, Bonus}

func (t Type) Valid() bool {
	return t == ConsultingFee || t == Bonus
}

// Payment is immutable once stored. ClientName is a copy of the owning client's name taken when
// the payment was recorded, ProjectId is the owning project (and client) id.
type Payment struct {
	Id         string
	ClientName string
	Date       time.Time
	Amount     decimal.Decimal
	ProjectId  string
	Type       Type
}

// Dated reports whether the payment carries a calendar date. Stores outside our control may hand
// back records without one.
func (p Payment) Dated() bool {
	return !p.Date.IsZero()
}

func (p Payment) Validate() error {
	var problems []string
	if !p.Amount.IsPositive() {
		problems = append(problems, "amount must be greater than zero")
	}
	if !p.Type.Valid() {
		problems = append(problems, fmt.Sprintf("type must be one of %q, %q", ConsultingFee, Bonus))
	}
	if p.Date.IsZero() {
		problems = append(problems, "date is required")
	}
	if strings.TrimSpace(p.ProjectId) == "" {
		problems = append(problems, "projectId is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidPayment, strings.Join(problems, "; "))
	}
	return nil
}
