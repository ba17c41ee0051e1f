package event_bus

import (
	"time"

	"github.com/shopspring/decimal"
)

type ClientSaved struct {
	Id      string
	Name    string
	Created bool
}

type PaymentCreated struct {
	Id        string
	ProjectId string
	Date      time.Time
	Amount    decimal.Decimal
	Type      string
}
