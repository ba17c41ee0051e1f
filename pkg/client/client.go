package client

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrClientNotFound = errors.New("client not found")
var ErrInvalidClient = errors.New("invalid client")

// Client is a customer of the freelancer. Each client owns at most one project, described by
// ProjectName, Budget and DueDate.
type Client struct {
	Id          string
	Name        string
	Email       string
	Phone       string
	ProjectName string
	Budget      decimal.NullDecimal
	DueDate     *time.Time
}

func (c Client) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(c.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(c.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidClient, strings.Join(missing, ", "))
	}
	if c.Budget.Valid && c.Budget.Decimal.IsNegative() {
		return fmt.Errorf("%w: budget must not be negative", ErrInvalidClient)
	}
	return nil
}
