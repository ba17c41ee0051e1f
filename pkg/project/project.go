package project

import (
	"errors"

	"github.com/billbook/billbook/pkg/client"
	"github.com/shopspring/decimal"
)

var ErrProjectNotFound = errors.New("project not found")

// Project is the single project a client owns. It has no storage of its own, its id is the
// owning client's id.
type Project struct {
	Id       string
	Name     string
	Budget   decimal.Decimal
	ClientId string
}

// FromClient derives the client's project. A client without a budget yields a zero budget.
func FromClient(c client.Client) Project {
	budget := decimal.Zero
	if c.Budget.Valid {
		budget = c.Budget.Decimal
	}
	return Project{
		Id:       c.Id,
		Name:     c.ProjectName,
		Budget:   budget,
		ClientId: c.Id,
	}
}
