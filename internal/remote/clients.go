package remote

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/billbook/billbook/internal/utils"
	"github.com/billbook/billbook/pkg/client"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type clientRecord struct {
	Id          id                  `json:"id,omitempty"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	Phone       string              `json:"phone"`
	ProjectName string              `json:"projectName,omitempty"`
	Budget      decimal.NullDecimal `json:"budget"`
	DueDate     string              `json:"dueDate,omitempty"`
}

type clientBody struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	ProjectName string   `json:"projectName,omitempty"`
	Budget      *float64 `json:"budget,omitempty"`
	DueDate     string   `json:"dueDate,omitempty"`
}

// ClientRepository is a client.Repository backed by the /clients resource.
type ClientRepository struct {
	remote *Client
}

func NewClientRepository(remote *Client) *ClientRepository {
	return &ClientRepository{remote: remote}
}

func (r *ClientRepository) List(ctx context.Context) ([]client.Client, error) {
	var records []clientRecord
	if err := r.remote.get(ctx, "/clients", nil, &records); err != nil {
		return nil, err
	}
	clients := make([]client.Client, 0, len(records))
	for _, record := range records {
		clients = append(clients, record.toClient())
	}
	return clients, nil
}

func (r *ClientRepository) Get(ctx context.Context, clientId string) (client.Client, error) {
	var record clientRecord
	err := r.remote.get(ctx, "/clients/"+url.PathEscape(clientId), nil, &record)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return client.Client{}, fmt.Errorf("%w: %w", client.ErrClientNotFound, err)
		}
		return client.Client{}, err
	}
	return record.toClient(), nil
}

func (r *ClientRepository) Create(ctx context.Context, c client.Client) (client.Client, error) {
	var record clientRecord
	if err := r.remote.send(ctx, "POST", "/clients", toClientBody(c), &record); err != nil {
		return client.Client{}, err
	}
	return record.toClient(), nil
}

func (r *ClientRepository) Update(ctx context.Context, c client.Client) (client.Client, error) {
	var record clientRecord
	err := r.remote.send(ctx, "PUT", "/clients/"+url.PathEscape(c.Id), toClientBody(c), &record)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return client.Client{}, fmt.Errorf("%w: %w", client.ErrClientNotFound, err)
		}
		return client.Client{}, err
	}
	return record.toClient(), nil
}

func (r clientRecord) toClient() client.Client {
	c := client.Client{
		Id:          string(r.Id),
		Name:        r.Name,
		Email:       r.Email,
		Phone:       r.Phone,
		ProjectName: r.ProjectName,
		Budget:      r.Budget,
	}
	if r.DueDate != "" {
		dueDate, err := utils.ParseDate(r.DueDate)
		if err != nil {
			log.Warnf("Ignoring due date of client %s: %v", r.Id, err)
		} else {
			c.DueDate = &dueDate
		}
	}
	return c
}

func toClientBody(c client.Client) clientBody {
	body := clientBody{
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		ProjectName: c.ProjectName,
	}
	if c.Budget.Valid {
		budget := c.Budget.Decimal.InexactFloat64()
		body.Budget = &budget
	}
	if c.DueDate != nil {
		body.DueDate = c.DueDate.In(time.UTC).Format(utils.DateLayout)
	}
	return body
}
