package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	List(ctx context.Context) ([]Client, error)
	Get(ctx context.Context, id string) (Client, error)
	Create(ctx context.Context, client Client) (Client, error)
	Update(ctx context.Context, client Client) (Client, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectClient = `SELECT id, name, email, phone, project_name, budget, due_date FROM client`

func (r *RepositoryImpl) List(ctx context.Context) ([]Client, error) {
	rows, err := r.db.Query(ctx, selectClient+` ORDER BY created, id`)
	if err != nil {
		err := fmt.Errorf("could not query clients: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	clients := make([]Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return clients, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id string) (Client, error) {
	c, err := scanClient(r.db.QueryRow(ctx, selectClient+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, ErrClientNotFound
		}
		err := fmt.Errorf("could not get client %s: %w", id, err)
		log.Error(err)
		return Client{}, err
	}
	return c, nil
}

func (r *RepositoryImpl) Create(ctx context.Context, client Client) (Client, error) {
	client.Id = uuid.NewString()
	query := `INSERT INTO client (id, name, email, phone, project_name, budget, due_date)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		client.Id,
		client.Name,
		client.Email,
		client.Phone,
		nullableString(client.ProjectName),
		client.Budget,
		client.DueDate,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return Client{}, err
	}
	return client, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, client Client) (Client, error) {
	query := `UPDATE client SET
                  name = $1,
                  email = $2,
                  phone = $3,
                  project_name = $4,
                  budget = $5,
                  due_date = $6
              WHERE id = $7`
	result, err := r.db.Exec(ctx, query,
		client.Name,
		client.Email,
		client.Phone,
		nullableString(client.ProjectName),
		client.Budget,
		client.DueDate,
		client.Id,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return Client{}, err
	}
	if result.RowsAffected() == 0 {
		return Client{}, ErrClientNotFound
	}
	return client, nil
}

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	var projectName *string
	err := row.Scan(&c.Id, &c.Name, &c.Email, &c.Phone, &projectName, &c.Budget, &c.DueDate)
	if err != nil {
		return Client{}, err
	}
	if projectName != nil {
		c.ProjectName = *projectName
	}
	return c, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
