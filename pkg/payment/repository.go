package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	List(ctx context.Context) ([]Payment, error)
	ListByProject(ctx context.Context, projectId string) ([]Payment, error)
	Create(ctx context.Context, payment Payment) (Payment, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectPayment = `SELECT id, client_name, date, amount, project_id, type FROM payment`

func (r *RepositoryImpl) List(ctx context.Context) ([]Payment, error) {
	return r.query(ctx, selectPayment+` ORDER BY created, id`)
}

func (r *RepositoryImpl) ListByProject(ctx context.Context, projectId string) ([]Payment, error) {
	return r.query(ctx, selectPayment+` WHERE project_id = $1 ORDER BY created, id`, projectId)
}

func (r *RepositoryImpl) Create(ctx context.Context, payment Payment) (Payment, error) {
	payment.Id = uuid.NewString()
	query := `INSERT INTO payment (id, client_name, date, amount, project_id, type)
				VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query,
		payment.Id,
		payment.ClientName,
		payment.Date,
		payment.Amount,
		payment.ProjectId,
		string(payment.Type),
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return Payment{}, err
	}
	return payment, nil
}

func (r *RepositoryImpl) query(ctx context.Context, query string, args ...any) ([]Payment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query payments: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	payments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Payment, error) {
		var p Payment
		var paymentType string
		err := row.Scan(&p.Id, &p.ClientName, &p.Date, &p.Amount, &p.ProjectId, &paymentType)
		p.Type = Type(paymentType)
		return p, err
	})
	if err != nil {
		err := fmt.Errorf("error scanning rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return payments, nil
}
