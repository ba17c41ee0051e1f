package app

import (
	"context"
	"fmt"

	"github.com/billbook/billbook/internal/config"
	"github.com/billbook/billbook/internal/database"
	"github.com/billbook/billbook/internal/remote"
	"github.com/billbook/billbook/pkg/client"
	"github.com/billbook/billbook/pkg/payment"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Store holds the repositories of the configured backend.
type Store struct {
	Clients  client.Repository
	Payments payment.Repository
	pool     *pgxpool.Pool
}

func OpenStore(ctx context.Context, cfg config.Application) (*Store, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres, "":
		pool, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(cfg.Database); err != nil {
			pool.Close()
			return nil, err
		}
		return &Store{
			Clients:  client.NewRepository(pool),
			Payments: payment.NewRepository(pool),
			pool:     pool,
		}, nil
	case config.BackendRemote:
		log.Infof("Using remote store at %s", cfg.Store.Remote.BaseUrl)
		remoteClient := remote.NewClient(cfg.Store.Remote)
		return &Store{
			Clients:  remote.NewClientRepository(remoteClient),
			Payments: remote.NewPaymentRepository(remoteClient),
		}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
