package main

import (
	"context"
	"fmt"

	"github.com/artem13815/accounts/pkg/auth"
	"github.com/artem13815/accounts/pkg/config"
	"github.com/artem13815/accounts/pkg/health"
	"github.com/artem13815/accounts/pkg/health/checkers"
	"github.com/artem13815/accounts/pkg/repository/memory"
	mongorepo "github.com/artem13815/accounts/pkg/repository/mongo"
	pgrepo "github.com/artem13815/accounts/pkg/repository/postgres"
	mongostore "github.com/artem13815/accounts/pkg/storage/mongo"
	"github.com/artem13815/accounts/pkg/storage/postgres"
)

// userStore bundles the selected repository with its readiness probe.
type userStore struct {
	users   auth.UserRepository
	checker health.Checker
	close   func()
}

func openStore(ctx context.Context, cfg *config.Config) (userStore, error) {
	kind, err := cfg.StoreKind()
	if err != nil {
		return userStore{}, err
	}

	switch kind {
	case config.StorePostgres:
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return userStore{}, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return userStore{}, err
		}
		return userStore{
			users:   pgrepo.NewUserRepository(pool),
			checker: checkers.NewPostgresChecker(pool),
			close:   pool.Close,
		}, nil

	case config.StoreMongo:
		client, err := mongostore.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return userStore{}, err
		}
		repo, err := mongorepo.NewUserRepository(ctx, client.Database(cfg.DatabaseName))
		if err != nil {
			_ = client.Disconnect(context.Background())
			return userStore{}, err
		}
		return userStore{
			users:   repo,
			checker: checkers.NewMongoChecker(client),
			close:   func() { _ = client.Disconnect(context.Background()) },
		}, nil

	case config.StoreMemory:
		return userStore{
			users:   memory.NewUserRepository(),
			checker: checkers.NewPingChecker("memory", func(context.Context) error { return nil }),
			close:   func() {},
		}, nil
	}
	return userStore{}, fmt.Errorf("unsupported store %q", kind)
}
