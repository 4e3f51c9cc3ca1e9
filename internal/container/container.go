package container

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-network/config"
	"github.com/oksasatya/go-social-network/internal/application"
	"github.com/oksasatya/go-social-network/internal/domain/repository"
	"github.com/oksasatya/go-social-network/internal/infrastructure/memory"
	"github.com/oksasatya/go-social-network/internal/infrastructure/postgres"
	"github.com/oksasatya/go-social-network/pkg/helpers"
)

// Pinger is the store health probe used by /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Container carries the constructed infrastructure that the router wires
// into services and handlers. Optional integrations stay nil when disabled;
// assign them only with non-nil values.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	JWT    *helpers.JWTManager

	Users repository.UserRepository
	Posts repository.PostRepository
	DB    Pinger

	Index   repository.UserSearchIndex // optional
	Events  application.EventPublisher // optional
	Avatars application.AvatarStore    // optional
}

type alwaysUp struct{}

func (alwaysUp) Ping(context.Context) error { return nil }

// NewMemory builds a container backed by the in-memory store.
func NewMemory(cfg *config.Config, logger *logrus.Logger, jwt *helpers.JWTManager) *Container {
	users := memory.NewUserRepository()
	return &Container{
		Config: cfg,
		Logger: logger,
		JWT:    jwt,
		Users:  users,
		Posts:  memory.NewPostRepository(users),
		DB:     alwaysUp{},
	}
}

// NewPostgres builds a container backed by pool.
func NewPostgres(cfg *config.Config, logger *logrus.Logger, jwt *helpers.JWTManager, pool *pgxpool.Pool) *Container {
	return &Container{
		Config: cfg,
		Logger: logger,
		JWT:    jwt,
		Users:  postgres.NewUserRepository(pool),
		Posts:  postgres.NewPostRepository(pool),
		DB:     pool,
	}
}

// Open builds the container for cfg.StorageDriver. For postgres it connects
// with retry and applies migrations. The returned func releases the store.
// jwt may be nil for processes that serve no HTTP routes.
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Logger, jwt *helpers.JWTManager) (*Container, func(), error) {
	if cfg.StorageDriver == "memory" {
		logger.Warn("using in-memory store; data is lost on restart")
		return NewMemory(cfg, logger, jwt), func() {}, nil
	}

	pool, err := postgres.Connect(ctx, postgres.PoolConfig{
		DSN:         cfg.PostgresDSN(),
		MaxConns:    cfg.DBMaxConns,
		MinConns:    cfg.DBMinConns,
		MaxConnLife: cfg.DBMaxConnLife,
		Attempts:    cfg.DBConnectTries,
		RetryDelay:  cfg.DBConnectDelay,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return NewPostgres(cfg, logger, jwt, pool), pool.Close, nil
}
