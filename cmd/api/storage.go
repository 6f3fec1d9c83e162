package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/marketplace-api/internal/application/approval"
	"github.com/jhoicas/marketplace-api/internal/application/auth"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
	"github.com/jhoicas/marketplace-api/internal/infrastructure/memory"
	"github.com/jhoicas/marketplace-api/internal/infrastructure/postgres"
	"github.com/jhoicas/marketplace-api/pkg/config"
	"github.com/jhoicas/marketplace-api/pkg/logger"
)

// storage repositorios y runners transaccionales del driver elegido.
type storage struct {
	accounts   repository.AccountRepository
	roles      repository.RoleAssignmentRepository
	profiles   repository.ProfileRepository
	businesses repository.BusinessRepository
	catalog    repository.CatalogRepository
	orders     repository.OrderRepository
	audit      repository.ApprovalAuditRepository
	analytics  repository.AnalyticsRepository
	signUpTx   auth.SignUpTxRunner
	approvalTx approval.TxRunner
	close      func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	switch cfg.App.StorageDriver {
	case "memory":
		log.Warn().Msg("STORAGE_DRIVER=memory: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{
			accounts:   s.Accounts(),
			roles:      s.Roles(),
			profiles:   s.Profiles(),
			businesses: s.Businesses(),
			catalog:    s.Catalog(),
			orders:     s.Orders(),
			audit:      s.Audit(),
			analytics:  s.Analytics(),
			signUpTx:   s,
			approvalTx: s,
			close:      func() {},
		}, nil
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
			log.Info().Msg("migraciones aplicadas")
		}
		tx := postgres.NewTxRunner(pool)
		return &storage{
			accounts:   postgres.NewAccountRepository(pool),
			roles:      postgres.NewRoleAssignmentRepository(pool),
			profiles:   postgres.NewProfileRepository(pool),
			businesses: postgres.NewBusinessRepository(pool),
			catalog:    postgres.NewCatalogRepository(pool),
			orders:     postgres.NewOrderRepository(pool),
			audit:      postgres.NewApprovalAuditRepository(pool),
			analytics:  postgres.NewAnalyticsRepository(pool),
			signUpTx:   tx,
			approvalTx: tx,
			close:      pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER desconocido %q", cfg.App.StorageDriver)
	}
}
