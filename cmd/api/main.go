package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	appanalytics "github.com/jhoicas/marketplace-api/internal/application/analytics"
	"github.com/jhoicas/marketplace-api/internal/application/approval"
	"github.com/jhoicas/marketplace-api/internal/application/auth"
	"github.com/jhoicas/marketplace-api/internal/application/catalog"
	"github.com/jhoicas/marketplace-api/internal/application/order"
	"github.com/jhoicas/marketplace-api/internal/application/profile"
	"github.com/jhoicas/marketplace-api/internal/domain/policy"
	infrapdf "github.com/jhoicas/marketplace-api/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/marketplace-api/internal/interfaces/http"
	"github.com/jhoicas/marketplace-api/pkg/config"
	"github.com/jhoicas/marketplace-api/pkg/logger"
	"github.com/jhoicas/marketplace-api/pkg/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	metrics := httpRouter.NewMetrics("marketplace")
	engine := policy.NewEngine(store.roles, policy.WithDenialObserver(metrics))

	authUC := auth.NewAuthUseCase(store.accounts, store.roles, store.signUpTx, engine, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, cfg.Marketplace.BootstrapSuperadminEmail, log)
	profileUC := profile.NewUseCase(store.profiles, store.roles, engine)
	approvalUC := approval.NewUseCase(store.roles, store.profiles, store.audit, store.approvalTx, engine, log)
	businessUC := catalog.NewBusinessUseCase(store.businesses, store.profiles, engine, log)
	catalogUC := catalog.NewItemUseCase(store.catalog, store.businesses, store.roles, engine)

	// PDF: comprobante del pedido
	receipts := infrapdf.NewReceiptGenerator()
	orderUC := order.NewUseCase(store.orders, store.catalog, store.businesses, store.roles, store.accounts, receipts, engine, log)
	dashboardUC := appanalytics.NewDashboardUseCase(store.analytics, store.businesses, engine)

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:        cfg.App.Name,
		SwaggerFile: cfg.App.SwaggerFile,
		Logger:      log,
		Metrics:     metrics,
	}, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProfileUC:   profileUC,
		ApprovalUC:  approvalUC,
		BusinessUC:  businessUC,
		CatalogUC:   catalogUC,
		OrderUC:     orderUC,
		DashboardUC: dashboardUC,
		Validator:   validation.New(),
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
