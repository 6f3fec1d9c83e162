package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/marketplace-api/internal/application/analytics"
	"github.com/jhoicas/marketplace-api/internal/application/approval"
	"github.com/jhoicas/marketplace-api/internal/application/auth"
	"github.com/jhoicas/marketplace-api/internal/application/catalog"
	"github.com/jhoicas/marketplace-api/internal/application/order"
	"github.com/jhoicas/marketplace-api/internal/application/profile"
	"github.com/jhoicas/marketplace-api/pkg/validation"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProfileUC   *profile.UseCase
	ApprovalUC  *approval.UseCase
	BusinessUC  *catalog.BusinessUseCase
	CatalogUC   *catalog.ItemUseCase
	OrderUC     *order.UseCase
	DashboardUC *appanalytics.DashboardUseCase
	Validator   *validation.Validator
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app fiber.Router, deps RouterDeps) {
	v := deps.Validator
	if v == nil {
		v = validation.New()
	}
	requireAuth := AuthMiddleware(deps.JWTSecret)
	optionalAuth := OptionalAuth(deps.JWTSecret)

	api := app.Group("/api")

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, v)
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", authHandler.SignUp)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	// Perfiles (/me antes de /:accountId)
	profileHandler := NewProfileHandler(deps.ProfileUC, v)
	profiles := api.Group("/profiles", requireAuth)
	profiles.Put("/me", profileHandler.UpdateMine)
	profiles.Get("/:accountId", profileHandler.Get)

	// Administración de proveedores (la política exige superadmin)
	approvalHandler := NewApprovalHandler(deps.ApprovalUC, v)
	admin := api.Group("/admin/suppliers", requireAuth)
	admin.Get("/pending", approvalHandler.ListPending)
	admin.Post("/:accountId/approve", approvalHandler.Approve)
	admin.Post("/:accountId/reject", approvalHandler.Reject)
	admin.Get("/:accountId/audit", approvalHandler.AuditTrail)

	// Registros de negocio
	businessHandler := NewBusinessHandler(deps.BusinessUC)
	business := api.Group("/business-records")
	business.Post("/ensure", requireAuth, businessHandler.Ensure)
	business.Get("/:accountId", optionalAuth, businessHandler.GetByAccount)

	// Catálogo: lecturas públicas, mutaciones autenticadas
	catalogHandler := NewCatalogHandler(deps.CatalogUC, v)
	cat := api.Group("/catalog")
	cat.Get("/mine", requireAuth, catalogHandler.ListMine)
	cat.Get("/mine/low-stock", requireAuth, catalogHandler.ListLowStock)
	cat.Get("/", optionalAuth, catalogHandler.ListPublic)
	cat.Get("/:id", optionalAuth, catalogHandler.GetByID)
	cat.Post("/", requireAuth, catalogHandler.Create)
	cat.Put("/:id", requireAuth, catalogHandler.Update)
	cat.Delete("/:id", requireAuth, catalogHandler.Delete)

	// Pedidos
	orderHandler := NewOrderHandler(deps.OrderUC, v)
	orders := api.Group("/orders", requireAuth)
	orders.Post("/", orderHandler.Place)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/advance", orderHandler.Advance)
	orders.Post("/:id/cancel", orderHandler.Cancel)
	orders.Get("/:id/receipt", orderHandler.Receipt)

	// Dashboard del proveedor
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/supplier/dashboard", requireAuth, dashboardHandler.GetSupplierDashboard)
}
