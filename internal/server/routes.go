package server

import (
	"pos/internal/config"
	"pos/internal/handler"
	"pos/internal/middleware"
	"pos/internal/repository"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Auth          *handler.AuthHandler
	Product       *handler.ProductHandler
	Customer      *handler.CustomerHandler
	Supplier      *handler.SupplierHandler
	Sale          *handler.SaleHandler
	Receiving     *handler.ReceivingHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	Dashboard     *handler.DashboardHandler
}

// ルート登録。/api以下はJWT必須、/api/admin以下はさらにADMIN限定。
func RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, h Handlers) {
	authed := e.Group("/api",
		middleware.AuthJWT(cfg),
		middleware.TokenVersionGuard(userRepo),
	)
	admin := authed.Group("/admin", middleware.AdminRoleGuard())

	h.Auth.RegisterRoutes(e, admin)
	h.Product.RegisterRoutes(authed, admin)
	h.Customer.RegisterRoutes(authed, admin)
	h.Supplier.RegisterRoutes(authed, admin)
	h.Sale.RegisterRoutes(authed)
	h.Receiving.RegisterRoutes(authed)
	h.PurchaseOrder.RegisterRoutes(authed, admin)
	h.Dashboard.RegisterRoutes(authed)
}
