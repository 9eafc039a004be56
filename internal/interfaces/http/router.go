package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shoptrack/pos-api/internal/application/alerting"
	"github.com/shoptrack/pos-api/internal/application/auth"
	"github.com/shoptrack/pos-api/internal/application/dashboard"
	"github.com/shoptrack/pos-api/internal/application/forecast"
	"github.com/shoptrack/pos-api/internal/application/ledger"
	"github.com/shoptrack/pos-api/internal/application/ports"
	"github.com/shoptrack/pos-api/internal/application/sales"
	"github.com/shoptrack/pos-api/internal/application/usecase"
	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/internal/infrastructure/ws"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProductUC   *usecase.ProductUseCase
	LedgerUC    *ledger.StockLedgerUseCase
	SalesUC     *sales.TransactionRecorderUseCase
	AlertUC     *alerting.AlertEngineUseCase
	ForecastUC  *forecast.DemandForecasterUseCase
	DashboardUC *dashboard.DashboardUseCase
	Reports     ports.ReportGenerator
	Hub         *ws.Hub
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Feed WebSocket del dashboard (público: el navegador no puede mandar el
	// header Authorization en el upgrade)
	if deps.Hub != nil {
		api.Use("/dashboard/ws", ws.UpgradeRequired)
		api.Get("/dashboard/ws", deps.Hub.Handler())
	}

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	manager := RequireRole(entity.RoleAdmin, entity.RoleManager)

	// Products: lectura para todos, mutación para admin/manager
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/sku/:sku", productHandler.GetBySKU)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", manager, productHandler.Create)
	products.Put("/:id", manager, productHandler.Update)
	products.Delete("/:id", manager, productHandler.Deactivate)

	// Inventory: el ajuste manual es de admin/manager
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC)
	invGroup.Get("/status", inventoryHandler.GetStatus)
	invGroup.Get("/low-stock", inventoryHandler.GetLowStock)
	invGroup.Get("/movements", inventoryHandler.GetMovements)
	invGroup.Put("/update", manager, inventoryHandler.AdjustStock)

	// Sales: el checkout lo hace cualquier usuario autenticado (cajeros)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SalesUC, deps.Reports)
	salesGroup.Post("/checkout", saleHandler.Checkout)
	salesGroup.Get("/summary", saleHandler.GetSummary)
	salesGroup.Get("/recent", saleHandler.GetRecent)
	salesGroup.Get("/report/daily", saleHandler.DailyReport)
	salesGroup.Get("/analytics/hourly", saleHandler.GetHourlyAnalytics)
	salesGroup.Get("/transactions/:transaction_id", saleHandler.GetTransaction)

	// Alerts: el barrido manual es de admin
	alerts := protected.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertUC)
	alerts.Get("/active", alertHandler.GetActive)
	alerts.Get("/statistics", alertHandler.GetStatistics)
	alerts.Post("/cleanup", RequireRole(entity.RoleAdmin), alertHandler.Cleanup)
	alerts.Post("/:id/acknowledge", alertHandler.Acknowledge)
	alerts.Post("/:id/resolve", alertHandler.Resolve)
	alerts.Post("/:id/dismiss", alertHandler.Dismiss)

	// Predictions: reentrenar y verificar son de admin/manager
	predictions := protected.Group("/predictions")
	predictionHandler := NewPredictionHandler(deps.ForecastUC)
	predictions.Get("/rush-hours", predictionHandler.GetRushHours)
	predictions.Get("/stored", predictionHandler.GetStored)
	predictions.Get("/model-status", predictionHandler.GetModelStatus)
	predictions.Post("/retrain", manager, predictionHandler.Retrain)
	predictions.Post("/verify", manager, predictionHandler.Verify)

	// Dashboard
	dashboardGroup := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboardGroup.Get("/summary", dashboardHandler.GetSummary)
}
