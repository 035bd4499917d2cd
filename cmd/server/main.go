package main

import (
	"context"
	"log"
	"strings"

	"github.com/alaazayood/viatica-backend/internal/audit"
	"github.com/alaazayood/viatica-backend/internal/auth"
	"github.com/alaazayood/viatica-backend/internal/catalog"
	"github.com/alaazayood/viatica-backend/internal/config"
	"github.com/alaazayood/viatica-backend/internal/database"
	"github.com/alaazayood/viatica-backend/internal/inventory"
	"github.com/alaazayood/viatica-backend/internal/ledgers"
	"github.com/alaazayood/viatica-backend/internal/logger"
	"github.com/alaazayood/viatica-backend/internal/models"
	"github.com/alaazayood/viatica-backend/internal/notify"
	"github.com/alaazayood/viatica-backend/internal/offers"
	"github.com/alaazayood/viatica-backend/internal/orders"
	"github.com/alaazayood/viatica-backend/internal/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New()
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	defer zlog.Sync()

	database.Init(cfg)

	// notification sink: queue first, subscriber drains into the database
	notifySvc := notify.NewService(notify.NewStore(database.DB), zlog)
	if err := notifySvc.Start(context.Background()); err != nil {
		zlog.Fatalw("cannot start notification subscriber", "error", err)
	}
	defer notifySvc.Close()

	reconciler := reconcile.NewService(
		reconcile.NewStockRepo(database.DB),
		reconcile.NewLedgerRepo(database.DB),
		zlog,
	)

	orderSvc := orders.NewService(
		catalog.NewStore(database.DB),
		offers.NewCatalog(database.DB),
		orders.NewRepository(database.DB),
		database.NewTxManager(database.DB),
		notifySvc,
		reconciler,
		zlog,
		cfg.DeliveryFee,
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			zlog.Errorw("unexpected error", "path", c.Path(), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))
	protected.Use(audit.Middleware(zlog))

	protected.Get("/auth/me", auth.MeHandler())

	// Drug catalog
	protected.Get("/drugs", catalog.ListDrugsHandler())
	protected.Get("/drugs/export", auth.RequireRole(models.RoleWarehouse), catalog.ExportInventoryHandler())
	protected.Get("/drugs/:id", catalog.GetDrugHandler())
	warehouseOnly := auth.RequireRole(models.RoleWarehouse, models.RoleAdmin)
	protected.Post("/drugs", auth.RequireRole(models.RoleWarehouse), catalog.CreateDrugHandler())
	protected.Post("/drugs/import", auth.RequireRole(models.RoleWarehouse), catalog.ImportInventoryHandler())
	protected.Put("/drugs/:id", warehouseOnly, catalog.UpdateDrugHandler())
	protected.Delete("/drugs/:id", warehouseOnly, catalog.DeleteDrugHandler())

	// Offers
	protected.Get("/offers", offers.ListOffersHandler())
	protected.Post("/offers", warehouseOnly, offers.CreateOfferHandler())
	protected.Delete("/offers/:id", warehouseOnly, offers.DeleteOfferHandler())

	// Orders
	protected.Get("/orders", orders.ListOrdersHandler(orderSvc))
	protected.Post("/orders", orders.CreateOrderHandler(orderSvc))
	protected.Get("/orders/:id", orders.GetOrderHandler(orderSvc))
	protected.Patch("/orders/:id/status", orders.UpdateStatusHandler(orderSvc))
	protected.Patch("/orders/:id/assign-driver", warehouseOnly, orders.AssignDriverHandler(orderSvc))

	// Pharmacist stock
	protected.Get("/inventory/my-stock", auth.RequireRole(models.RolePharmacist), inventory.MyStockHandler())
	protected.Patch("/inventory/:id/adjust", auth.RequireRole(models.RolePharmacist), inventory.AdjustStockHandler())

	// Ledger
	protected.Get("/ledger/statement", ledgers.StatementHandler())
	protected.Get("/ledger/balance", ledgers.BalanceHandler())
	protected.Post("/ledger/payments", warehouseOnly, ledgers.CreatePaymentHandler())

	// Notifications
	protected.Get("/notifications", notify.ListNotificationsHandler())
	protected.Patch("/notifications/mark-all-read", notify.MarkAllReadHandler())
	protected.Patch("/notifications/:id/read", notify.MarkReadHandler())

	// Audit
	protected.Get("/audit-logs", auth.RequireRole(models.RoleAdmin), audit.ListAuditLogsHandler())

	zlog.Infow("server listening", "port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		zlog.Fatalw("server stopped", "error", err)
	}
}
