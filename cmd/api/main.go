package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/shinerking/nexusflow/internal/handler"
	"github.com/shinerking/nexusflow/internal/mailer"
	"github.com/shinerking/nexusflow/internal/middleware"
	"github.com/shinerking/nexusflow/internal/model"
	"github.com/shinerking/nexusflow/internal/repository"
	"github.com/shinerking/nexusflow/internal/service"
	"github.com/shinerking/nexusflow/internal/ws"
	"github.com/shinerking/nexusflow/pkg/database"
	zaplog "github.com/shinerking/nexusflow/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	appLog := zaplog.New()
	defer appLog.Sync()
	handler.UseLogger(appLog)

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(&model.Organization{}, &model.User{}, &model.Product{}, &model.StockLog{}, &model.Procurement{})

	// 3. Seed demo organization and users
	seedDemoData(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	repos := repository.NewRepos(db)
	scope := repository.NewTxScope(db)
	sender := mailer.NewSMTPSender()

	productService := service.NewProductService(repos, scope, wsHub, appLog)
	stockService := service.NewStockService(repos, scope, sender, wsHub, appLog)
	approvalService := service.NewApprovalService(repos, productService, stockService)
	procurementService := service.NewProcurementService(repos, sender, appLog)
	authService := service.NewAuthService(repos.Users)
	settingsService := service.NewSettingsService(repos)
	dashboardService := service.NewDashboardService(repos)

	authHandler := handler.NewAuthHandler(authService)
	invHandler := handler.NewInventoryHandler(productService, stockService)
	approvalHandler := handler.NewApprovalHandler(approvalService)
	procHandler := handler.NewProcurementHandler(procurementService)
	settingsHandler := handler.NewSettingsHandler(settingsService, dashboardService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "NexusFlow API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(repos.Users))

	protected.Get("/auth/me", authHandler.Me)

	// Dashboard
	protected.Get("/dashboard/stats", settingsHandler.GetDashboardStats)

	// Products
	protected.Get("/products", invHandler.GetProducts)
	protected.Post("/products", middleware.RequireAction(model.ActionAddProduct), invHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequireAction(model.ActionEditProduct), invHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequireAction(model.ActionDeleteProduct), invHandler.DeleteProduct)
	protected.Post("/products/import", middleware.RequireAction(model.ActionImportProducts), invHandler.ImportProducts)
	protected.Delete("/inventory", middleware.RequireAction(model.ActionDangerZone), invHandler.ResetInventory)

	// Stock adjustments
	protected.Get("/stock-logs", middleware.RequireAction(model.ActionViewStockLogs), invHandler.GetStockLogs)
	protected.Post("/stock-logs", middleware.RequireAction(model.ActionAdjustStock), invHandler.CreateStockAdjustment)
	protected.Get("/history", middleware.RequireAction(model.ActionViewStockLogs), invHandler.GetStaffHistory)

	// Approval queue
	protected.Get("/approvals", middleware.RequireAction(model.ActionAccessApprovals), approvalHandler.GetPendingApprovals)
	protected.Get("/approvals/count", approvalHandler.GetPendingCount)
	protected.Post("/approvals/process", middleware.RequireAction(model.ActionProcessApproval), approvalHandler.ProcessApproval)
	protected.Post("/approvals/bulk", middleware.RequireAction(model.ActionProcessApproval), approvalHandler.ProcessBulkApproval)

	// Procurement
	protected.Get("/procurements", procHandler.List)
	protected.Post("/procurements", middleware.RequireAction(model.ActionCreateProcurement), procHandler.Create)
	protected.Put("/procurements/:id/status", middleware.RequireAction(model.ActionApproveProcurement), procHandler.UpdateStatus)
	protected.Delete("/procurements/:id", middleware.RequireAction(model.ActionDeleteProcurement), procHandler.Delete)

	// Settings
	protected.Put("/settings", middleware.RequireAction(model.ActionAccessSettings), settingsHandler.UpdateSettings)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// demoUsers is the seed roster: one user per role.
func demoUsers(orgID uuid.UUID) []model.User {
	return []model.User{
		{Name: "Admin User", Email: "admin@nexusflow.com", Role: model.RoleAdmin, OrganizationID: orgID},
		{Name: "Manager User", Email: "manager@nexusflow.com", Role: model.RoleManager, OrganizationID: orgID},
		{Name: "Staff User", Email: "staff@nexusflow.com", Role: model.RoleStaff, OrganizationID: orgID},
		{Name: "Auditor User", Email: "auditor@nexusflow.com", Role: model.RoleAuditor, OrganizationID: orgID},
	}
}

// demoProducts is the approved starter catalog seeded with a fresh
// organization.
func demoProducts(orgID uuid.UUID) []model.Product {
	price := func(v float64) *float64 { return &v }
	return []model.Product{
		{Name: "Laptop Dell XPS 15", Category: "Electronics", Price: price(28500), Stock: 12, Status: model.ProductApproved, OrganizationID: orgID},
		{Name: "Monitor LG 27 inch", Category: "Electronics", Price: price(4200), Stock: 30, Status: model.ProductApproved, OrganizationID: orgID},
		{Name: "Office Chair Ergonomic", Category: "Furniture", Price: price(2750), Stock: 8, Status: model.ProductApproved, OrganizationID: orgID},
		{Name: "HDMI Cable 2m", Category: "Accessories", Price: price(85), Stock: 150, Status: model.ProductApproved, OrganizationID: orgID},
	}
}

// seedDemoData creates the demo organization, one user per role, and a
// starter catalog if they don't exist yet.
func seedDemoData(db *gorm.DB) {
	orgRepo := repository.NewOrganizationRepo(db)
	userRepo := repository.NewUserRepo(db)
	productRepo := repository.NewProductRepo(db)

	org, err := orgRepo.FindBySlug("demo-corp")
	if err != nil {
		org = &model.Organization{Name: "Demo Corp", Slug: "demo-corp"}
		if err := orgRepo.Create(org); err != nil {
			log.Printf("Warning: failed to seed organization: %v", err)
			return
		}
		log.Println("Organization created: Demo Corp")

		if err := productRepo.CreateBatch(demoProducts(org.ID)); err != nil {
			log.Printf("Warning: failed to seed products: %v", err)
		}
	}

	for _, u := range demoUsers(org.ID) {
		if _, err := userRepo.FindByEmail(u.Email); err == nil {
			continue
		}
		u.EmailNotifications = true
		if err := userRepo.Create(&u); err != nil {
			log.Printf("Warning: failed to seed user %s: %v", u.Email, err)
		} else {
			log.Printf("User created: %s (%s)", u.Email, u.Role)
		}
	}
}
