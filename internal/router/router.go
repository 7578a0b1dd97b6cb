package router

import (
	"time"

	"tillpoint/internal/config"
	"tillpoint/internal/handler"
	"tillpoint/internal/middleware"
	"tillpoint/internal/repository"
	"tillpoint/internal/service"
	"tillpoint/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	inventoryLogRepo := repository.NewInventoryLogRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)
	auditor := service.NewAuditor(dispatcher)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	inventorySvc := service.NewInventoryService(productRepo, inventoryLogRepo, auditor)
	cashbackSvc := service.NewCashbackService(branchRepo, auditor)
	sessionSvc := service.NewSessionService(sessionRepo, saleRepo, expenseRepo, auditor)
	expenseSvc := service.NewExpenseService(expenseRepo, auditor)
	saleSvc := service.NewSaleService(saleRepo, productRepo, sessionRepo, inventorySvc, cashbackSvc, dispatcher, auditor)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	sessionsH := handler.NewSessionsHandler(sessionSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	cashbackH := handler.NewCashbackHandler(cashbackSvc)
	expensesH := handler.NewExpensesHandler(expenseSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cashier, manager, admin — declared per-endpoint
		anyStaff := middleware.RequireRole("cashier", "manager", "admin")
		managers := middleware.RequireRole("manager", "admin")
		admins := middleware.RequireRole("admin")

		v1.POST("/sales", anyStaff, salesH.Checkout)
		v1.GET("/sales", anyStaff, salesH.List)
		v1.GET("/sales/:id", anyStaff, salesH.Get)
		v1.POST("/sales/:id/settle", anyStaff, salesH.Settle)
		v1.POST("/sales/:id/write-off", admins, salesH.WriteOff)

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", anyStaff, sessionsH.Open)
			sessions.GET("/current", anyStaff, sessionsH.Current)
			sessions.POST("/:id/close", anyStaff, sessionsH.Close)
			sessions.GET("/:id/report", anyStaff, sessionsH.Report)
		}

		inv := v1.Group("/inventory")
		{
			inv.POST("/adjust", managers, inventoryH.Adjust)
			inv.GET("/movements", anyStaff, inventoryH.Movements)
			inv.GET("/low-stock", anyStaff, inventoryH.LowStock)
		}

		cashback := v1.Group("/cashback")
		{
			cashback.GET("/capital", anyStaff, cashbackH.Balance)
			cashback.POST("/capital/top-up", admins, cashbackH.TopUp)
		}

		expenses := v1.Group("/expenses")
		{
			expenses.POST("", anyStaff, expensesH.Create)
			expenses.GET("", anyStaff, expensesH.List)
		}

		users := v1.Group("/users", admins)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
