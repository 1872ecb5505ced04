package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/config"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/handler"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/middleware"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/service"
)

// Services is the service layer of one store.
type Services struct {
	Catalog  service.CatalogService
	Carts    service.CartService
	Checkout service.CheckoutService
	Ledger   service.LedgerService
	Reports  service.ReportService
	Backup   service.BackupService
	Profile  service.ProfileService
}

// NewServices wires every service on top of the shared state container.
// receipts and archiver may be nil.
func NewServices(cfg *config.Config, state *service.State, receipts service.ReceiptQueue, archiver service.BackupArchiver) *Services {
	loc := cfg.Location()
	carts := service.NewCartStore()
	return &Services{
		Catalog:  service.NewCatalogService(state),
		Carts:    service.NewCartService(state, carts),
		Checkout: service.NewCheckoutService(state, carts, receipts, cfg.PaymentProcessingDelay),
		Ledger:   service.NewLedgerService(state),
		Reports:  service.NewReportService(state, loc),
		Backup:   service.NewBackupService(state, archiver, loc),
		Profile:  service.NewProfileService(state),
	}
}

// New returns a configured Gin engine.
// Dependency graph: Handler ← Service ← State ← StateRepository ← BlobStore
func New(cfg *config.Config, svc *Services, store handler.Pinger, rdb *redis.Client, limiter *middleware.RateLimiter) *gin.Engine {
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
	if limiter != nil {
		r.Use(limiter.Middleware())
	}

	// ── Handlers ─────────────────────────────────────────────────────────────
	productsH := handler.NewProductsHandler(svc.Catalog)
	cartsH := handler.NewCartsHandler(svc.Carts, svc.Checkout)
	transactionsH := handler.NewTransactionsHandler(svc.Ledger, svc.Profile, cfg.Location())
	reportsH := handler.NewReportsHandler(svc.Reports, svc.Ledger, svc.Catalog, svc.Profile)
	backupH := handler.NewBackupHandler(svc.Backup)
	profileH := handler.NewProfileHandler(svc.Profile)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(store, cfg.StorageDriver, rdb))

	v1 := r.Group("/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", productsH.List)
			products.POST("", productsH.Create)
			products.GET("/categories", productsH.Categories)
			products.GET("/:id", productsH.Get)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Delete)
			products.PATCH("/:id/stock", productsH.AdjustStock)
		}
		v1.POST("/stock-in", productsH.StockIn)

		carts := v1.Group("/carts")
		{
			carts.POST("", cartsH.Open)
			carts.GET("/:id", cartsH.Get)
			carts.DELETE("/:id", cartsH.Discard)
			carts.POST("/:id/items", cartsH.AddItem)
			carts.PATCH("/:id/items/:productId", cartsH.UpdateItem)
			carts.DELETE("/:id/items/:productId", cartsH.RemoveItem)
			carts.POST("/:id/clear", cartsH.Clear)
			carts.POST("/:id/checkout", cartsH.BeginCheckout)
			carts.POST("/:id/checkout/cancel", cartsH.CancelCheckout)
			carts.POST("/:id/checkout/confirm", cartsH.ConfirmCheckout)
		}

		txs := v1.Group("/transactions")
		{
			txs.GET("", transactionsH.List)
			txs.POST("", transactionsH.Create)
			txs.GET("/voided", transactionsH.ListVoided)
			txs.GET("/:id", transactionsH.Get)
			txs.PUT("/:id", transactionsH.Update)
			txs.DELETE("/:id", transactionsH.Delete)
			txs.GET("/:id/receipt", transactionsH.Receipt)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/summary", reportsH.Summary)
			reports.GET("/financial.pdf", reportsH.FinancialPDF)
			reports.GET("/stock.pdf", reportsH.StockPDF)
			reports.GET("/stock.xlsx", reportsH.StockXLSX)
		}

		v1.GET("/profile", profileH.Get)
		v1.PUT("/profile", profileH.Save)
		v1.GET("/theme", profileH.GetTheme)
		v1.PUT("/theme", profileH.SetTheme)

		v1.GET("/backup", backupH.Export)
		v1.POST("/backup/import", backupH.Import)
		v1.POST("/backup/archive", backupH.Archive)
	}

	return r
}
