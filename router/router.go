package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yeremiapane/tablemate/controllers"
	"github.com/yeremiapane/tablemate/middlewares"
	"github.com/yeremiapane/tablemate/services"
	"github.com/yeremiapane/tablemate/utils"
	"gorm.io/gorm"
)

// Options tune the HTTP surface; zero values give permissive defaults suitable for tests.
type Options struct {
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func SetupRouter(db *gorm.DB, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.MetricsMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(opts.CORSOrigins))
	if opts.RateLimitRPS > 0 {
		r.Use(middlewares.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst).RateLimit())
	}

	// Services
	users := services.NewUserService(db)
	assigner := services.NewServerAssigner(db)
	tables := services.NewTableService(db, assigner)
	requests := services.NewServiceRequestTracker(db)
	ledger := services.NewOrderLedger(db)
	checkout := services.NewCheckoutService(db, tables, ledger)

	// Controllers
	userCtrl := controllers.NewUserController(users)
	tableCtrl := controllers.NewTableController(tables, assigner, users)
	requestCtrl := controllers.NewServiceRequestController(requests)
	orderCtrl := controllers.NewOrderController(ledger, users)
	checkoutCtrl := controllers.NewCheckoutController(checkout, tables, users)

	r.GET("/ping", func(c *gin.Context) {
		utils.RespondJSON(c, http.StatusOK, "pong", nil)
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := r.Group("/auth")
	auth.Use(middlewares.NewStrictRateLimiter().RateLimit())
	{
		auth.POST("/register", userCtrl.Register)
		auth.POST("/login", userCtrl.Login)
	}

	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware())
	{
		api.POST("/auth/logout", userCtrl.Logout)
		api.GET("/users/me", userCtrl.GetProfile)

		api.GET("/servers/assign", tableCtrl.AssignServer)
		api.GET("/servers/current", tableCtrl.GetCurrentServerID)

		api.POST("/tables/join", tableCtrl.JoinTable)
		api.GET("/tables", tableCtrl.GetAllTables)
		api.GET("/tables/lookup", tableCtrl.GetTable)
		api.GET("/tables/users", tableCtrl.GetUsersAtTable)
		api.GET("/tables/active", tableCtrl.GetActiveTable)
		api.GET("/tables/active/id", tableCtrl.GetActiveTableID)
		api.GET("/tables/orders", orderCtrl.GetTableOrders)

		api.POST("/requests", requestCtrl.RequestService)
		api.GET("/requests", requestCtrl.HasPendingRequest)

		api.POST("/orders", orderCtrl.CreateOrder)
		api.GET("/orders", orderCtrl.GetCustomerOrders)

		api.POST("/checkout", middlewares.ReceiptLoggerMiddleware(), checkoutCtrl.FinishAndPay)
		api.GET("/receipts", checkoutCtrl.GetReceipts)
	}

	staff := r.Group("/")
	staff.Use(middlewares.AuthMiddleware(), middlewares.RoleCheck(utils.RoleServer))
	{
		staff.GET("/users", userCtrl.GetAllUsers)
		staff.PATCH("/servers/working", userCtrl.SetWorking)
		staff.POST("/servers/demo", userCtrl.CreateDemoServer)
		staff.GET("/tables/server", tableCtrl.GetServerTables)
		staff.POST("/tables/delete", tableCtrl.DeleteTable)
		staff.POST("/requests/serve", requestCtrl.ServeRequest)
		staff.POST("/orders/:order_id/advance", orderCtrl.AdvanceOrder)
		staff.POST("/orders/:order_id/queue", orderCtrl.QueueOrder)
		staff.POST("/orders/:order_id/deliver", orderCtrl.DeliverOrder)
	}

	return r
}
