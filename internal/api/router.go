package api

import (
	"log/slog"
	"net/http"

	"github.com/evetabi/raceledger/internal/api/handler"
	"github.com/evetabi/raceledger/internal/api/middleware"
	"github.com/evetabi/raceledger/internal/config"
	"github.com/evetabi/raceledger/internal/service"
	"github.com/evetabi/raceledger/internal/ws"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps bundles every dependency needed to build the router.
// Populated once in main() and passed to SetupRouter.
type RouterDeps struct {
	Book     *service.BookService
	Settler  *service.SettlementService
	Sessions *service.SessionService
	Hub      *ws.Hub
	Cfg      *config.Config
	Logger   *slog.Logger
}

// SetupRouter creates and configures the main Gin engine with all routes,
// middleware, CORS, and rate limiting rules.
func SetupRouter(deps RouterDeps) *gin.Engine {
	if deps.Cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(logger))
	r.Use(gin.Recovery())

	// ── CORS ─────────────────────────────────────────────────────────────────
	r.Use(corsMiddleware(deps.Cfg))

	// ── Health check & metrics ───────────────────────────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ── Handlers ─────────────────────────────────────────────────────────────
	raceH := handler.NewRaceHandler(deps.Book, deps.Settler)
	horseH := handler.NewHorseHandler(deps.Book)
	betH := handler.NewBetHandler(deps.Book)
	summaryH := handler.NewSummaryHandler(deps.Book)
	sessionH := handler.NewSessionHandler(deps.Sessions, deps.Cfg.Session.UserID)

	// ── Rate limiters ────────────────────────────────────────────────────────
	// Writes share one budget. Cell reads that may create a placeholder row
	// get their own, so browsing the grid does not starve bet entry.
	rps, burst := deps.Cfg.Server.RateLimitRPS, deps.Cfg.Server.RateLimitBurst
	writeRL := middleware.RateLimitMiddleware(rps, burst)
	cellRL := middleware.RateLimitMiddleware(rps, burst)

	api := r.Group("/api")
	{
		// ── Session ──────────────────────────────────────────────────────────
		api.GET("/session", sessionH.Get)
		api.POST("/session", writeRL, sessionH.Start)
		api.DELETE("/session", writeRL, sessionH.End)

		// ── Races ────────────────────────────────────────────────────────────
		races := api.Group("/races")
		{
			races.GET("", raceH.List)
			races.GET("/next-id", raceH.NextID)
			races.GET("/current", raceH.Current)
			races.GET("/:id/horses", raceH.Horses)
			races.GET("/:id/bets", raceH.Bets)
			races.GET("/:id/summary", raceH.Summary)

			races.POST("", writeRL, raceH.Create)
			races.PUT("/current", writeRL, raceH.SetCurrent)
			races.POST("/:id/end", writeRL, raceH.End)
			races.POST("/:id/settle", writeRL, raceH.Settle)
			races.DELETE("/:id", writeRL, raceH.Delete)
		}

		// ── Horses ───────────────────────────────────────────────────────────
		horses := api.Group("/horses")
		horses.Use(writeRL)
		{
			horses.POST("", horseH.Create)
			horses.PATCH("/:id", horseH.Rename)
			horses.DELETE("/:id", horseH.Delete)
		}

		// ── Bets ─────────────────────────────────────────────────────────────
		bets := api.Group("/bets")
		{
			bets.GET("", cellRL, betH.List)
			bets.GET("/:id", betH.Get)
			bets.POST("", writeRL, betH.PlaceBet)
			bets.PATCH("/:id", writeRL, betH.Update)
			bets.DELETE("/:id", writeRL, betH.Delete)
		}

		// ── Summary ──────────────────────────────────────────────────────────
		api.GET("/summary", summaryH.Current)
		api.GET("/summary/ledger", summaryH.Ledger)
	}

	// ── WebSocket ─────────────────────────────────────────────────────────────
	if deps.Hub != nil {
		r.GET("/ws", func(c *gin.Context) {
			deps.Hub.ServeWs(c.Writer, c.Request)
		})
	}

	return r
}

// ── CORS helper ───────────────────────────────────────────────────────────────

// corsMiddleware returns a gin middleware that sets appropriate CORS headers.
// Outside production, or with no configured origins, every origin is allowed.
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	allowed := make(map[string]bool, len(cfg.Server.AllowedOrigins))
	for _, o := range cfg.Server.AllowedOrigins {
		allowed[o] = true
	}
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if !cfg.IsProd() || len(allowed) == 0 || allowed["*"] {
			c.Header("Access-Control-Allow-Origin", "*")
		} else if origin != "" && allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
