package main

import (
	"context"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mosheco2/cohens-multi/banners"
	"github.com/mosheco2/cohens-multi/config"
	"github.com/mosheco2/cohens-multi/crypto"
	"github.com/mosheco2/cohens-multi/game"
	"github.com/mosheco2/cohens-multi/gateway"
	"github.com/mosheco2/cohens-multi/migrations"
	"github.com/mosheco2/cohens-multi/storage"
)

const hostTokenAge = 24 * time.Hour

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })

	if len(allowedOrigins) > 0 {
		r.Use(func(ctx *gin.Context) {
			origin := ctx.Request.Header.Get("Origin")
			if origin == "" || slices.Contains(allowedOrigins, origin) {
				ctx.Next()
				return
			}
			ctx.String(http.StatusForbidden, "forbidden origin")
			ctx.Abort()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowCredentials: true,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{
				"Content-Type",
				"X-Admin-Code",
				"Upgrade",
				"Connection",
				"Sec-WebSocket-Key",
				"Sec-WebSocket-Version",
				"Sec-WebSocket-Extensions",
				"Sec-WebSocket-Protocol",
			},
		}))
	}
	return r
}

// requireAdmin gates the admin surface behind the shared admin code.
func requireAdmin(adminHash string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		code := ctx.GetHeader("X-Admin-Code")
		if code == "" || !crypto.VerifyAdminCode(adminHash, code) {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Unauthorized"})
			return
		}
		ctx.Next()
	}
}

func main() {
	cfg := config.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.GinMode != "release" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	var recorder game.Recorder = game.NopRecorder{}
	var repo *storage.PostgresRepo
	if cfg.PostgresURL != "" {
		if err := migrations.Migrate(cfg.PostgresURL); err != nil {
			logger.Fatal().Err(err).Msg("migrations failed")
		}
		pg, err := storage.NewPostgresRepo(context.Background(), cfg.PostgresURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer pg.Close()
		recorder = pg
		repo = pg
	} else {
		logger.Warn().Msg("no POSTGRES_URL, running without the durable log")
	}

	hub := gateway.NewHub(logger)
	registry := game.NewRegistry(hub, recorder, game.NewTickerGen(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go registry.Run(ctx)

	tokens := crypto.NewJWTManager(cfg.JWTKey, hostTokenAge)
	wsHandler := gateway.NewHandler(hub, registry, tokens, logger)
	bannerStore := banners.NewStore()

	r := CreateServer(cfg.AllowedOrigins)

	r.GET("/ws", wsHandler.ServeWS)

	r.GET("/api/banners", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, bannerStore.Get())
	})

	{
		admin := r.Group("/api/admin")
		admin.Use(requireAdmin(cfg.AdminCodeHash))

		admin.POST("/banners", func(ctx *gin.Context) {
			patch := banners.Patch{}
			if err := ctx.ShouldBindJSON(&patch); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid-request-format"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"ok": true, "banners": bannerStore.Apply(patch)})
		})

		admin.GET("/rooms", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": true, "rooms": registry.Summaries()})
		})

		admin.GET("/history", func(ctx *gin.Context) {
			if repo == nil {
				ctx.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "history unavailable without a database"})
				return
			}
			from, to := parseDateRange(ctx.Query("from"), ctx.Query("to"))
			rooms, err := repo.ListRoomHistory(ctx.Request.Context(), from, to, ctx.Query("q"))
			if err != nil {
				logger.Error().Err(err).Msg("history query failed")
				ctx.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "query failed"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"ok": true, "rooms": rooms})
		})
	}

	logger.Info().Str("port", cfg.Port).Msg("server listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

// parseDateRange interprets from/to as ISO dates, defaulting to the last 30
// days when absent or malformed.
func parseDateRange(fromStr, toStr string) (time.Time, time.Time) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if t, err := time.Parse("2006-01-02", fromStr); err == nil {
		from = t
	}
	if t, err := time.Parse("2006-01-02", toStr); err == nil {
		to = t.AddDate(0, 0, 1) // inclusive end date
	}
	return from, to
}
