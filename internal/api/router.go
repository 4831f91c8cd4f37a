package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"mypal/internal/auth"
	"mypal/internal/config"
)

func SetupRouter(cfg *config.Config, rdb *redis.Client) *gin.Engine {
	r := gin.Default()
	subpath := cfg.Server.Subpath // e.g. "/mypal" or any custom path, always starts with '/'

	group := r.Group(subpath)
	{
		group.GET("/health", healthHandler)
		group.GET("/config", configHandler(cfg))

		// Setup: only if no users
		group.POST("/setup", SetupHandler())

		// Auth
		group.POST("/auth/register", RegisterHandler())
		group.POST("/auth/login", LoginHandler(cfg, rdb))
		group.POST("/auth/logout", auth.AuthMiddleware(cfg, rdb, false), LogoutHandler(rdb))
		group.GET("/auth/me", auth.AuthMiddleware(cfg, rdb, false), MeHandler())
		group.GET("/users/online", OnlineUserCountHandler(rdb))

		// Pal
		group.POST("/chat", auth.AuthMiddleware(cfg, rdb, false), ChatHandler(cfg))
		group.GET("/messages", auth.AuthMiddleware(cfg, rdb, false), ListMessagesHandler())
		group.GET("/stats", auth.AuthMiddleware(cfg, rdb, false), StatsHandler())
		group.GET("/settings", auth.AuthMiddleware(cfg, rdb, false), GetSettingsHandler())
		group.PUT("/settings", auth.AuthMiddleware(cfg, rdb, false), UpdateSettingsHandler())
		group.GET("/brain", auth.AuthMiddleware(cfg, rdb, false), BrainHandler())
		group.GET("/journal", auth.AuthMiddleware(cfg, rdb, false), JournalHandler())
		group.GET("/report", auth.AuthMiddleware(cfg, rdb, false), ReportHandler())
		group.POST("/reinforce", auth.AuthMiddleware(cfg, rdb, false), ReinforceHandler())
		group.POST("/reset", auth.AuthMiddleware(cfg, rdb, false), ResetHandler())
		group.GET("/export", auth.AuthMiddleware(cfg, rdb, false), ExportHandler())

		// Streaming chat
		group.GET("/ws/chat", WSChatHandler(cfg))
	}
	return r
}
