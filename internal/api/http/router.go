package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/osa030/jamroom/internal/app/playback"
	"github.com/osa030/jamroom/internal/infra/config"
	"github.com/osa030/jamroom/internal/realtime"
)

// SetupRouter builds the gin engine with all routes.
func SetupRouter(cfg config.ServerConfig, ctrl *playback.Controller, search Searcher, maxResults int, ws *realtime.Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = []string{"Authorization", "Content-Type", "Origin", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	roomCtrl := NewRoomController(ctrl)
	queueCtrl := NewQueueController(ctrl)
	playbackCtrl := NewPlaybackController(ctrl)
	searchCtrl := NewSearchController(search, maxResults)

	api := router.Group("/api")

	api.GET("/search", searchCtrl.Search)

	rooms := api.Group("/rooms")
	rooms.POST("", roomCtrl.CreateRoom)
	rooms.GET("/code/:code", roomCtrl.GetRoomByCode)
	rooms.GET("/:roomID", roomCtrl.GetRoom)
	rooms.POST("/:roomID/participants", roomCtrl.Join)
	rooms.DELETE("/:roomID/participants/:participantID", roomCtrl.Leave)

	rooms.POST("/:roomID/queue", queueCtrl.AddSong)
	rooms.DELETE("/:roomID/queue/:songID", queueCtrl.RemoveSong)
	rooms.DELETE("/:roomID/queue", queueCtrl.ClearQueue)

	rooms.POST("/:roomID/play", playbackCtrl.Play)
	rooms.POST("/:roomID/pause", playbackCtrl.Pause)
	rooms.POST("/:roomID/sync", playbackCtrl.Sync)
	rooms.POST("/:roomID/next", playbackCtrl.Next)
	rooms.POST("/:roomID/previous", playbackCtrl.Previous)
	rooms.POST("/:roomID/toggle-auto-selection", playbackCtrl.ToggleAutoSelection)
	rooms.POST("/:roomID/ai-recommend", playbackCtrl.Recommend)

	router.GET("/ws", ws.ServeWS)

	return router
}
