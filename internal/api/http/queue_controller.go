package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osa030/jamroom/internal/app/playback"
	"github.com/osa030/jamroom/internal/domain/song"
)

// QueueController handles queue endpoints.
type QueueController struct {
	ctrl *playback.Controller
}

// NewQueueController creates a new QueueController.
func NewQueueController(ctrl *playback.Controller) *QueueController {
	return &QueueController{ctrl: ctrl}
}

// AddSong handles POST /api/rooms/:roomID/queue.
func (qc *QueueController) AddSong(c *gin.Context) {
	var in song.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	s, err := qc.ctrl.AddSong(c.Request.Context(), c.Param("roomID"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// RemoveSong handles DELETE /api/rooms/:roomID/queue/:songID.
func (qc *QueueController) RemoveSong(c *gin.Context) {
	if err := qc.ctrl.RemoveSong(c.Param("roomID"), c.Param("songID")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ClearQueue handles DELETE /api/rooms/:roomID/queue.
func (qc *QueueController) ClearQueue(c *gin.Context) {
	if err := qc.ctrl.ClearQueue(c.Param("roomID")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
