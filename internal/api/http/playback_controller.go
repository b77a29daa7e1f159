package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osa030/jamroom/internal/app/playback"
)

// PlaybackController handles playback endpoints.
type PlaybackController struct {
	ctrl *playback.Controller
}

// NewPlaybackController creates a new PlaybackController.
func NewPlaybackController(ctrl *playback.Controller) *PlaybackController {
	return &PlaybackController{ctrl: ctrl}
}

// positionRequest carries the client-reported playback position. The
// body is optional; a missing position means zero.
type positionRequest struct {
	CurrentTime float64 `json:"currentTime"`
}

func bindPosition(c *gin.Context) (float64, bool) {
	var req positionRequest
	if c.Request.ContentLength == 0 {
		return 0, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return 0, false
	}
	return req.CurrentTime, true
}

// Play handles POST /api/rooms/:roomID/play.
func (pc *PlaybackController) Play(c *gin.Context) {
	seconds, ok := bindPosition(c)
	if !ok {
		return
	}
	pc.respond(c, pc.ctrl.Play(c.Param("roomID"), seconds))
}

// Pause handles POST /api/rooms/:roomID/pause.
func (pc *PlaybackController) Pause(c *gin.Context) {
	seconds, ok := bindPosition(c)
	if !ok {
		return
	}
	pc.respond(c, pc.ctrl.Pause(c.Param("roomID"), seconds))
}

// Sync handles POST /api/rooms/:roomID/sync.
func (pc *PlaybackController) Sync(c *gin.Context) {
	seconds, ok := bindPosition(c)
	if !ok {
		return
	}
	pc.respond(c, pc.ctrl.Sync(c.Param("roomID"), seconds))
}

// Next handles POST /api/rooms/:roomID/next.
func (pc *PlaybackController) Next(c *gin.Context) {
	snap, err := pc.ctrl.Advance(c.Param("roomID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "currentTrack": snap.CurrentTrack})
}

// Previous handles POST /api/rooms/:roomID/previous. There is no
// playback history; the current track restarts from the beginning.
func (pc *PlaybackController) Previous(c *gin.Context) {
	pc.respond(c, pc.ctrl.Restart(c.Param("roomID")))
}

// ToggleAutoSelection handles POST /api/rooms/:roomID/toggle-auto-selection.
func (pc *PlaybackController) ToggleAutoSelection(c *gin.Context) {
	on, err := pc.ctrl.ToggleAutoSelection(c.Param("roomID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "autoSelection": on})
}

// Recommend handles POST /api/rooms/:roomID/ai-recommend.
func (pc *PlaybackController) Recommend(c *gin.Context) {
	pc.respond(c, pc.ctrl.Recommend(c.Request.Context(), c.Param("roomID")))
}

func (pc *PlaybackController) respond(c *gin.Context, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
