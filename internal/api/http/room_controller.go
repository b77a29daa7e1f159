// Package http provides the JSON API surface.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osa030/jamroom/internal/app/playback"
)

// RoomController handles room and participant endpoints.
type RoomController struct {
	ctrl *playback.Controller
}

// NewRoomController creates a new RoomController.
func NewRoomController(ctrl *playback.Controller) *RoomController {
	return &RoomController{ctrl: ctrl}
}

// CreateRoom handles POST /api/rooms.
func (rc *RoomController) CreateRoom(c *gin.Context) {
	type createRoomRequest struct {
		Name string `json:"name" binding:"required"`
		Code string `json:"code"`
	}
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	r, err := rc.ctrl.CreateRoom(req.Code, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// GetRoom handles GET /api/rooms/:roomID.
func (rc *RoomController) GetRoom(c *gin.Context) {
	r, err := rc.ctrl.GetRoom(c.Param("roomID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// GetRoomByCode handles GET /api/rooms/code/:code.
func (rc *RoomController) GetRoomByCode(c *gin.Context) {
	r, err := rc.ctrl.GetRoomByCode(c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Join handles POST /api/rooms/:roomID/participants.
func (rc *RoomController) Join(c *gin.Context) {
	type joinRequest struct {
		Name     string `json:"name" binding:"required"`
		Initials string `json:"initials"`
	}
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	p, err := rc.ctrl.Join(c.Param("roomID"), req.Name, req.Initials)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Leave handles DELETE /api/rooms/:roomID/participants/:participantID.
func (rc *RoomController) Leave(c *gin.Context) {
	if err := rc.ctrl.Leave(c.Param("roomID"), c.Param("participantID")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
