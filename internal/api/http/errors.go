package http

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/osa030/jamroom/internal/app/playback"
	"github.com/osa030/jamroom/internal/domain/song"
	"github.com/osa030/jamroom/internal/infra/youtube"
	"github.com/osa030/jamroom/internal/store"
)

// writeError maps domain errors to HTTP responses.
func writeError(c *gin.Context, err error) {
	var rejected *playback.RejectedError

	switch {
	case errors.As(err, &rejected):
		c.JSON(http.StatusBadRequest, gin.H{"error": "song rejected", "code": rejected.Code})
	case errors.Is(err, song.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
	case errors.Is(err, store.ErrDuplicateCode):
		c.JSON(http.StatusConflict, gin.H{"error": "room code already in use"})
	case errors.Is(err, playback.ErrNoTrack):
		c.JSON(http.StatusConflict, gin.H{"error": "no current track"})
	case errors.Is(err, youtube.ErrQuotaExceeded):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "search quota exceeded"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
