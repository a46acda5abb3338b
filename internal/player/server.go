package player

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitrine-signage/vitrine/internal/playback"
)

type jumpRequest struct {
	PlaylistIndex int `json:"playlist_index"`
	MediaIndex    int `json:"media_index"`
}

// NewControlServer builds the local HTTP surface a kiosk shell or
// on-device UI uses to inspect and drive playback.
func NewControlServer(seq *playback.Sequencer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/state", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, seq.Status())
	})

	router.POST("/pause", func(ctx *gin.Context) {
		seq.Pause()
		ctx.JSON(http.StatusOK, seq.Status())
	})

	router.POST("/resume", func(ctx *gin.Context) {
		seq.Resume()
		ctx.JSON(http.StatusOK, seq.Status())
	})

	router.POST("/next", func(ctx *gin.Context) {
		seq.SkipNext()
		ctx.JSON(http.StatusOK, seq.Status())
	})

	router.POST("/previous", func(ctx *gin.Context) {
		seq.SkipPrevious()
		ctx.JSON(http.StatusOK, seq.Status())
	})

	router.POST("/jump", func(ctx *gin.Context) {
		var req jumpRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := seq.JumpTo(req.PlaylistIndex, req.MediaIndex); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, seq.Status())
	})

	return router
}
