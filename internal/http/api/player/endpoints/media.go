package endpoints

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/cadence/internal/http/api"
	"github.com/Nixie-Tech-LLC/cadence/internal/media"
)

// GET|HEAD /api/player/media/:name
func (p *PlayerController) serveMedia(c *gin.Context) {
	headOnly := c.Request.Method == http.MethodHead
	err := p.streamer.Serve(c.Request.Context(), c.Writer, c.Param("name"), c.GetHeader("Range"), headOnly)
	switch {
	case err == nil:
	case errors.Is(err, media.ErrInterrupted):
		// headers are already on the wire; drop the connection
		_ = c.Error(err)
		c.Abort()
	case c.Writer.Written():
		_ = c.Error(err)
	default:
		apiErr := api.FromError(err)
		if headOnly {
			c.Status(apiErr.Code)
			return
		}
		c.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
	}
}
