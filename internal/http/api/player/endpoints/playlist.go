package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/cadence/internal/etag"
	"github.com/Nixie-Tech-LLC/cadence/internal/http/api"
)

// GET /api/player/playlist?device=CODE
//
// The body is resolved and fingerprinted on every request; a matching
// If-None-Match (or X-If-None-Match, for clients behind proxies that strip
// the standard header) yields 304 with no body.
func (p *PlayerController) playlist(c *gin.Context) {
	code, apiErr := deviceQuery(c)
	if apiErr != nil {
		c.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
		return
	}

	ctx := c.Request.Context()
	device, err := p.lookupDevice(ctx, code)
	if err != nil {
		apiErr = api.FromError(err)
		c.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
		return
	}

	result, err := p.resolver.Resolve(ctx, device)
	if err != nil {
		apiErr = api.FromError(err)
		c.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
		return
	}

	body, tag, err := etag.Encode(result)
	if err != nil {
		log.Error().Err(err).Str("device", code).Msg("failed to encode playlist")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Header("ETag", tag)
	c.Header("Cache-Control", "no-cache")

	prior := c.GetHeader("If-None-Match")
	if prior == "" {
		prior = c.GetHeader("X-If-None-Match")
	}
	if prior != "" && etag.Matches(prior, tag) {
		c.Status(http.StatusNotModified)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
