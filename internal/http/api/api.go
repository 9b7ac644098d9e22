package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/cadence/internal/apperr"
)

type Error struct {
	Code    int
	Message string
}

type HandlerFunc func(ctx *gin.Context) (any, *Error)

// ResolveEndpoint adapts a HandlerFunc to gin. Handlers that write the
// response themselves return (nil, nil).
func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		if apiErr != nil {
			ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}
		if result == nil && ctx.Writer.Written() {
			return
		}

		ctx.JSON(http.StatusOK, result)
	}
}

func BadRequest(message string) *Error {
	return &Error{Code: http.StatusBadRequest, Message: message}
}

// FromError maps an apperr kind onto an HTTP status. Internal errors never
// leak their cause to the client.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	switch apperr.KindOf(err) {
	case apperr.KindBadRequest:
		return &Error{Code: http.StatusBadRequest, Message: apperr.MessageOf(err)}
	case apperr.KindNotFound:
		return &Error{Code: http.StatusNotFound, Message: apperr.MessageOf(err)}
	default:
		log.Error().Err(err).Msg("request failed")
		return &Error{Code: http.StatusInternalServerError, Message: "internal server error"}
	}
}
