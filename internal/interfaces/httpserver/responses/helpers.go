package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"travai-server/internal/domain/presence"
	"travai-server/internal/utils/platformerrors"
)

// WriteTokenError writes the token endpoint's flat error body. Configuration
// problems and signing failures both answer 500 with a fixed message.
func WriteTokenError(c *gin.Context, notConfigured bool) {
	message := MsgGenerateFailed
	if notConfigured {
		message = MsgNotConfigured
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: message})
}

// HandleError maps domain errors onto the platform error envelope.
func HandleError(c *gin.Context, err error, message string) {
	logger := log.With().Str("path", c.Request.URL.Path).Logger()

	if errors.Is(err, presence.ErrRoomNotFound) {
		platformerrors.WriteNotFound(c, message)
		return
	}

	platformerrors.WriteError(c, platformerrors.NewError(
		c.Request.Context(),
		platformerrors.LayerHandler,
		platformerrors.ErrorTypeInternal,
		message,
		err,
	), logger)
}

// HandleValidationError writes a 400 with the binding error message.
func HandleValidationError(c *gin.Context, err error) {
	platformerrors.WriteValidationError(c, err.Error())
}
