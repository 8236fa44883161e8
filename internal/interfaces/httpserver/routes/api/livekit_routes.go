package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"travai-server/internal/domain/token"
	"travai-server/internal/infrastructure/auth"
	"travai-server/internal/interfaces/httpserver/handlers"
	"travai-server/internal/interfaces/httpserver/requests/livekitreq"
	"travai-server/internal/interfaces/httpserver/responses"
	"travai-server/internal/interfaces/httpserver/responses/livekitres"
)

// RegisterLiveKitRoutes registers the token and presence routes.
func RegisterLiveKitRoutes(router gin.IRoutes, h *handlers.Provider) {
	router.GET("/token", issueToken(h.Token))
	router.GET("/rooms/:room", roomStatus(h.Presence))
}

// issueToken godoc
// @Summary      Issue a LiveKit access token
// @Description  Mints a token that lets the caller join a room. Missing room and name fall back to "default-room" and "user"; with auth enabled the caller's email is used as the default name.
// @Tags         LiveKit API
// @Produce      json
// @Param        room query string false "Room name"
// @Param        name query string false "Participant name"
// @Success      200 {object} livekitres.TokenResponse
// @Failure      401 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Security     BearerAuth
// @Router       /api/livekit/token [get]
func issueToken(handler *handlers.TokenHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req livekitreq.TokenRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			responses.HandleValidationError(c, err)
			return
		}

		name := req.Name
		if name == "" {
			name = auth.Email(c)
		}

		grant, err := handler.Issue(c.Request.Context(), req.Room, name)
		if err != nil {
			responses.WriteTokenError(c, errors.Is(err, token.ErrNotConfigured))
			return
		}

		c.JSON(http.StatusOK, livekitres.NewTokenResponse(grant))
	}
}

// roomStatus godoc
// @Summary      Get room presence
// @Description  Reports whether a room the server issued tokens for is active and whether the voice agent has joined it.
// @Tags         LiveKit API
// @Produce      json
// @Param        room path string true "Room name"
// @Success      200 {object} livekitres.RoomStatusResponse
// @Failure      401 {object} responses.ErrorResponse
// @Failure      404 {object} platformerrors.HTTPErrorResponse
// @Security     BearerAuth
// @Router       /api/livekit/rooms/{room} [get]
func roomStatus(handler *handlers.PresenceHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req livekitreq.RoomRequest
		if err := c.ShouldBindUri(&req); err != nil {
			responses.HandleValidationError(c, err)
			return
		}

		status, err := handler.RoomStatus(c.Request.Context(), req.Room)
		if err != nil {
			responses.HandleError(c, err, "room not found")
			return
		}

		c.JSON(http.StatusOK, livekitres.NewRoomStatusResponse(status))
	}
}
