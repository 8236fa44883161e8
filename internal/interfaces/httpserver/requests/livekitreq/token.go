// Package livekitreq contains HTTP request DTOs for the LiveKit endpoints.
package livekitreq

// TokenRequest holds the token endpoint query parameters. Empty values fall
// back to the server defaults.
type TokenRequest struct {
	Room string `form:"room" binding:"omitempty,max=128"`
	Name string `form:"name" binding:"omitempty,max=128"`
}

// RoomRequest identifies a room in the path.
type RoomRequest struct {
	Room string `uri:"room" binding:"required,max=128"`
}
