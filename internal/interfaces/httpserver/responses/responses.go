// Package responses contains shared HTTP response DTOs.
// LiveKit-specific response types are in the livekitres subpackage.
package responses

// Literal messages of the token endpoint error body.
const (
	MsgNotConfigured  = "LiveKit not configured"
	MsgGenerateFailed = "Failed to generate token"
)

// ErrorResponse is the flat error body of the token endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}
