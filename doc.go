// Package travaiserver is the backend and command-line client of the Travai
// voice assistant.
//
// The server (cmd/server) provides:
//   - LiveKit access tokens for signed-in users (GET /api/livekit/token)
//   - Room presence: whether the voice agent has joined a room
//   - Health, readiness, Prometheus metrics and swagger endpoints
//
// The client (cmd/voice-client) fetches a token, joins the room through the
// voice session connector, streams a local audio file as the microphone and
// records the agent's audio replies.
package travaiserver
