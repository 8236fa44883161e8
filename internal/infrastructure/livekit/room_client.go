package livekit

import (
	"context"

	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"

	"travai-server/internal/config"
)

// RoomClient wraps the LiveKit room service API.
type RoomClient struct {
	client *lksdk.RoomServiceClient
}

// NewRoomClient creates a LiveKit room client.
func NewRoomClient(cfg *config.Config) *RoomClient {
	return &RoomClient{
		client: lksdk.NewRoomServiceClient(cfg.LiveKitURL, cfg.LiveKitAPIKey, cfg.LiveKitAPISecret),
	}
}

// RoomInfo is a LiveKit room with its participant count.
type RoomInfo struct {
	Name            string
	NumParticipants int
}

// ListActiveRooms returns the rooms LiveKit currently hosts, keyed by name.
func (c *RoomClient) ListActiveRooms(ctx context.Context) (map[string]RoomInfo, error) {
	resp, err := c.client.ListRooms(ctx, &livekit.ListRoomsRequest{})
	if err != nil {
		return nil, err
	}

	rooms := make(map[string]RoomInfo, len(resp.GetRooms()))
	for _, room := range resp.GetRooms() {
		rooms[room.GetName()] = RoomInfo{
			Name:            room.GetName(),
			NumParticipants: int(room.GetNumParticipants()),
		}
	}
	return rooms, nil
}

// ListParticipants returns the identities present in a room.
func (c *RoomClient) ListParticipants(ctx context.Context, room string) ([]string, error) {
	resp, err := c.client.ListParticipants(ctx, &livekit.ListParticipantsRequest{Room: room})
	if err != nil {
		return nil, err
	}

	identities := make([]string, 0, len(resp.GetParticipants()))
	for _, p := range resp.GetParticipants() {
		identities = append(identities, p.GetIdentity())
	}
	return identities, nil
}
