package tokenclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrIncompleteGrant is returned when a 200 response lacks token or url.
var ErrIncompleteGrant = errors.New("token response missing token or url")

// Client fetches LiveKit grants from the voice token endpoint.
// One request per call: no caching and no retry.
type Client struct {
	httpClient *resty.Client
}

type grantResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// StatusError is a non-200 answer from the token endpoint.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("token endpoint returned %d", e.Status)
	}
	return fmt.Sprintf("token endpoint returned %d: %s", e.Status, e.Message)
}

// New creates a client for the server at baseURL. bearer, when set, is sent
// as the Authorization header.
func New(baseURL, bearer string, timeout time.Duration) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("User-Agent", "Travai-VoiceClient/1.0").
		SetTimeout(timeout)
	if bearer != "" {
		client.SetAuthToken(bearer)
	}
	return &Client{httpClient: client}
}

// Fetch requests a grant for name in room.
func (c *Client) Fetch(ctx context.Context, room, name string) (string, string, error) {
	var grant grantResponse
	var apiErr errorResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("room", room).
		SetQueryParam("name", name).
		SetResult(&grant).
		SetError(&apiErr).
		Get("/api/livekit/token")
	if err != nil {
		return "", "", fmt.Errorf("token request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", "", &StatusError{Status: resp.StatusCode(), Message: apiErr.Error}
	}
	if grant.Token == "" || grant.URL == "" {
		return "", "", ErrIncompleteGrant
	}
	return grant.URL, grant.Token, nil
}
