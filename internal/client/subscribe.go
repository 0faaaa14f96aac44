package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"taskloop/internal/events"
)

// Subscribe streams task change events to fn until ctx is cancelled or the
// server closes the stream. A normal close or cancellation returns nil.
func (c *Client) Subscribe(ctx context.Context, fn func(events.Event)) error {
	u := *c.baseURL
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = u.Path + "/api/tasks/events"

	conn, _, err := websocket.Dial(ctx, u.String(), &websocket.DialOptions{
		HTTPClient: c.httpClientNoTimeout(),
	})
	if err != nil {
		return &TransportError{Err: fmt.Errorf("dial events: %w", err)}
	}
	defer conn.CloseNow()

	for {
		var ev events.Event
		if err := wsjson.Read(ctx, conn, &ev); err != nil {
			if ctx.Err() != nil || websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				return nil
			}
			if websocket.CloseStatus(err) != -1 {
				return &TransportError{Message: "event stream closed", Err: err}
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return &TransportError{Err: err}
		}
		fn(ev)
	}
}

// websocket.Dial rejects clients with a Timeout; the stream is bounded by ctx.
func (c *Client) httpClientNoTimeout() *http.Client {
	hc := *c.httpClient
	hc.Timeout = 0
	return &hc
}
