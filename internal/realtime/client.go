package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gorilla/websocket"
	zlog "github.com/rs/zerolog/log"
)

// ClientConfig represents the reconnecting client configuration.
type ClientConfig struct {
	URL         string
	RoomID      string
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Client is a WebSocket client that joins a room and hands incoming
// events to a callback. Lost connections are retried with capped
// exponential backoff; a successful connection resets the attempt
// counter.
type Client struct {
	cfg     ClientConfig
	handler func(ServerMessage)
}

// NewClient creates a new reconnecting client.
func NewClient(cfg ClientConfig, handler func(ServerMessage)) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("url is required")
	}
	if cfg.RoomID == "" {
		return nil, errors.New("room id is required")
	}
	if handler == nil {
		return nil, errors.New("handler is required")
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 30 * time.Second
	}
	return &Client{cfg: cfg, handler: handler}, nil
}

// Run connects and reads events until the context is cancelled or the
// reconnection budget is exhausted.
func (c *Client) Run(ctx context.Context) error {
	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if attempt > 0 {
			delay := backoffDelay(attempt, c.cfg.BaseDelay, c.cfg.MaxDelay)
			zlog.Info().Msgf("reconnecting: attempt=%d delay=%s", attempt, delay)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		connected, err := c.runOnce(ctx)
		if err == nil || errors.Is(err, context.Canceled) {
			return ctx.Err()
		}
		if connected {
			attempt = 0
		}

		attempt++
		if attempt > c.cfg.MaxAttempts {
			return errors.Wrapf(err, "giving up after %d attempts", c.cfg.MaxAttempts)
		}
		zlog.Warn().Msgf("connection lost: error=%v", err)
	}
}

// runOnce performs one connect/join/read cycle. A nil error means the
// context ended; any error is a broken connection. The bool reports
// whether the connection was established, which resets the backoff.
func (c *Client) runOnce(ctx context.Context) (bool, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return false, errors.Wrap(err, "dial failed")
	}
	defer conn.Close()

	if err := conn.WriteJSON(ClientMessage{Type: TypeJoinRoom, RoomID: c.cfg.RoomID}); err != nil {
		return false, errors.Wrap(err, "join failed")
	}

	// Close the connection when the context ends to unblock the reader.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return true, nil
			}
			return true, errors.Wrap(err, "read failed")
		}

		var msg ServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			zlog.Warn().Msgf("skipping malformed event: error=%v", err)
			continue
		}
		c.handler(msg)
	}
}

// backoffDelay returns the delay before the given attempt, doubling
// from base and capped at max.
func backoffDelay(attempt int, base, max time.Duration) time.Duration {
	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= max {
			return max
		}
	}
	if delay > max {
		return max
	}
	return delay
}
