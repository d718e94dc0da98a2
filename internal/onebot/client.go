// Package onebot connects the bot to a OneBot v12 chat runtime over a
// websocket: it feeds inbound message events to the handler and implements
// the delivery adapter for sending summaries back.
package onebot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/wsu2059q/ghpreview/internal/bot"
)

const (
	initialReconnectDelay = time.Second
	maxReconnectDelay     = 30 * time.Second
)

// EventHandler consumes inbound runtime events.
type EventHandler interface {
	HandleEvent(ctx context.Context, event bot.Event)
}

// Config configures the runtime connection.
type Config struct {
	URL         string
	AccessToken string
	Platform    string
}

// Client maintains the websocket connection to the runtime. It reads events
// and hands each to the handler on its own goroutine; sends from the
// delivery adapter share the connection and are serialized.
type Client struct {
	cfg     Config
	handler EventHandler
	logger  zerolog.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewClient constructs a runtime client.
func NewClient(cfg Config, handler EventHandler, logger zerolog.Logger) *Client {
	return &Client{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
	}
}

// Run connects to the runtime and processes events until the context is
// canceled, reconnecting with capped exponential backoff on connection
// failures.
func (c *Client) Run(ctx context.Context) error {
	delay := initialReconnectDelay
	for {
		err := c.runOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn().Err(err).Dur("retry_in", delay).Msg("runtime connection lost")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
		if delay > maxReconnectDelay {
			delay = maxReconnectDelay
		}
	}
}

func (c *Client) runOnce(ctx context.Context) error {
	opts := &websocket.DialOptions{}
	if c.cfg.AccessToken != "" {
		opts.HTTPHeader = http.Header{
			"Authorization": []string{"Bearer " + c.cfg.AccessToken},
		}
	}

	conn, _, err := websocket.Dial(ctx, c.cfg.URL, opts)
	if err != nil {
		return fmt.Errorf("dial runtime %s: %w", c.cfg.URL, err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "shutting down")

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
	}()

	c.logger.Info().Str("url", c.cfg.URL).Msg("connected to runtime")

	for {
		var we wireEvent
		if err := wsjson.Read(ctx, conn, &we); err != nil {
			return fmt.Errorf("read event: %w", err)
		}
		if we.Type == "" {
			// Action response or heartbeat, not an event.
			continue
		}
		go c.handler.HandleEvent(ctx, mapEvent(we, c.cfg.Platform))
	}
}

// send writes one action frame to the runtime connection. The lock
// serializes writers; reads proceed concurrently on the same connection.
func (c *Client) send(ctx context.Context, req actionRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return errors.New("runtime connection is down")
	}
	return wsjson.Write(ctx, c.conn, req)
}
