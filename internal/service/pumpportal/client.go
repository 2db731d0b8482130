package pumpportal

import (
	"context"
	"fmt"
	"log"
	"time"

	drepo "Sentinel/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Client implements a LaunchStream backed by the PumpPortal WebSocket feed.
type Client struct {
	apiKey         string
	websocketURL   string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
}

// New creates a new PumpPortal LaunchStream.
func New(apiKey, websocketURL string, reconnectDelay, pingInterval time.Duration) drepo.LaunchStream {
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := c.websocketURL
	if c.apiKey != "" {
		u = fmt.Sprintf("%s?api-key=%s", c.websocketURL, c.apiKey)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("pumpportal connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	log.Printf("pumpportal: connected")
	return nil
}

// Subscribe asks the feed for new token creation events.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("pumpportal not connected")
	}
	msg := map[string]string{"method": "subscribeNewToken"}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("subscribe new tokens: %w", err)
	}
	log.Printf("pumpportal: subscribed to new token events")
	return nil
}

// Read streams raw event frames and errors. Frames are flat JSON objects;
// parsing and validation happen downstream.
func (c *Client) Read(ctx context.Context) (<-chan []byte, <-chan error) {
	frames := make(chan []byte, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(frames)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("pumpportal conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("pumpportal read: %w", err)
					return
				}
				select {
				case frames <- b:
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return frames, errs
}

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }
