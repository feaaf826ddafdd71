package websocket

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/dennisdiepolder/calldash/internal/config"
)

// Client is a middleman between the websocket connection and the hub
type Client struct {
	// Unique client ID
	id string

	// The hub this client belongs to
	hub *Hub

	// The websocket connection
	conn *websocket.Conn

	// Buffered channel of outbound messages
	send chan []byte

	// Configuration
	config *config.Config

	// Called for each refresh command received from the browser
	onRefresh func(ctx context.Context, c *Client)

	// Set while a refresh runs; further refresh commands are ignored
	refreshing atomic.Bool

	// Lives as long as the read pump
	ctx    context.Context
	cancel context.CancelFunc

	// Logger
	logger zerolog.Logger
}

// NewClient creates a new Client. ctx carries request-scoped values such as
// the request id; its cancellation is ignored.
func NewClient(ctx context.Context, hub *Hub, conn *websocket.Conn, cfg *config.Config, logger zerolog.Logger, onRefresh func(context.Context, *Client)) *Client {
	clientID := uuid.New().String()
	clientCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	return &Client{
		id:        clientID,
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, 256),
		config:    cfg,
		onRefresh: onRefresh,
		ctx:       clientCtx,
		cancel:    cancel,
		logger:    logger.With().Str("client_id", clientID).Logger(),
	}
}

// ID returns the client's unique id
func (c *Client) ID() string {
	return c.id
}

// readPump pumps messages from the websocket connection to the hub
//
// The application runs readPump in a per-connection goroutine. The application
// ensures that there is at most one reader on a connection by executing all
// reads from this goroutine.
func (c *Client) readPump() {
	defer func() {
		c.cancel()
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error().Err(err).Msg("websocket read error")
			}
			break
		}

		if strings.TrimSpace(string(message)) != RefreshCommand {
			c.logger.Debug().Str("message", string(message)).Msg("ignoring unknown client message")
			continue
		}
		c.refresh()
	}
}

// refresh runs onRefresh off the read goroutine so that a slow upstream does
// not stall pong handling. At most one refresh per client is in flight.
func (c *Client) refresh() {
	if c.onRefresh == nil {
		return
	}
	if !c.refreshing.CompareAndSwap(false, true) {
		c.logger.Debug().Msg("refresh already in progress")
		return
	}
	go func() {
		defer c.refreshing.Store(false)
		c.onRefresh(c.ctx, c)
	}()
}

// writePump pumps messages from the hub to the websocket connection
//
// A goroutine running writePump is started for each connection. The
// application ensures that there is at most one writer to a connection by
// executing all writes from this goroutine.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// one JSON document per frame
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start starts the client's read and write pumps
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}
