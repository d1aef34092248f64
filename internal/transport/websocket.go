package transport

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"printsync/internal/logger"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 22 // 4 MB; bulk history payloads are large
	handshakeTimeout = 10 * time.Second
	defaultRedial    = 2 * time.Second
)

// Client dials the controller and keeps the channel alive. Reconnection is a
// pure fixed-delay loop with no attempt cap: the controller being down is an
// expected condition, not a failure to give up on.
type Client struct {
	url     string
	redial  time.Duration
	handler Handler
	log     *logger.Logger

	mu      sync.Mutex
	conn    *websocket.Conn
	pending map[string]string // request id → method

	writeMu sync.Mutex
}

// NewClient constructs a client for the given websocket URL. Events are
// delivered to handler from the run loop goroutine.
func NewClient(url string, redial time.Duration, handler Handler, log *logger.Logger) *Client {
	if redial <= 0 {
		redial = defaultRedial
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		url:     url,
		redial:  redial,
		handler: handler,
		log:     log,
		pending: map[string]string{},
	}
}

// Run dials, serves and redials until ctx is canceled.
func (c *Client) Run(ctx context.Context) {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	attempt := 0
	for {
		if ctx.Err() != nil {
			return
		}
		c.handler.OnConnecting(attempt > 0)

		conn, _, err := dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			c.log.Warnw("controller_dial_failed", "url", c.url, "err", err)
			attempt++
			if !sleepCtx(ctx, c.redial) {
				return
			}
			continue
		}

		c.setConn(conn)
		c.handler.OnOpen()
		c.serve(ctx, conn)
		c.setConn(nil)
		c.handler.OnClose()

		attempt++
		if !sleepCtx(ctx, c.redial) {
			return
		}
	}
}

// Request issues a fire-and-forget JSON-RPC call. The matching response is
// delivered later through the handler, correlated by a fresh uuid id.
func (c *Client) Request(method string, params any) error {
	c.mu.Lock()
	conn := c.conn
	if conn == nil {
		c.mu.Unlock()
		return ErrNotConnected
	}
	id := uuid.NewString()
	c.pending[id] = method
	c.mu.Unlock()

	req := rpcRequest{Version: "2.0", Method: method, Params: params, ID: id}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(req); err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return err
	}
	return nil
}

// serve reads frames until the connection drops, keeping it alive with pings
// and closing it when ctx is canceled.
func (c *Client) serve(ctx context.Context, conn *websocket.Conn) {
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go c.keepAlive(ctx, conn, done)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.log.Infow("controller_read_closed", "err", err)
			return
		}
		c.dispatch(data)
	}
}

// keepAlive pings periodically and force-closes the connection on ctx
// cancellation so the read loop unblocks.
func (c *Client) keepAlive(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			_ = conn.Close()
			return
		case <-ping.C:
			c.writeMu.Lock()
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				c.log.Infow("controller_ping_failed", "err", err)
				_ = conn.Close()
				return
			}
		}
	}
}

// dispatch decodes one inbound frame and forwards it: responses are matched
// to their request method, error responses are classified by the handler,
// id-less frames are server notifications.
func (c *Client) dispatch(data []byte) {
	var f rpcFrame
	if err := json.Unmarshal(data, &f); err != nil {
		c.log.Debugw("controller_frame_undecodable", "err", err)
		return
	}
	switch {
	case f.ID != "":
		method := c.takePending(f.ID)
		if f.Error != nil {
			c.handler.OnError(f.Error.Code, f.Error.Message)
			return
		}
		if method == "" {
			c.log.Debugw("controller_response_unmatched", "id", f.ID)
			return
		}
		c.handler.OnResponse(method, f.Result)
	case f.Method != "":
		c.handler.OnNotification(f.Method, f.Params)
	}
}

func (c *Client) takePending(id string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	method := c.pending[id]
	delete(c.pending, id)
	return method
}

// setConn swaps the active connection; clearing it drops pending calls whose
// responses can no longer arrive.
func (c *Client) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn = conn
	if conn == nil && len(c.pending) > 0 {
		c.pending = map[string]string{}
	}
}

// sleepCtx waits d, returning false if ctx was canceled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
