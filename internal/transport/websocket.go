package transport

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// Frame types exchanged with the telnet bridge.
const (
	FrameData = "data"
	FrameSend = "send"
)

// Frame is the JSON envelope of the bridge protocol. Data frames carry raw
// session bytes from the server; send frames carry one command line.
type Frame struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// HeaderProvider injects handshake headers such as bridge credentials.
type HeaderProvider func() map[string]string

// WebSocket reaches FICS through a bridge that relays the telnet session
// over JSON frames.
type WebSocket struct {
	hub

	wsURL  string
	logger *zap.Logger

	conn  *websocket.Conn
	connM sync.Mutex

	maxReconnectAttempts int
	pingInterval         time.Duration

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	rootCtx    context.Context
	rootCancel context.CancelFunc

	headerProvider HeaderProvider
}

type WebSocketOption func(*WebSocket)

func WithWebSocketLogger(l *zap.Logger) WebSocketOption {
	return func(ws *WebSocket) {
		if l != nil {
			ws.logger = l
		}
	}
}

func WithWebSocketReconnect(attempts int) WebSocketOption {
	return func(ws *WebSocket) { ws.maxReconnectAttempts = attempts }
}

func WithPingInterval(d time.Duration) WebSocketOption {
	return func(ws *WebSocket) {
		if d > 0 {
			ws.pingInterval = d
		}
	}
}

func WithHeaderProvider(h HeaderProvider) WebSocketOption {
	return func(ws *WebSocket) { ws.headerProvider = h }
}

func NewWebSocket(wsURL string, opts ...WebSocketOption) *WebSocket {
	ws := &WebSocket{
		wsURL:                wsURL,
		logger:               zap.NewNop(),
		maxReconnectAttempts: 5,
		pingInterval:         30 * time.Second,
		stopCh:               make(chan struct{}),
	}
	for _, o := range opts {
		o(ws)
	}
	ws.rootCtx, ws.rootCancel = context.WithCancel(context.Background())
	return ws
}

func (ws *WebSocket) Connect(ctx context.Context) error {
	switch ws.State() {
	case StateConnected, StateConnecting:
		return nil
	}
	ws.setState(StateConnecting)

	conn, err := ws.dial(ctx)
	if err != nil {
		ws.setState(StateFailed)
		return err
	}
	ws.attach(conn)
	return nil
}

func (ws *WebSocket) dial(ctx context.Context) (*websocket.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(dialCtx, ws.wsURL, &websocket.DialOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
		HTTPHeader:      ws.buildHeaders(),
	})
	return conn, err
}

func (ws *WebSocket) attach(conn *websocket.Conn) {
	ws.connM.Lock()
	ws.conn = conn
	ws.connM.Unlock()
	ws.splitter = Splitter{}
	ws.setState(StateConnected)
	ws.logger.Info("bridge connected", zap.String("url", ws.wsURL))

	ws.wg.Add(2)
	go ws.listen(conn)
	go ws.pingLoop(conn)
}

func (ws *WebSocket) listen(conn *websocket.Conn) {
	defer ws.wg.Done()
	for {
		var f Frame
		if err := wsjson.Read(ws.rootCtx, conn, &f); err != nil {
			if ws.isStopping() {
				return
			}
			ws.drop(conn, "reconnect", err)
			return
		}
		if f.Type == FrameData {
			ws.feed([]byte(f.Data))
		}
	}
}

func (ws *WebSocket) pingLoop(conn *websocket.Conn) {
	defer ws.wg.Done()
	t := time.NewTicker(ws.pingInterval)
	defer t.Stop()
	failures := 0
	for {
		select {
		case <-ws.stopCh:
			return
		case <-t.C:
			if ws.current() != conn {
				return
			}
			ctx, cancel := context.WithTimeout(ws.rootCtx, 3*time.Second)
			err := conn.Ping(ctx)
			cancel()
			if err == nil {
				failures = 0
				continue
			}
			failures++
			if failures >= 2 {
				ws.drop(conn, "ping failure", err)
				return
			}
		}
	}
}

// drop retires conn once; the listener and the pinger may both notice.
func (ws *WebSocket) drop(conn *websocket.Conn, reason string, cause error) {
	ws.connM.Lock()
	if ws.conn != conn {
		ws.connM.Unlock()
		return
	}
	ws.conn = nil
	ws.connM.Unlock()

	ws.logger.Warn("bridge dropped", zap.String("reason", reason), zap.Error(cause))
	_ = conn.Close(websocket.StatusGoingAway, reason)
	ws.setState(StateDisconnected)
	ws.scheduleReconnect()
}

func (ws *WebSocket) scheduleReconnect() {
	if ws.maxReconnectAttempts <= 0 || ws.isStopping() {
		return
	}
	ws.setState(StateReconnecting)

	ws.wg.Add(1)
	go func() {
		defer ws.wg.Done()
		for attempt := 1; attempt <= ws.maxReconnectAttempts; attempt++ {
			if err := sleepWithContext(ws.rootCtx, backoffDuration(attempt)); err != nil {
				return
			}
			conn, err := ws.dial(ws.rootCtx)
			if err != nil {
				continue
			}
			ws.attach(conn)
			return
		}
		ws.setState(StateFailed)
	}()
}

func (ws *WebSocket) Send(ctx context.Context, line string) error {
	conn := ws.current()
	if conn == nil {
		return ErrNotConnected
	}
	return wsjson.Write(ctx, conn, Frame{Type: FrameSend, Data: line + "\n"})
}

func (ws *WebSocket) Close(ctx context.Context) error {
	ws.stopOnce.Do(func() { close(ws.stopCh) })
	if conn := ws.current(); conn != nil {
		_ = conn.Close(websocket.StatusNormalClosure, "close")
	}
	ws.rootCancel()

	done := make(chan struct{})
	go func() {
		ws.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		ws.connM.Lock()
		ws.conn = nil
		ws.connM.Unlock()
		ws.setState(StateDisconnected)
		return nil
	}
}

func (ws *WebSocket) current() *websocket.Conn {
	ws.connM.Lock()
	defer ws.connM.Unlock()
	return ws.conn
}

func (ws *WebSocket) isStopping() bool {
	select {
	case <-ws.stopCh:
		return true
	default:
		return false
	}
}

func (ws *WebSocket) buildHeaders() http.Header {
	hdr := http.Header{}
	if ws.headerProvider == nil {
		return hdr
	}
	for k, v := range ws.headerProvider() {
		if strings.TrimSpace(k) == "" || strings.TrimSpace(v) == "" {
			continue
		}
		hdr.Set(k, v)
	}
	return hdr
}
