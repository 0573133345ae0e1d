package transport

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Dialer opens the raw TCP connection. net.Dialer.DialContext satisfies it.
type Dialer func(ctx context.Context, network, addr string) (net.Conn, error)

// Telnet speaks the plain TCP session of freechess.org:5000.
type Telnet struct {
	hub

	addr   string
	dial   Dialer
	logger *zap.Logger

	maxReconnectAttempts int
	dialTimeout          time.Duration

	conn   net.Conn
	connM  sync.Mutex
	writeM sync.Mutex

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	rootCtx    context.Context
	rootCancel context.CancelFunc
}

type TelnetOption func(*Telnet)

func WithDialer(d Dialer) TelnetOption {
	return func(t *Telnet) {
		if d != nil {
			t.dial = d
		}
	}
}

func WithTelnetLogger(l *zap.Logger) TelnetOption {
	return func(t *Telnet) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithTelnetReconnect sets how many redials follow a dropped connection.
func WithTelnetReconnect(attempts int) TelnetOption {
	return func(t *Telnet) { t.maxReconnectAttempts = attempts }
}

func NewTelnet(addr string, opts ...TelnetOption) *Telnet {
	var d net.Dialer
	t := &Telnet{
		addr:                 addr,
		dial:                 d.DialContext,
		logger:               zap.NewNop(),
		maxReconnectAttempts: 5,
		dialTimeout:          10 * time.Second,
		stopCh:               make(chan struct{}),
	}
	for _, o := range opts {
		o(t)
	}
	t.rootCtx, t.rootCancel = context.WithCancel(context.Background())
	return t
}

func (t *Telnet) Connect(ctx context.Context) error {
	switch t.State() {
	case StateConnected, StateConnecting:
		return nil
	}
	t.setState(StateConnecting)

	dialCtx, cancel := context.WithTimeout(ctx, t.dialTimeout)
	defer cancel()
	conn, err := t.dial(dialCtx, "tcp", t.addr)
	if err != nil {
		t.setState(StateFailed)
		return fmt.Errorf("dial %s: %w", t.addr, err)
	}
	t.attach(conn)
	return nil
}

func (t *Telnet) attach(conn net.Conn) {
	t.connM.Lock()
	t.conn = conn
	t.connM.Unlock()
	t.splitter = Splitter{}
	t.setState(StateConnected)
	t.logger.Info("telnet connected", zap.String("addr", t.addr))

	t.wg.Add(1)
	go t.readLoop(conn)
}

func (t *Telnet) readLoop(conn net.Conn) {
	defer t.wg.Done()
	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			t.feed(buf[:n])
		}
		if err != nil {
			if t.isStopping() {
				return
			}
			t.logger.Warn("telnet read failed", zap.Error(err))
			t.setState(StateDisconnected)
			t.closeConn()
			t.scheduleReconnect()
			return
		}
	}
}

func (t *Telnet) scheduleReconnect() {
	if t.maxReconnectAttempts <= 0 {
		return
	}
	t.setState(StateReconnecting)

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		for attempt := 1; attempt <= t.maxReconnectAttempts; attempt++ {
			if err := sleepWithContext(t.rootCtx, backoffDuration(attempt)); err != nil {
				return
			}
			dialCtx, cancel := context.WithTimeout(t.rootCtx, t.dialTimeout)
			conn, err := t.dial(dialCtx, "tcp", t.addr)
			cancel()
			if err != nil {
				t.logger.Debug("telnet redial failed", zap.Int("attempt", attempt), zap.Error(err))
				continue
			}
			t.attach(conn)
			return
		}
		t.setState(StateFailed)
	}()
}

func (t *Telnet) Send(ctx context.Context, line string) error {
	t.connM.Lock()
	conn := t.conn
	t.connM.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	t.writeM.Lock()
	defer t.writeM.Unlock()
	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(dl)
		defer conn.SetWriteDeadline(time.Time{})
	}
	if _, err := conn.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("telnet write: %w", err)
	}
	return nil
}

func (t *Telnet) Close(ctx context.Context) error {
	t.stopOnce.Do(func() { close(t.stopCh) })
	t.rootCancel()
	t.closeConn()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		t.setState(StateDisconnected)
		return nil
	}
}

func (t *Telnet) closeConn() {
	t.connM.Lock()
	defer t.connM.Unlock()
	if t.conn == nil {
		return
	}
	_ = t.conn.Close()
	t.conn = nil
}

func (t *Telnet) isStopping() bool {
	select {
	case <-t.stopCh:
		return true
	default:
		return false
	}
}
