// Package ficsclient binds a transport to the decoder. One goroutine feeds
// chunks into the model; readers take snapshots under a read lock.
package ficsclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/cheese-fics/internal/fics/grammar"
	"github.com/park285/cheese-fics/internal/fics/model"
	"github.com/park285/cheese-fics/internal/fics/record"
	"github.com/park285/cheese-fics/internal/fics/session"
	"github.com/park285/cheese-fics/internal/transport"
)

var (
	ErrInvalidHandle = errors.New("ficsclient: invalid handle")
	ErrEmptyCommand  = errors.New("ficsclient: empty command")
)

// DefaultSetup turns on the interface variables the decoder relies on.
var DefaultSetup = []string{
	"set style 12",
	"iset nowrap 1",
	"iset pendinfo 1",
	"iset seekinfo 1",
}

type Config struct {
	Handle   string
	Password string

	// PingToken is sent every PingInterval; zero interval disables it.
	PingToken    string
	PingInterval time.Duration

	// ProbeHandle is fingered after login when set.
	ProbeHandle string
	Setup       []string
}

type Client struct {
	cfg    Config
	conn   transport.Conn
	logger *zap.Logger

	mu    sync.RWMutex
	model *model.Model

	loginM   sync.Mutex
	loggedIn bool

	wg         sync.WaitGroup
	rootCtx    context.Context
	rootCancel context.CancelFunc
	startOnce  sync.Once
}

type Option func(*Client)

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func New(conn transport.Conn, m *model.Model, cfg Config, opts ...Option) *Client {
	if cfg.Setup == nil {
		cfg.Setup = DefaultSetup
	}
	c := &Client{
		cfg:    cfg,
		conn:   conn,
		model:  m,
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	c.rootCtx, c.rootCancel = context.WithCancel(context.Background())
	return c
}

// Start registers the callbacks and connects. Login lines go out once the
// transport reports a connection, including after every reconnect.
func (c *Client) Start(ctx context.Context) error {
	c.startOnce.Do(func() {
		c.conn.OnChunk(c.dispatch)
		c.conn.OnStateChange(c.onState)
		if c.cfg.PingInterval > 0 && c.cfg.PingToken != "" {
			c.wg.Add(1)
			go c.pingLoop()
		}
	})
	if err := c.conn.Connect(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	return nil
}

func (c *Client) dispatch(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model.Dispatch(text)
}

func (c *Client) onState(state transport.State) {
	c.logger.Info("fics transport state", zap.Stringer("state", state))
	c.loginM.Lock()
	defer c.loginM.Unlock()
	switch state {
	case transport.StateConnected:
		if c.loggedIn {
			return
		}
		c.loggedIn = true
		// The callback runs before the reader starts, so writes go elsewhere.
		c.wg.Add(1)
		go c.login()
	case transport.StateDisconnected, transport.StateReconnecting, transport.StateFailed:
		c.loggedIn = false
	}
}

func (c *Client) login() {
	defer c.wg.Done()
	lines := make([]string, 0, len(c.cfg.Setup)+3)
	lines = append(lines, c.cfg.Handle, c.cfg.Password)
	lines = append(lines, c.cfg.Setup...)
	if c.cfg.ProbeHandle != "" {
		lines = append(lines, "finger "+c.cfg.ProbeHandle)
	}
	for _, line := range lines {
		ctx, cancel := context.WithTimeout(c.rootCtx, 10*time.Second)
		err := c.conn.Send(ctx, line)
		cancel()
		if err != nil {
			c.logger.Warn("fics login send failed", zap.Error(err))
			return
		}
	}
	c.logger.Info("fics login sent", zap.String("handle", c.cfg.Handle))
}

func (c *Client) pingLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.rootCtx.Done():
			return
		case <-ticker.C:
			if c.conn.State() != transport.StateConnected {
				continue
			}
			ctx, cancel := context.WithTimeout(c.rootCtx, 5*time.Second)
			if err := c.conn.Send(ctx, c.cfg.PingToken); err != nil {
				c.logger.Debug("fics ping failed", zap.Error(err))
			}
			cancel()
		}
	}
}

// Send writes a raw command line.
func (c *Client) Send(ctx context.Context, line string) error {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return ErrEmptyCommand
	}
	return c.conn.Send(ctx, line)
}

// Tell sends a private tell and records it in the conversation with handle.
func (c *Client) Tell(ctx context.Context, handle, text string) error {
	if !grammar.ValidHandle(handle) {
		return ErrInvalidHandle
	}
	if err := c.Send(ctx, "tell "+handle+" "+text); err != nil {
		return err
	}
	c.mu.Lock()
	c.model.AddMessage(record.NewOwn(handle, c.cfg.Handle, text))
	c.mu.Unlock()
	return nil
}

func (c *Client) State() transport.State { return c.conn.State() }

func (c *Client) Transcript() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model.Transcript()
}

func (c *Client) GameIDs() []uuid.UUID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model.GameIDs()
}

// Games returns copies of every game in creation order.
func (c *Client) Games() []*session.Game {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := c.model.GameIDs()
	out := make([]*session.Game, 0, len(ids))
	for _, id := range ids {
		if g := c.model.Game(id); g != nil {
			out = append(out, g)
		}
	}
	return out
}

func (c *Client) Game(id uuid.UUID) *session.Game {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model.Game(id)
}

func (c *Client) GameBySlot(slot int) *session.Game {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model.GameBySlot(slot)
}

func (c *Client) ActiveSlots() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model.ActiveSlots()
}

func (c *Client) RemoveGame(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model.RemoveGame(id)
}

func (c *Client) CommunicationIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model.CommunicationIDs()
}

// Communications may create an empty conversation, so it takes the write lock.
func (c *Client) Communications(id string) []record.Communication {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model.Communications(id)
}

func (c *Client) Seeks() []record.SeekInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model.Seeks()
}

func (c *Client) WelcomeData() *record.WelcomeData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model.WelcomeData()
}

func (c *Client) IsCurrentVersionOld() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model.IsCurrentVersionOld()
}

// Stop closes the transport and waits for the client goroutines.
func (c *Client) Stop(ctx context.Context) error {
	c.rootCancel()
	err := c.conn.Close(ctx)

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return err
	}
}
