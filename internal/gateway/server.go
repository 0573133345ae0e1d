// Package gateway exposes the live session over HTTP: JSON snapshots of
// games, chat and seeks, PNG boards, and a raw command endpoint.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/park285/cheese-fics/internal/archive"
	"github.com/park285/cheese-fics/internal/board"
	"github.com/park285/cheese-fics/internal/fics/record"
	"github.com/park285/cheese-fics/internal/fics/session"
	"github.com/park285/cheese-fics/internal/transport"
)

var ErrGameNotFound = errors.New("gateway: game not found")

// Session is the part of ficsclient.Client the gateway reads and drives.
type Session interface {
	State() transport.State
	Transcript() string
	Games() []*session.Game
	Game(id uuid.UUID) *session.Game
	ActiveSlots() []int
	RemoveGame(id uuid.UUID) bool
	CommunicationIDs() []string
	Communications(id string) []record.Communication
	Seeks() []record.SeekInfo
	WelcomeData() *record.WelcomeData
	IsCurrentVersionOld() bool
	Send(ctx context.Context, line string) error
	Tell(ctx context.Context, handle, text string) error
}

// Archive serves finished games after they left the session.
type Archive interface {
	LoadGame(ctx context.Context, id uuid.UUID) (*archive.Record, error)
	GamesByPlayer(ctx context.Context, handle string) ([]uuid.UUID, error)
	RecentGames(ctx context.Context, n int) ([]uuid.UUID, error)
	ConversationTail(ctx context.Context, id string) ([]record.Communication, error)
}

type Server struct {
	session   Session
	archive   Archive
	renderer  *board.Renderer
	logger    *zap.Logger
	transport string

	requestTimeout time.Duration
	srv            *fasthttp.Server
}

type Option func(*Server)

func WithArchive(a Archive) Option { return func(s *Server) { s.archive = a } }

func WithRenderer(r *board.Renderer) Option {
	return func(s *Server) {
		if r != nil {
			s.renderer = r
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTransportName labels the status report.
func WithTransportName(name string) Option { return func(s *Server) { s.transport = name } }

func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

func NewServer(sess Session, opts ...Option) *Server {
	s := &Server{
		session:        sess,
		renderer:       board.NewRenderer(),
		logger:         zap.NewNop(),
		requestTimeout: 5 * time.Second,
	}
	for _, o := range opts {
		o(s)
	}
	s.srv = &fasthttp.Server{
		Handler:      s.handle,
		Name:         "cheese-fics",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Serve blocks on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("gateway listening", zap.String("addr", ln.Addr().String()))
	if err := s.srv.Serve(ln); err != nil {
		return fmt.Errorf("gateway serve: %w", err)
	}
	return nil
}

func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("gateway listen %s: %w", addr, err)
	}
	return s.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.ShutdownWithContext(ctx)
}

func (s *Server) handle(ctx *fasthttp.RequestCtx) {
	start := time.Now()
	path := strings.Trim(string(ctx.Path()), "/")
	parts := strings.Split(path, "/")
	method := string(ctx.Method())

	switch {
	case path == "healthz":
		writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
	case path == "status" && method == fasthttp.MethodGet:
		s.getStatus(ctx)
	case path == "transcript" && method == fasthttp.MethodGet:
		ctx.SetContentType("text/plain; charset=utf-8")
		ctx.SetBodyString(s.session.Transcript())
	case path == "games" && method == fasthttp.MethodGet:
		s.listGames(ctx)
	case len(parts) == 2 && parts[0] == "games" && method == fasthttp.MethodGet:
		s.getGame(ctx, parts[1])
	case len(parts) == 2 && parts[0] == "games" && method == fasthttp.MethodDelete:
		s.deleteGame(ctx, parts[1])
	case len(parts) == 3 && parts[0] == "games" && parts[2] == "board.png" && method == fasthttp.MethodGet:
		s.getBoard(ctx, parts[1])
	case path == "communications" && method == fasthttp.MethodGet:
		writeJSON(ctx, fasthttp.StatusOK, s.session.CommunicationIDs())
	case len(parts) == 2 && parts[0] == "communications" && method == fasthttp.MethodGet:
		s.getConversation(ctx, parts[1])
	case path == "seeks" && method == fasthttp.MethodGet:
		s.listSeeks(ctx)
	case path == "welcome" && method == fasthttp.MethodGet:
		s.getWelcome(ctx)
	case path == "send" && method == fasthttp.MethodPost:
		s.postSend(ctx)
	case len(parts) >= 2 && parts[0] == "archive" && method == fasthttp.MethodGet:
		s.getArchive(ctx, parts[1:])
	default:
		writeError(ctx, fasthttp.StatusNotFound, "not_found", "no route for "+method+" /"+path)
	}

	s.logger.Debug("gateway request",
		zap.String("method", method),
		zap.String("path", "/"+path),
		zap.Int("status", ctx.Response.StatusCode()),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func (s *Server) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.requestTimeout)
}
