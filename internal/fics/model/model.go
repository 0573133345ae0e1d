// Package model decodes the FICS telnet stream into events and session state.
//
// Dispatch takes one prompt-delimited chunk at a time. A fixed ordered rule
// table decides which interpretation wins; the first matching rule handles the
// chunk. Rules before the fallback decide what the transcript shows. When none
// of them match, the whole chunk is echoed and a second group of rules is
// tried purely for its events.
package model

import (
	"math"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/cheese-fics/internal/fics/record"
	"github.com/park285/cheese-fics/internal/fics/session"
	"github.com/park285/cheese-fics/internal/fics/style12"
)

// PromptMarker is appended to the transcript after every echoed block.
const PromptMarker = "fics% "

// Config controls the version probe and keep-alive suppression.
type Config struct {
	// PingToken is a deliberately unknown command the transport sends as a
	// keep-alive; its "Command not found" reply is swallowed.
	PingToken string

	// ProbeHandle is the account fingered to discover the newest client
	// release. Empty disables the probe.
	ProbeHandle   string
	ProbePlatform string
	// ProbeIndex selects the version field in the platform's note entry.
	ProbeIndex int
}

// Model owns the session state and the transcript. It is not safe for
// concurrent use.
type Model struct {
	cfg      Config
	store    *session.Store
	listener Listener
	logger   *zap.Logger

	transcript strings.Builder
	welcome    *record.WelcomeData

	currentVersion int
	versionOld     bool
	probed         bool
}

// Option customises a Model.
type Option func(*Model)

func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

func WithStore(s *session.Store) Option {
	return func(m *Model) {
		if s != nil {
			m.store = s
		}
	}
}

func WithListener(l Listener) Option { return func(m *Model) { m.SetListener(l) } }

func New(cfg Config, opts ...Option) *Model {
	m := &Model{
		cfg:            cfg,
		store:          session.NewStore(),
		listener:       NopListener{},
		logger:         zap.NewNop(),
		currentVersion: math.MaxInt,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// SetListener replaces the event sink. nil detaches it.
func (m *Model) SetListener(l Listener) {
	if l == nil {
		l = NopListener{}
	}
	m.listener = l
}

// Transcript returns the reconstructed terminal output.
func (m *Model) Transcript() string { return m.transcript.String() }

func (m *Model) ResetTranscript() { m.transcript.Reset() }

func (m *Model) echo(parts ...string) {
	for _, p := range parts {
		m.transcript.WriteString(p)
	}
	m.transcript.WriteString(PromptMarker)
}

// GameIDs lists stable game ids in creation order.
func (m *Model) GameIDs() []uuid.UUID { return m.store.GameIDs() }

// Game returns a copy of the game, or nil.
func (m *Model) Game(id uuid.UUID) *session.Game { return m.store.Game(id).Clone() }

// ActiveSlots lists server game numbers that currently map to a game.
func (m *Model) ActiveSlots() []int { return m.store.ActiveSlots() }

// GameBySlot returns a copy of the live game for a server game number.
func (m *Model) GameBySlot(slot int) *session.Game { return m.store.GameBySlot(slot).Clone() }

// RemoveGame forgets a game locally. The server is not told.
func (m *Model) RemoveGame(id uuid.UUID) bool { return m.store.RemoveGame(id) }

func (m *Model) CommunicationIDs() []string { return m.store.CommunicationIDs() }

// Communications returns a copy of a conversation, creating it if needed.
func (m *Model) Communications(id string) []record.Communication {
	return m.store.Communications(id)
}

// AddMessage records a line the local user sent. No event is emitted.
func (m *Model) AddMessage(c record.Communication) { m.store.AppendCommunication(c) }

func (m *Model) Seeks() []record.SeekInfo { return m.store.Seeks() }

// WelcomeData returns the last login banner summary, or nil.
func (m *Model) WelcomeData() *record.WelcomeData { return m.welcome }

func (m *Model) SetCurrentVersion(v int) { m.currentVersion = v }

// IsCurrentVersionOld reports whether the probe saw a newer release.
func (m *Model) IsCurrentVersionOld() bool { return m.versionOld }

func (m *Model) decode(raw string) *style12.Position {
	p, err := style12.Decode(raw)
	if err != nil {
		m.logger.Debug("fics: skip board", zap.Error(err))
		return nil
	}
	return p
}

func (m *Model) created(g *session.Game) {
	m.listener.OnGameCreate(g.ID)
	m.listener.OnGameUpdate(g.ID)
}

func (m *Model) createGame(pos *style12.Position, whiteRating, blackRating string) {
	if pos == nil {
		return
	}
	m.created(m.store.CreateGame(pos, whiteRating, blackRating))
}

// updateGame applies a snapshot; see session.Store.UpdateBySlot.
func (m *Model) updateGame(pos *style12.Position) {
	g, created := m.store.UpdateBySlot(pos)
	switch {
	case g == nil:
	case created:
		m.created(g)
	default:
		m.listener.OnGameUpdate(g.ID)
	}
}

func (m *Model) endGame(slot int, result, description string) *session.Game {
	g := m.store.EndBySlot(slot, result, description)
	if g != nil {
		m.listener.OnGameUpdate(g.ID)
	}
	return g
}

func (m *Model) communicate(c record.Communication) {
	m.store.AppendCommunication(c)
	m.listener.OnCommunication(c)
}
