package archive

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/cheese-fics/internal/fics/model"
	"github.com/park285/cheese-fics/internal/fics/record"
	"github.com/park285/cheese-fics/internal/fics/session"
)

// GameSource resolves stable ids. *model.Model satisfies it.
type GameSource interface {
	Game(id uuid.UUID) *session.Game
}

type GameSink interface {
	SaveGame(ctx context.Context, r *Record) error
}

type ConversationSink interface {
	AppendCommunication(ctx context.Context, c record.Communication) error
}

type job struct {
	name string
	run  func(ctx context.Context) error
}

// Archiver is a model listener that hands finished games and chat lines to
// the sinks. Events arrive on the decoder goroutine; the writes happen in Run.
type Archiver struct {
	model.NopListener

	source        GameSource
	games         []GameSink
	conversations ConversationSink
	logger        *zap.Logger
	timeout       time.Duration

	archived map[uuid.UUID]struct{}
	jobs     chan job
}

type ArchiverOption func(*Archiver)

func WithGameSink(s GameSink) ArchiverOption {
	return func(a *Archiver) {
		if s != nil {
			a.games = append(a.games, s)
		}
	}
}

func WithConversationSink(s ConversationSink) ArchiverOption {
	return func(a *Archiver) { a.conversations = s }
}

func WithArchiverLogger(l *zap.Logger) ArchiverOption {
	return func(a *Archiver) {
		if l != nil {
			a.logger = l
		}
	}
}

func WithQueueSize(n int) ArchiverOption {
	return func(a *Archiver) {
		if n > 0 {
			a.jobs = make(chan job, n)
		}
	}
}

func NewArchiver(source GameSource, opts ...ArchiverOption) *Archiver {
	a := &Archiver{
		source:   source,
		logger:   zap.NewNop(),
		timeout:  5 * time.Second,
		archived: make(map[uuid.UUID]struct{}),
		jobs:     make(chan job, 256),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// OnGameUpdate archives a game the first time it is seen finished.
func (a *Archiver) OnGameUpdate(id uuid.UUID) {
	if len(a.games) == 0 {
		return
	}
	if _, done := a.archived[id]; done {
		return
	}
	g := a.source.Game(id)
	if !g.Finished() {
		return
	}
	a.archived[id] = struct{}{}

	rec, err := Summarize(g)
	if err != nil {
		a.logger.Warn("archive: summarize failed", zap.String("game_id", id.String()), zap.Error(err))
		return
	}
	for _, sink := range a.games {
		a.enqueue(job{name: "save_game", run: func(ctx context.Context) error { return sink.SaveGame(ctx, rec) }})
	}
}

func (a *Archiver) OnCommunication(c record.Communication) {
	if a.conversations == nil {
		return
	}
	a.enqueue(job{name: "append_communication", run: func(ctx context.Context) error {
		return a.conversations.AppendCommunication(ctx, c)
	}})
}

func (a *Archiver) enqueue(j job) {
	select {
	case a.jobs <- j:
	default:
		a.logger.Warn("archive: queue full, dropping", zap.String("job", j.name))
	}
}

// Run performs queued writes until ctx is cancelled, then drains what is
// already queued. Each write gets its own timeout.
func (a *Archiver) Run(ctx context.Context) {
	for {
		select {
		case j := <-a.jobs:
			a.do(j)
		case <-ctx.Done():
			for {
				select {
				case j := <-a.jobs:
					a.do(j)
				default:
					return
				}
			}
		}
	}
}

func (a *Archiver) do(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	if err := j.run(ctx); err != nil {
		a.logger.Error("archive: write failed", zap.String("job", j.name), zap.Error(err))
	}
}
