package ficsclient

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/cheese-fics/internal/fics/model"
	"github.com/park285/cheese-fics/internal/fics/record"
)

// EventLogger writes decoded events to a zap logger. Noisy events go to
// debug.
type EventLogger struct {
	model.NopListener
	logger *zap.Logger
}

func NewEventLogger(l *zap.Logger) *EventLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &EventLogger{logger: l}
}

func (e *EventLogger) OnGameCreate(id uuid.UUID) {
	e.logger.Info("fics game created", zap.Stringer("game", id))
}

func (e *EventLogger) OnGameUpdate(id uuid.UUID) {
	e.logger.Debug("fics game updated", zap.Stringer("game", id))
}

func (e *EventLogger) OnIllegalMove() { e.logger.Info("fics illegal move") }

func (e *EventLogger) OnPendingInfo(info record.PendingInfo) {
	e.logger.Info("fics pending offers", zap.Int("from", len(info.From)), zap.Int("to", len(info.To)))
}

func (e *EventLogger) OnDrawOffer(handle string) {
	e.logger.Info("fics draw offer", zap.String("from", handle))
}

func (e *EventLogger) OnAbortRequest(handle string) {
	e.logger.Info("fics abort request", zap.String("from", handle))
}

func (e *EventLogger) OnSeekInfoSet(list record.SeekInfoList) {
	e.logger.Info("fics seek list", zap.Int("seeks", len(list.Seeks)))
}

func (e *EventLogger) OnCommunication(c record.Communication) {
	e.logger.Debug("fics chat",
		zap.String("kind", string(c.Kind)),
		zap.String("conversation", c.ID),
		zap.String("handle", c.Handle),
	)
}

func (e *EventLogger) OnFinger(info record.FingerInfo) {
	e.logger.Debug("fics finger", zap.String("handle", info.Handle))
}

func (e *EventLogger) OnNotLoggedIn(handle string) {
	e.logger.Info("fics player not logged in", zap.String("handle", handle))
}

func (e *EventLogger) OnMotdExtended(data *record.WelcomeData) {
	if data == nil {
		return
	}
	e.logger.Info("fics welcome",
		zap.Int("news", len(data.News)),
		zap.Int("unread_messages", data.UnreadMessages),
		zap.Strings("friends", data.Friends),
	)
}

func (e *EventLogger) OnMessages(messages []record.ReceivedMessage) {
	e.logger.Info("fics messages", zap.Int("count", len(messages)))
}
