package record

import (
	"strings"
	"time"
)

// Kind classifies a chat utterance.
type Kind string

const (
	KindPrivateTell  Kind = "tell"
	KindSay          Kind = "say"
	KindPartnerTell  Kind = "ptell"
	KindChannelTell  Kind = "channel"
	KindShout        Kind = "shout"
	KindShoutIt      Kind = "it"
	KindChessShout   Kind = "cshout"
	KindAnnouncement Kind = "announcement"
	KindKibitz       Kind = "kibitz"
	KindWhisper      Kind = "whisper"
	KindOwn          Kind = "own"
)

// Shared conversation ids for broadcast kinds.
const (
	ConversationShouts        = "shouts"
	ConversationChessShouts   = "cshouts"
	ConversationAnnouncements = "announcements"
)

var now = time.Now

// Communication is one chat line routed to a conversation log.
type Communication struct {
	Kind   Kind      `json:"kind"`
	ID     string    `json:"id"`
	Handle string    `json:"handle"`
	Text   string    `json:"text"`
	At     time.Time `json:"at"`
}

func newCommunication(kind Kind, id, handle, text string) Communication {
	return Communication{
		Kind:   kind,
		ID:     strings.TrimSpace(id),
		Handle: handle,
		Text:   text,
		At:     now(),
	}
}

func NewPrivateTell(handle, text string) Communication {
	return newCommunication(KindPrivateTell, handle, handle, text)
}

func NewSay(handle, text string) Communication {
	return newCommunication(KindSay, handle, handle, text)
}

func NewPartnerTell(handle, text string) Communication {
	return newCommunication(KindPartnerTell, handle, handle, text)
}

func NewChannelTell(channel, handle, text string) Communication {
	return newCommunication(KindChannelTell, channel, handle, text)
}

func NewShout(handle, text string) Communication {
	return newCommunication(KindShout, ConversationShouts, handle, text)
}

func NewShoutIt(handle, text string) Communication {
	return newCommunication(KindShoutIt, ConversationShouts, handle, text)
}

func NewChessShout(handle, text string) Communication {
	return newCommunication(KindChessShout, ConversationChessShouts, handle, text)
}

func NewAnnouncement(handle, text string) Communication {
	return newCommunication(KindAnnouncement, ConversationAnnouncements, handle, text)
}

// NewKibitz and NewWhisper key the line by server game number.
func NewKibitz(gameID, handle, text string) Communication {
	return newCommunication(KindKibitz, gameID, handle, text)
}

func NewWhisper(gameID, handle, text string) Communication {
	return newCommunication(KindWhisper, gameID, handle, text)
}

// NewOwn records a line the local user sent to conversation id.
func NewOwn(id, handle, text string) Communication {
	return newCommunication(KindOwn, id, handle, text)
}
