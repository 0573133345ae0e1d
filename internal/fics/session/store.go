// Package session keeps the client-side state of one FICS session: games
// indexed by server slot and by stable id, the seek table and conversation
// logs.
//
// Store has no locking. The owner serialises access.
package session

import (
	"slices"
	"sort"
	"strconv"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/park285/cheese-fics/internal/fics/record"
	"github.com/park285/cheese-fics/internal/fics/style12"
)

// Descriptions recorded when the server detaches a game without a result line.
const (
	DescRemovedFromObservation = "[This game was removed from observation list.]"
	DescNoLongerExamining      = "[You are no longer examining this game.]"
)

// Store is the arena of games plus the seek table and conversation logs.
type Store struct {
	games  map[uuid.UUID]*Game
	order  []uuid.UUID
	active map[int]uuid.UUID

	seeks map[int]record.SeekInfo
	convs map[string][]record.Communication

	newID func() uuid.UUID
	now   func() time.Time
}

// Option customises a Store.
type Option func(*Store)

// WithIDs replaces the stable id generator.
func WithIDs(fn func() uuid.UUID) Option { return func(s *Store) { s.newID = fn } }

// WithClock replaces the time source.
func WithClock(fn func() time.Time) Option { return func(s *Store) { s.now = fn } }

func NewStore(opts ...Option) *Store {
	s := &Store{
		games:  make(map[uuid.UUID]*Game),
		active: make(map[int]uuid.UUID),
		seeks:  make(map[int]record.SeekInfo),
		convs:  make(map[string][]record.Communication),
		newID:  uuid.New,
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CreateGame registers a new game for pos's slot. A game already holding the
// slot is detached from it but stays reachable by its stable id.
func (s *Store) CreateGame(pos *style12.Position, whiteRating, blackRating string) *Game {
	now := s.now()
	g := &Game{
		ID:          s.newID(),
		WhiteRating: whiteRating,
		BlackRating: blackRating,
		CreatedAt:   now,
		UpdatedAt:   now,
		Relation:    style12.RelationUnknown,
		clock:       s.now,
	}
	if pos != nil {
		g.Slot = pos.GameID
		g.AddPosition(pos)
	}
	s.games[g.ID] = g
	s.order = append(s.order, g.ID)
	s.active[g.Slot] = g.ID
	return g
}

// UpdateBySlot appends pos to the game holding its slot. When the slot is
// unknown and pos reports an examined game, a game is created implicitly.
// It returns nil for any other unknown slot.
func (s *Store) UpdateBySlot(pos *style12.Position) (g *Game, created bool) {
	if pos == nil {
		return nil, false
	}
	if g = s.GameBySlot(pos.GameID); g != nil {
		g.AddPosition(pos)
		return g, false
	}
	if pos.Relation != style12.RelationExamining {
		return nil, false
	}
	return s.CreateGame(pos, "", ""), true
}

// GameBySlot returns the live game for a server slot.
func (s *Store) GameBySlot(slot int) *Game {
	id, ok := s.active[slot]
	if !ok {
		return nil
	}
	return s.games[id]
}

// ReleaseSlot detaches the slot and returns the game that held it.
func (s *Store) ReleaseSlot(slot int) *Game {
	id, ok := s.active[slot]
	if !ok {
		return nil
	}
	delete(s.active, slot)
	return s.games[id]
}

// EndBySlot detaches the slot and finishes its game. Unknown slots are a no-op.
func (s *Store) EndBySlot(slot int, result, description string) *Game {
	g := s.ReleaseSlot(slot)
	if g == nil {
		return nil
	}
	g.Finish(result, description)
	return g
}

// Game returns the game with the stable id, live or finished.
func (s *Store) Game(id uuid.UUID) *Game { return s.games[id] }

// GameIDs lists stable ids in creation order.
func (s *Store) GameIDs() []uuid.UUID { return slices.Clone(s.order) }

// ActiveSlots lists the server slots currently tracked, ascending.
func (s *Store) ActiveSlots() []int {
	out := make([]int, 0, len(s.active))
	for slot := range s.active {
		out = append(out, slot)
	}
	sort.Ints(out)
	return out
}

// RemoveGame forgets a game in both indices.
func (s *Store) RemoveGame(id uuid.UUID) bool {
	if _, ok := s.games[id]; !ok {
		return false
	}
	delete(s.games, id)
	s.order = slices.DeleteFunc(s.order, func(v uuid.UUID) bool { return v == id })
	for slot, v := range s.active {
		if v == id {
			delete(s.active, slot)
		}
	}
	return true
}

// ReplaceSeeks installs a full seek snapshot.
func (s *Store) ReplaceSeeks(list record.SeekInfoList) {
	clear(s.seeks)
	for _, sk := range list.Seeks {
		s.seeks[sk.ID] = sk
	}
}

func (s *Store) AddSeek(sk record.SeekInfo) { s.seeks[sk.ID] = sk }

func (s *Store) RemoveSeeks(ids []int) {
	for _, id := range ids {
		delete(s.seeks, id)
	}
}

// Seeks returns the seek table ordered by id.
func (s *Store) Seeks() []record.SeekInfo {
	out := make([]record.SeekInfo, 0, len(s.seeks))
	for _, sk := range s.seeks {
		out = append(out, sk)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AppendCommunication adds c to its conversation, creating the log on demand.
func (s *Store) AppendCommunication(c record.Communication) {
	s.convs[c.ID] = append(s.convs[c.ID], c)
}

// Communications returns a copy of the log for id. Asking for an unknown id
// creates an empty log.
func (s *Store) Communications(id string) []record.Communication {
	log, ok := s.convs[id]
	if !ok {
		s.convs[id] = nil
		return []record.Communication{}
	}
	return append([]record.Communication{}, log...)
}

// EnsureConversation creates an empty log for id if none exists.
func (s *Store) EnsureConversation(id string) {
	if _, ok := s.convs[id]; !ok {
		s.convs[id] = nil
	}
}

// DropConversation forgets the log for id.
func (s *Store) DropConversation(id string) { delete(s.convs, id) }

// CommunicationIDs lists conversation ids. Two numeric ids compare as
// numbers; any other pair compares case-insensitively.
func (s *Store) CommunicationIDs() []string {
	ids := make([]string, 0, len(s.convs))
	for id := range s.convs {
		ids = append(ids, id)
	}
	// map order is random; a fixed base order keeps the stable sort deterministic
	sort.Strings(ids)
	slices.SortStableFunc(ids, CompareConversationIDs)
	return ids
}

// CompareConversationIDs orders channel numbers numerically and handles
// case-insensitively.
func CompareConversationIDs(a, b string) int {
	l, errA := strconv.Atoi(a)
	r, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		switch {
		case l < r:
			return -1
		case l > r:
			return 1
		}
		return 0
	}
	return compareFold(a, b)
}

func compareFold(a, b string) int {
	for a != "" && b != "" {
		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)
		a, b = a[na:], b[nb:]
		if ra == rb {
			continue
		}
		ra = unicode.ToLower(unicode.ToUpper(ra))
		rb = unicode.ToLower(unicode.ToUpper(rb))
		if ra != rb {
			if ra < rb {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}
