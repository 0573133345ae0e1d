package record

import (
	"testing"
	"time"

	"github.com/park285/cheese-fics/internal/fics/grammar"
)

func TestTitles_IsGuest(t *testing.T) {
	if !ParseTitles("01").IsGuest() {
		t.Fatalf("0x01 should be a guest")
	}
	if !ParseTitles("03").IsGuest() {
		t.Fatalf("0x03 should be a guest")
	}
	if ParseTitles("04").IsGuest() {
		t.Fatalf("GM is not a guest")
	}
	if ParseTitles("zz") != 0 {
		t.Fatalf("malformed titles should decode to zero")
	}
}

func TestSeekFromGroups(t *testing.T) {
	g := grammar.SeekInfoSetSeek.FindStringSubmatch("<s> 7 w=alice ti=02 rt=1650P t=5 i=2 r=u tp=standard c=W rr=1200-1900 a=f t=f f=t\n")
	if g != nil {
		t.Fatalf("malformed line should not match")
	}
	g = grammar.SeekInfoSetSeek.FindStringSubmatch("<s> 7 w=alice ti=02 rt=1650P t=5 i=2 r=u tp=standard c=W rr=1200-1900 a=f f=t\n")
	s := SeekFromGroups(g)
	want := SeekInfo{
		ID: 7, Handle: "alice", Titles: TitleComputer, Rating: 1650, Provisional: "P",
		Time: 5, Increment: 2, Rated: false, Type: "standard", Color: "W",
		RatingMin: 1200, RatingMax: 1900, Automatic: false, Formula: true,
	}
	if s != want {
		t.Fatalf("got %+v\nwant %+v", s, want)
	}
	if s.Excluded() {
		t.Fatalf("standard seek should not be excluded")
	}
}

func TestRemovedSeeks(t *testing.T) {
	l := RemovedSeeks("12 5  x 9")
	if l.Op != SeekRemove {
		t.Fatalf("op: %s", l.Op)
	}
	ids := l.IDs()
	if len(ids) != 3 || ids[0] != 12 || ids[1] != 5 || ids[2] != 9 {
		t.Fatalf("ids: %v", ids)
	}
}

func TestCommunicationIDs(t *testing.T) {
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	cases := []struct {
		c    Communication
		id   string
		kind Kind
	}{
		{NewPrivateTell("alice", "hi"), "alice", KindPrivateTell},
		{NewChannelTell("50", "bob", "yo"), "50", KindChannelTell},
		{NewShout("carol", "x"), ConversationShouts, KindShout},
		{NewShoutIt("carol", "waves"), ConversationShouts, KindShoutIt},
		{NewChessShout("dave", "x"), ConversationChessShouts, KindChessShout},
		{NewAnnouncement("admin", "x"), ConversationAnnouncements, KindAnnouncement},
		{NewKibitz("12", "erin", "nice"), "12", KindKibitz},
	}
	for _, tc := range cases {
		if tc.c.ID != tc.id || tc.c.Kind != tc.kind {
			t.Errorf("got id=%q kind=%q want id=%q kind=%q", tc.c.ID, tc.c.Kind, tc.id, tc.kind)
		}
		if !tc.c.At.Equal(fixed) {
			t.Errorf("timestamp not taken from clock")
		}
	}
}

func TestPendingFromGroups(t *testing.T) {
	to := " 3: You are offering bob a draw.\n"
	from := " 4: carol is offering to takeback the last 2 half move(s).\n" +
		" 5: dave is offering a challenge: dave (1500) alice (1600) rated blitz 3 0.\n"
	p := PendingFromGroups(to, from)
	if len(p.To) != 1 || p.To[0].Kind != OfferDraw || p.To[0].Handle != "bob" || p.To[0].Number != 3 {
		t.Fatalf("to: %+v", p.To)
	}
	if len(p.From) != 2 {
		t.Fatalf("from: %+v", p.From)
	}
	if p.From[0].Kind != OfferTakeback || p.From[0].HalfMoves != 2 {
		t.Fatalf("takeback: %+v", p.From[0])
	}
	m := p.From[1]
	if m.Kind != OfferMatch || !m.Rated || m.Type != "blitz" || m.Time != 3 || m.Increment != 0 {
		t.Fatalf("match: %+v", m)
	}
}

func TestHistoryFromGroups(t *testing.T) {
	block := " 9: + 1523 W 1490 bob        [ br  3   0] B00 Res  Mon Jan  1, 12:00 UTC 2024\n"
	h := HistoryFromGroups("alice", block)
	if len(h.Entries) != 1 {
		t.Fatalf("entries: %+v", h.Entries)
	}
	e := h.Entries[0]
	if e.Index != 9 || e.Result != "+" || e.Opponent != "bob" || e.Type != "blitz" || !e.Rated || e.Time != 3 || e.ECO != "B00" {
		t.Fatalf("entry: %+v", e)
	}
}

func TestInchannelFromGroups(t *testing.T) {
	info := InchannelFromGroups("50", "chat", "alice(TM) {bob} carol(*)(GM)")
	if len(info.Users) != 3 || info.Users[0] != "alice" || info.Users[1] != "bob" || info.Users[2] != "carol" {
		t.Fatalf("users: %v", info.Users)
	}
}

func TestMessagesFrom_NewestFirst(t *testing.T) {
	text := "Messages:\n1. alice at Mon Jan  1: hello\n2. bob at Tue Jan  2: hi\n"
	msgs := MessagesFrom(text)
	if len(msgs) != 2 || msgs[0].Sender != "bob" || msgs[1].Sender != "alice" {
		t.Fatalf("messages: %+v", msgs)
	}
}

func TestNewsDetailsFromGroups(t *testing.T) {
	g := []string{"", "12", "01/02/24", "Title", "line one\n\\   line two", "admin"}
	n := NewsDetailsFromGroups(g)
	if n.Body != "line one\nline two" || n.Poster != "admin" || n.Number != 12 {
		t.Fatalf("news: %+v", n)
	}
}

func TestFingerInfo_Notes(t *testing.T) {
	g := make([]string, grammar.FingerFirstNoteGroup+grammar.FingerNoteCount)
	g[1] = "alice"
	g[grammar.FingerFirstRatingGroup] = "1500"
	g[grammar.FingerFirstRatingGroup+1] = "50.2"
	g[grammar.FingerFirstNoteGroup] = "first"
	g[grammar.FingerFirstNoteGroup+2] = "third"
	f := FingerFromGroups(g)
	if f.NoteCount() != 3 || f.Note(2) != "third" || f.Note(1) != "" || f.Note(5) != "" {
		t.Fatalf("notes: %#v", f.Notes)
	}
	r, ok := f.Rating("blitz")
	if !ok || r.Rating != 1500 || r.RD != 50.2 {
		t.Fatalf("blitz rating: %+v %v", r, ok)
	}
}
