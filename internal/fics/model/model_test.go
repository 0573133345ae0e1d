package model

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/park285/cheese-fics/internal/fics/record"
	"github.com/park285/cheese-fics/internal/fics/session"
	"github.com/park285/cheese-fics/internal/fics/style12"
)

type recorder struct {
	NopListener
	events  []string
	seeks   []record.SeekInfoList
	fingers []record.FingerInfo
	comms   []record.Communication
	welcome *record.WelcomeData
}

func (r *recorder) OnGameCreate(id uuid.UUID) { r.events = append(r.events, "create") }
func (r *recorder) OnGameUpdate(id uuid.UUID) { r.events = append(r.events, "update") }
func (r *recorder) OnIllegalMove()            { r.events = append(r.events, "illegal") }
func (r *recorder) OnSeekInfoSet(l record.SeekInfoList) {
	r.events = append(r.events, "seekset")
	r.seeks = append(r.seeks, l)
}
func (r *recorder) OnRemovedSeeks(l record.SeekInfoList) {
	r.events = append(r.events, "seekremove")
	r.seeks = append(r.seeks, l)
}
func (r *recorder) OnFinger(info record.FingerInfo) {
	r.events = append(r.events, "finger")
	r.fingers = append(r.fingers, info)
}
func (r *recorder) OnCommunication(c record.Communication) {
	r.events = append(r.events, "comm")
	r.comms = append(r.comms, c)
}
func (r *recorder) OnMotdExtended(w *record.WelcomeData) {
	r.events = append(r.events, "motd")
	r.welcome = w
}
func (r *recorder) OnRemoveMatchOfferTo(h string) { r.events = append(r.events, "offer-to:"+h) }

func (r *recorder) reset() { r.events = nil }

func board(slot int, rel style12.Relation) string {
	return fmt.Sprintf("<12> rnbqkbnr pppppppp -------- -------- ----P--- -------- PPPP-PPP RNBQKBNR B 4 1 1 1 1 0 %d alice bob %d 2 12 39 39 119 122 1 P/e2-e4 (0:06) e4 0 1 0", slot, int(rel))
}

func observing(slot int) string {
	return fmt.Sprintf("You are now observing game %d.\nGame %d: alice (1500) bob (1600) rated blitz 2 12\n", slot, slot) +
		"\n" + board(slot, style12.RelationObserving) + "\n"
}

func newModel(t *testing.T) (*Model, *recorder) {
	t.Helper()
	rec := &recorder{}
	m := New(Config{PingToken: "__cheese_pong", ProbeHandle: "CheeseFics", ProbePlatform: "go", ProbeIndex: 2}, WithListener(rec))
	return m, rec
}

func observe(t *testing.T, m *Model, rec *recorder, slot int) *session.Game {
	t.Helper()
	if !m.Dispatch(observing(slot)) {
		t.Fatalf("observing should be consumed")
	}
	g := m.GameBySlot(slot)
	if g == nil {
		t.Fatalf("game %d not created", slot)
	}
	rec.reset()
	m.ResetTranscript()
	return g
}

func TestDispatch_ObservingCreatesGame(t *testing.T) {
	m, rec := newModel(t)
	if !m.Dispatch(observing(7)) {
		t.Fatalf("expected consumed")
	}
	if !reflect.DeepEqual(rec.events, []string{"create", "update"}) {
		t.Fatalf("events: %v", rec.events)
	}
	want := "You are now observing game 7.\nGame 7: alice (1500) bob (1600) rated blitz 2 12\n" + PromptMarker
	if m.Transcript() != want {
		t.Fatalf("transcript: %q", m.Transcript())
	}
	g := m.GameBySlot(7)
	if g.WhiteRating != "1500" || g.BlackRating != "1600" || g.Relation != style12.RelationObserving {
		t.Fatalf("game: %+v", g)
	}
}

func TestDispatch_BoardUpdateIsSilent(t *testing.T) {
	m, rec := newModel(t)
	g := observe(t, m, rec, 7)
	if m.Dispatch("\n" + board(7, style12.RelationObserving) + "\n") {
		t.Fatalf("board snapshot should not advance the transcript")
	}
	if !reflect.DeepEqual(rec.events, []string{"update"}) {
		t.Fatalf("events: %v", rec.events)
	}
	if m.Transcript() != "" {
		t.Fatalf("transcript: %q", m.Transcript())
	}
	if n := len(m.Game(g.ID).Positions); n != 2 {
		t.Fatalf("positions: %d", n)
	}
}

func TestDispatch_FallbackCreation(t *testing.T) {
	m, rec := newModel(t)
	if m.Dispatch("\n" + board(12, style12.RelationObserving) + "\n") {
		t.Fatalf("snapshot is silent")
	}
	if len(rec.events) != 0 || len(m.GameIDs()) != 0 {
		t.Fatalf("non-examining unknown slot must not create: %v", rec.events)
	}
	m.Dispatch("\n" + board(12, style12.RelationExamining) + "\n")
	if !reflect.DeepEqual(rec.events, []string{"create", "update"}) {
		t.Fatalf("events: %v", rec.events)
	}
	if len(m.GameIDs()) != 1 {
		t.Fatalf("expected one game")
	}
}

func TestDispatch_RecursivePrefix(t *testing.T) {
	m, rec := newModel(t)
	observe(t, m, rec, 7)
	prefix := "\nbob accepts your seek.\n"
	if !m.Dispatch(prefix + "\n" + board(7, style12.RelationObserving) + "\n") {
		t.Fatalf("continuation should report consumed")
	}
	if !reflect.DeepEqual(rec.events, []string{"update"}) {
		t.Fatalf("events: %v", rec.events)
	}
	if m.Transcript() != prefix+PromptMarker {
		t.Fatalf("transcript: %q", m.Transcript())
	}
}

func TestDispatch_SeekVariantFilter(t *testing.T) {
	m, rec := newModel(t)
	text := "seekinfo set.\n<sc>\n" +
		"<s> 1 w=alice ti=00 rt=1500  t=3 i=0 r=r tp=blitz c=? rr=0-9999 a=t f=f\n" +
		"<s> 2 w=bob ti=00 rt=1400  t=3 i=0 r=r tp=crazyhouse c=? rr=0-9999 a=t f=f\n" +
		"<s> 3 w=carol ti=01 rt=0P t=15 i=5 r=u tp=standard c=W rr=0-9999 a=f f=f\n"
	if m.Dispatch(text) {
		t.Fatalf("seek snapshot is silent")
	}
	if len(rec.seeks) != 1 {
		t.Fatalf("expected one seek-set event")
	}
	got := rec.seeks[0].IDs()
	if !reflect.DeepEqual(got, []int{1, 3}) {
		t.Fatalf("surfaced seeks: %v", got)
	}
	if len(m.Seeks()) != 2 {
		t.Fatalf("stored seeks: %v", m.Seeks())
	}

	if m.Dispatch("\n<s> 4 w=dave ti=00 rt=1500  t=3 i=0 r=r tp=crazyhouse c=? rr=0-9999 a=t f=f\n") {
		t.Fatalf("seek add is silent")
	}
	if len(m.Seeks()) != 2 {
		t.Fatalf("excluded seek must not be stored")
	}
	m.Dispatch("\n<sr> 1 3\n")
	if len(m.Seeks()) != 0 {
		t.Fatalf("seeks left: %v", m.Seeks())
	}
}

func fingerText(handle, banner string) string {
	var b strings.Builder
	b.WriteString("Finger of " + handle + ":\n\nLast disconnected: Mon Jan  1 12:00 2024\n\n")
	b.WriteString(handle + " has not played any rated games.\n\n")
	for i := 1; i <= 9; i++ {
		fmt.Fprintf(&b, " %d: note %d\n", i, i)
	}
	b.WriteString("10: " + banner + "\n")
	return b.String()
}

func TestDispatch_FingerProbeSuppressed(t *testing.T) {
	m, rec := newModel(t)
	m.SetCurrentVersion(10)
	text := fingerText("cheesefics", "web|1|7#go|1|42")
	if m.Dispatch(text) {
		t.Fatalf("first probe should be silent")
	}
	if m.Transcript() != "" {
		t.Fatalf("transcript: %q", m.Transcript())
	}
	if !m.IsCurrentVersionOld() {
		t.Fatalf("42 > 10 should flag the version as old")
	}
	if !m.Dispatch(text) {
		t.Fatalf("later probes are echoed")
	}
	if m.Transcript() != text+PromptMarker {
		t.Fatalf("transcript: %q", m.Transcript())
	}
	if len(rec.fingers) != 0 {
		t.Fatalf("probe must never surface as a finger event")
	}
}

func TestDispatch_FingerProbeBadVersion(t *testing.T) {
	m, rec := newModel(t)
	m.SetCurrentVersion(10)
	m.Dispatch(fingerText("CheeseFics", "go|1|soon"))
	if m.IsCurrentVersionOld() || len(rec.fingers) != 0 {
		t.Fatalf("malformed version must be ignored")
	}
}

func TestDispatch_FingerRegular(t *testing.T) {
	m, rec := newModel(t)
	text := fingerText("alice", "hello")
	if !m.Dispatch(text) {
		t.Fatalf("finger should be consumed")
	}
	if len(rec.fingers) != 1 || rec.fingers[0].Handle != "alice" || rec.fingers[0].NoteCount() != 10 {
		t.Fatalf("fingers: %+v", rec.fingers)
	}
}

func TestDispatch_PingSuppressed(t *testing.T) {
	m, _ := newModel(t)
	if m.Dispatch("__cheese_pong: Command not found.\n") {
		t.Fatalf("ping reply should be silent")
	}
	if !m.Dispatch("foo: Command not found.\n") {
		t.Fatalf("other unknown commands are echoed")
	}
	if m.Transcript() != "foo: Command not found.\n"+PromptMarker {
		t.Fatalf("transcript: %q", m.Transcript())
	}
}

func TestDispatch_EndIsIdempotent(t *testing.T) {
	m, rec := newModel(t)
	g := observe(t, m, rec, 7)
	end := "\n{Game 7 (alice vs. bob) bob resigns} 1-0\n"
	if !m.Dispatch(end) {
		t.Fatalf("end is consumed")
	}
	if !reflect.DeepEqual(rec.events, []string{"update"}) {
		t.Fatalf("events: %v", rec.events)
	}
	got := m.Game(g.ID)
	if got.Outcome == nil || got.Outcome.Result != "1-0" || got.Outcome.Description != "bob resigns" {
		t.Fatalf("outcome: %+v", got.Outcome)
	}
	if got.Relation != style12.RelationUnknown {
		t.Fatalf("relation: %v", got.Relation)
	}
	rec.reset()
	m.Dispatch(end)
	if len(rec.events) != 0 {
		t.Fatalf("second end must not emit: %v", rec.events)
	}
	if m.Transcript() != end+PromptMarker+end+PromptMarker {
		t.Fatalf("transcript: %q", m.Transcript())
	}
}

func TestDispatch_MoveEndKeepsSlot(t *testing.T) {
	m, rec := newModel(t)
	observe(t, m, rec, 7)
	tail := "\n{Game 7 (alice vs. bob) alice checkmated} 0-1\n"
	m.Dispatch("\n" + board(7, style12.RelationObserving) + "\n" + tail)
	g := m.GameBySlot(7)
	if g == nil {
		t.Fatalf("slot should stay mapped")
	}
	if g.Outcome == nil || g.Outcome.Result != "0-1" || g.Relation != style12.RelationUnknown {
		t.Fatalf("game: %+v", g)
	}
	if m.Transcript() != tail+PromptMarker {
		t.Fatalf("transcript: %q", m.Transcript())
	}
}

func TestDispatch_CreatingDetachesObserved(t *testing.T) {
	m, rec := newModel(t)
	old := observe(t, m, rec, 7)
	head := "Removing game 7 from observation list.\n\n" +
		"Creating: alice (1500) bob (1600) rated blitz 2 12\n" +
		"{Game 9 (alice vs. bob) Creating rated blitz match.}\n"
	if !m.Dispatch(head + "\n" + board(9, style12.RelationPlayingMyMove) + "\n") {
		t.Fatalf("creating is consumed")
	}
	if !reflect.DeepEqual(rec.events, []string{"create", "update", "update"}) {
		t.Fatalf("events: %v", rec.events)
	}
	if m.GameBySlot(9) == nil || m.GameBySlot(7) != nil {
		t.Fatalf("slots: %v", m.ActiveSlots())
	}
	if o := m.Game(old.ID).Outcome; o == nil || o.Description != session.DescRemovedFromObservation {
		t.Fatalf("observed game outcome: %+v", o)
	}
	if m.Transcript() != head+PromptMarker {
		t.Fatalf("transcript: %q", m.Transcript())
	}
}

func TestDispatch_IllegalMove(t *testing.T) {
	m, rec := newModel(t)
	observe(t, m, rec, 7)
	m.Dispatch("Illegal move (e5).\n\n" + board(7, style12.RelationPlayingMyMove) + "\n")
	if !reflect.DeepEqual(rec.events, []string{"update", "illegal"}) {
		t.Fatalf("events: %v", rec.events)
	}
	if m.Transcript() != "Illegal move (e5).\n"+PromptMarker {
		t.Fatalf("transcript: %q", m.Transcript())
	}
}

func TestDispatch_Communication(t *testing.T) {
	m, rec := newModel(t)
	text := "\nalice(C) tells you: hi\n"
	if !m.Dispatch(text) {
		t.Fatalf("tell is consumed")
	}
	if len(rec.comms) != 1 || rec.comms[0].ID != "alice" || rec.comms[0].Text != "hi" {
		t.Fatalf("comms: %+v", rec.comms)
	}
	if m.Transcript() != text+PromptMarker {
		t.Fatalf("transcript: %q", m.Transcript())
	}
	if log := m.Communications("alice"); len(log) != 1 {
		t.Fatalf("log: %+v", log)
	}
	m.AddMessage(record.NewOwn("alice", "me", "hello"))
	if log := m.Communications("alice"); len(log) != 2 || log[1].Kind != record.KindOwn {
		t.Fatalf("log after AddMessage: %+v", log)
	}
}

func TestDispatch_KibitzAttachesToGame(t *testing.T) {
	m, rec := newModel(t)
	g := observe(t, m, rec, 7)
	m.Dispatch("\nbob(1600)[7] kibitzes: nice\n")
	if !reflect.DeepEqual(rec.events, []string{"update"}) {
		t.Fatalf("events: %v", rec.events)
	}
	comms := m.Game(g.ID).Communications
	if len(comms) != 1 || comms[0].Kind != record.KindKibitz || comms[0].ID != "7" {
		t.Fatalf("game comms: %+v", comms)
	}
	if len(m.CommunicationIDs()) != 0 {
		t.Fatalf("kibitz must not open a conversation")
	}
}

func TestDispatch_ChannelListLifecycle(t *testing.T) {
	m, _ := newModel(t)
	m.Dispatch("-- channel list: 3 channels --\n1 50 4\n")
	if got := m.CommunicationIDs(); !reflect.DeepEqual(got, []string{"1", "4", "50"}) {
		t.Fatalf("ids: %v", got)
	}
	m.Dispatch("[50] removed from your channel list.\n")
	m.Dispatch("[alice] added to your notify list.\n")
	if got := m.CommunicationIDs(); !reflect.DeepEqual(got, []string{"1", "4"}) {
		t.Fatalf("ids: %v", got)
	}
}

func TestDispatch_MatchOfferWithdrawn(t *testing.T) {
	m, rec := newModel(t)
	m.Dispatch("You withdraw the match offer to bob.\n")
	if !reflect.DeepEqual(rec.events, []string{"offer-to:bob"}) {
		t.Fatalf("events: %v", rec.events)
	}
}

func TestDispatch_MotdSearch(t *testing.T) {
	m, rec := newModel(t)
	text := "Welcome to the server\n" +
		"\nThere are no new news items.\n" +
		"\n\nYou have 3 messages (1 unread).\n" +
		"Use \"messages u\" to view unread messages and \"clearmessages *\" to clear all.\n" +
		"\nPresent company includes: alice bob.\n"
	if !m.Dispatch(text) {
		t.Fatalf("motd is consumed")
	}
	w := m.WelcomeData()
	if w == nil || w != rec.welcome {
		t.Fatalf("welcome data not stored")
	}
	if w.AllMessages != 3 || w.UnreadMessages != 1 || !reflect.DeepEqual(w.Friends, []string{"alice", "bob"}) {
		t.Fatalf("welcome: %+v", w)
	}
	if m.Transcript() != text+PromptMarker {
		t.Fatalf("transcript: %q", m.Transcript())
	}
}

func TestDispatch_UnmatchedIsEchoed(t *testing.T) {
	m, rec := newModel(t)
	if !m.Dispatch("something new from the server\n") {
		t.Fatalf("unmatched text is consumed")
	}
	if len(rec.events) != 0 {
		t.Fatalf("events: %v", rec.events)
	}
	if m.Transcript() != "something new from the server\n"+PromptMarker {
		t.Fatalf("transcript: %q", m.Transcript())
	}
}

func TestSetListener_Nil(t *testing.T) {
	m, _ := newModel(t)
	m.SetListener(nil)
	m.Dispatch(observing(3))
	if len(m.GameIDs()) != 1 {
		t.Fatalf("state must update without a listener")
	}
}

func TestMultiListener(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := New(Config{}, WithListener(MultiListener{a, b}))
	m.Dispatch(observing(3))
	if !reflect.DeepEqual(a.events, b.events) || len(a.events) != 2 {
		t.Fatalf("a=%v b=%v", a.events, b.events)
	}
}
