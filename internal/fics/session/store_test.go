package session

import (
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/park285/cheese-fics/internal/fics/record"
	"github.com/park285/cheese-fics/internal/fics/style12"
)

func pos(slot int, rel style12.Relation) *style12.Position {
	return &style12.Position{GameID: slot, Relation: rel, White: "alice", Black: "bob"}
}

func TestStableIdentitySurvivesSlotReuse(t *testing.T) {
	s := NewStore()
	a := s.CreateGame(pos(5, style12.RelationObserving), "1500", "1600")
	if got := s.EndBySlot(5, "1-0", "bob resigns"); got != a {
		t.Fatalf("EndBySlot returned %v", got)
	}
	b := s.CreateGame(pos(5, style12.RelationObserving), "1700", "1800")
	if a.ID == b.ID {
		t.Fatalf("stable ids must differ")
	}
	if s.Game(a.ID) != a {
		t.Fatalf("A must stay reachable by stable id")
	}
	if s.GameBySlot(5) != b {
		t.Fatalf("slot 5 must refer to B")
	}
	if a.Outcome == nil || a.Outcome.Result != "1-0" || a.Relation != style12.RelationUnknown {
		t.Fatalf("A outcome: %+v relation %v", a.Outcome, a.Relation)
	}
	if ids := s.GameIDs(); len(ids) != 2 || ids[0] != a.ID || ids[1] != b.ID {
		t.Fatalf("creation order: %v", ids)
	}
}

func TestEndBySlot_Idempotent(t *testing.T) {
	s := NewStore()
	s.CreateGame(pos(3, style12.RelationObserving), "", "")
	if s.EndBySlot(3, "*", "x") == nil {
		t.Fatalf("first end should find the game")
	}
	if s.EndBySlot(3, "*", "x") != nil {
		t.Fatalf("second end must be a no-op")
	}
	if s.EndBySlot(99, "*", "x") != nil {
		t.Fatalf("unknown slot must be a no-op")
	}
}

func TestUpdateBySlot_FallbackCreate(t *testing.T) {
	s := NewStore()
	if g, created := s.UpdateBySlot(pos(8, style12.RelationObserving)); g != nil || created {
		t.Fatalf("non-examining unknown slot must be ignored")
	}
	if len(s.GameIDs()) != 0 {
		t.Fatalf("no game expected")
	}
	g, created := s.UpdateBySlot(pos(8, style12.RelationExamining))
	if g == nil || !created {
		t.Fatalf("examining unknown slot must create")
	}
	again, created := s.UpdateBySlot(pos(8, style12.RelationExamining))
	if again != g || created || len(g.Positions) != 2 {
		t.Fatalf("second snapshot must update the same game")
	}
}

func TestRemoveGame_ClearsBothIndices(t *testing.T) {
	s := NewStore()
	g := s.CreateGame(pos(4, style12.RelationObserving), "", "")
	if !s.RemoveGame(g.ID) {
		t.Fatalf("remove should report true")
	}
	if s.Game(g.ID) != nil || s.GameBySlot(4) != nil {
		t.Fatalf("game must be gone from both indices")
	}
	if s.RemoveGame(g.ID) {
		t.Fatalf("second remove should report false")
	}
	if len(s.GameIDs()) != 0 {
		t.Fatalf("ids: %v", s.GameIDs())
	}
}

func TestCreateGame_DeterministicIDs(t *testing.T) {
	ids := []uuid.UUID{uuid.MustParse("00000000-0000-0000-0000-000000000001"), uuid.MustParse("00000000-0000-0000-0000-000000000002")}
	n := 0
	s := NewStore(WithIDs(func() uuid.UUID { id := ids[n]; n++; return id }))
	g1 := s.CreateGame(pos(1, style12.RelationObserving), "", "")
	g2 := s.CreateGame(pos(2, style12.RelationObserving), "", "")
	if g1.ID != ids[0] || g2.ID != ids[1] {
		t.Fatalf("ids: %v %v", g1.ID, g2.ID)
	}
	if !reflect.DeepEqual(s.ActiveSlots(), []int{1, 2}) {
		t.Fatalf("slots: %v", s.ActiveSlots())
	}
}

func TestCommunicationIDs_MixedSort(t *testing.T) {
	s := NewStore()
	for _, id := range []string{"alice", "12", "Bob", "7"} {
		s.EnsureConversation(id)
	}
	want := []string{"7", "12", "alice", "Bob"}
	if got := s.CommunicationIDs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestCommunications_LazyCreateAndCopy(t *testing.T) {
	s := NewStore()
	if got := s.Communications("50"); len(got) != 0 {
		t.Fatalf("unexpected log: %v", got)
	}
	if ids := s.CommunicationIDs(); len(ids) != 1 || ids[0] != "50" {
		t.Fatalf("lookup should create the log: %v", ids)
	}
	s.AppendCommunication(record.NewChannelTell("50", "alice", "hi"))
	log := s.Communications("50")
	log[0].Text = "mutated"
	if s.Communications("50")[0].Text != "hi" {
		t.Fatalf("Communications must return a copy")
	}
	s.DropConversation("50")
	if len(s.CommunicationIDs()) != 0 {
		t.Fatalf("drop should forget the log")
	}
}

func TestSeekTable(t *testing.T) {
	s := NewStore()
	s.ReplaceSeeks(record.SeekInfoList{Op: record.SeekSet, Seeks: []record.SeekInfo{{ID: 3}, {ID: 1}}})
	s.AddSeek(record.SeekInfo{ID: 2})
	s.RemoveSeeks([]int{3, 42})
	got := s.Seeks()
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("seeks: %+v", got)
	}
	s.ReplaceSeeks(record.SeekInfoList{Op: record.SeekSet})
	if len(s.Seeks()) != 0 {
		t.Fatalf("replace should clear the table")
	}
}

func TestGameClone(t *testing.T) {
	s := NewStore()
	g := s.CreateGame(pos(6, style12.RelationObserving), "", "")
	g.AddNote("first")
	c := g.Clone()
	c.Notes[0] = "changed"
	if g.Notes[0] != "first" {
		t.Fatalf("clone shares notes")
	}
}
