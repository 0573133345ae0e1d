package grammar

import (
	"regexp"
	"testing"
)

const boardLine = "<12> rnbqkbnr pppppppp -------- -------- ----P--- -------- PPPP-PPP RNBQKBNR B 4 1 1 1 1 0 7 Newton Einstein 1 2 12 39 39 119 122 1 P/e2-e4 (0:06) e4 0 1 0"

func fullMatch(re *regexp.Regexp, s string) []string {
	return Full(re).FindStringSubmatch(s)
}

func TestValidHandle(t *testing.T) {
	cases := map[string]bool{
		"abc":                true,
		"ab":                 false,
		"abcdefghijklmnopq":  true,
		"abcdefghijklmnopqr": false,
		"Guest1":             false,
		"with space":         false,
	}
	for in, want := range cases {
		if got := ValidHandle(in); got != want {
			t.Errorf("ValidHandle(%q)=%v want %v", in, got, want)
		}
	}
}

func TestMoveString(t *testing.T) {
	if got := MoveString(4, 6, 4, 4); got != "e2e4" {
		t.Fatalf("got %q", got)
	}
	if got := MoveString(0, 0, 7, 7); got != "a8h1" {
		t.Fatalf("got %q", got)
	}
}

func TestGameInfoMove_Additional(t *testing.T) {
	text := "\n" + boardLine + "\n\n" + boardLine + "\n"
	m := fullMatch(GameInfoMove, text)
	if m == nil {
		t.Fatalf("no match")
	}
	if m[1] != boardLine {
		t.Fatalf("first board: %q", m[1])
	}
	extra := GameInfoMoveAdditional.FindAllStringSubmatch(m[2], -1)
	if len(extra) != 1 || extra[0][1] != boardLine {
		t.Fatalf("additional boards: %#v", extra)
	}
}

func TestChatPatterns(t *testing.T) {
	cases := []struct {
		name string
		re   *regexp.Regexp
		text string
		want []string
	}{
		{"tell", PrivateTell, "\nalice(C) tells you: hi there\n", []string{"alice", "hi there"}},
		{"say", Say, "\nbob[12] says: gg\n", []string{"bob", "gg"}},
		{"channel", ChannelTell, "\ncarol(TM)(50): hello\n", []string{"carol", "50", "hello"}},
		{"shout", Shout, "\ndave shouts: anyone?\n", []string{"dave", "anyone?"}},
		{"cshout", ChessShout, "\nerin c-shouts: blitz?\n", []string{"erin", "blitz?"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := fullMatch(tc.re, tc.text)
			if m == nil {
				t.Fatalf("no match for %q", tc.text)
			}
			for i, w := range tc.want {
				if m[i+1] != w {
					t.Fatalf("group %d: got %q want %q", i+1, m[i+1], w)
				}
			}
		})
	}
}

func TestSeekInfoSetSeek(t *testing.T) {
	line := "<s> 16 w=alice ti=00 rt=1500  t=3 i=0 r=r tp=blitz c=? rr=0-9999 a=t f=f\n"
	m := SeekInfoSetSeek.FindStringSubmatch(line)
	if m == nil {
		t.Fatalf("no match")
	}
	if m[1] != "16" || m[2] != "alice" || m[9] != "blitz" || m[13] != "t" {
		t.Fatalf("unexpected groups: %#v", m)
	}
}

func TestFingerGroupLayout(t *testing.T) {
	if n := Finger.NumSubexp(); n != FingerFirstNoteGroup+FingerNoteCount-1 {
		t.Fatalf("finger groups: %d", n)
	}
	if got := FingerFirstRatingGroup + len(FingerCategories)*FingerRatingGroupWidth; got != FingerFirstNoteGroup {
		t.Fatalf("rating layout ends at %d", got)
	}
}

func TestMotdExtendedNamedGroups(t *testing.T) {
	for _, name := range []string{"news", "anews", "tnews", "snews", "all", "unread", "max", "present", "noted"} {
		if MotdExtended.SubexpIndex(name) < 0 {
			t.Fatalf("missing group %q", name)
		}
	}
}
