package ficsclient

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/park285/cheese-fics/internal/fics/model"
	"github.com/park285/cheese-fics/internal/fics/record"
	"github.com/park285/cheese-fics/internal/transport"
)

const observing = "You are now observing game 7.\nGame 7: alice (1500) bob (1600) rated blitz 2 12\n\n" +
	"<12> rnbqkbnr pppppppp -------- -------- ----P--- -------- PPPP-PPP RNBQKBNR B 4 1 1 1 1 0 7 alice bob 0 2 12 39 39 119 122 1 P/e2-e4 (0:06) e4 0 1 0\n"

type fakeServer struct {
	conn  net.Conn
	lines chan string
}

func newSession(t *testing.T, cfg Config) (*Client, *fakeServer) {
	t.Helper()
	serverSide, clientSide := net.Pipe()
	srv := &fakeServer{conn: serverSide, lines: make(chan string, 32)}
	go func() {
		r := bufio.NewReader(serverSide)
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				close(srv.lines)
				return
			}
			srv.lines <- strings.TrimSuffix(line, "\n")
		}
	}()

	tel := transport.NewTelnet("fics.test:5000",
		transport.WithDialer(func(context.Context, string, string) (net.Conn, error) { return clientSide, nil }),
		transport.WithTelnetReconnect(0),
	)
	c := New(tel, model.New(model.Config{PingToken: cfg.PingToken}), cfg)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = c.Stop(ctx)
		_ = serverSide.Close()
	})
	return c, srv
}

func (s *fakeServer) expect(t *testing.T, want ...string) {
	t.Helper()
	for _, w := range want {
		select {
		case got, ok := <-s.lines:
			if !ok {
				t.Fatalf("connection closed waiting for %q", w)
			}
			if got != w {
				t.Fatalf("got line %q want %q", got, w)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %q", w)
		}
	}
}

func (s *fakeServer) write(t *testing.T, text string) {
	t.Helper()
	if _, err := s.conn.Write([]byte(text)); err != nil {
		t.Fatalf("server write: %v", err)
	}
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met")
}

func TestClient_LoginAndDecode(t *testing.T) {
	c, srv := newSession(t, Config{Handle: "guest", Setup: []string{"set style 12"}, ProbeHandle: "CheeseFics"})
	srv.expect(t, "guest", "", "set style 12", "finger CheeseFics")

	srv.write(t, observing+transport.Prompt)
	eventually(t, func() bool { return c.GameBySlot(7) != nil })

	games := c.Games()
	if len(games) != 1 || games[0].WhiteRating != "1500" {
		t.Fatalf("games=%+v", games)
	}
	if got := c.ActiveSlots(); len(got) != 1 || got[0] != 7 {
		t.Fatalf("ActiveSlots=%v", got)
	}
	if c.State() != transport.StateConnected {
		t.Fatalf("state=%v", c.State())
	}
}

func TestClient_TellRecordsOwnMessage(t *testing.T) {
	c, srv := newSession(t, Config{Handle: "guest", Setup: []string{}})
	srv.expect(t, "guest", "")

	ctx := context.Background()
	if err := c.Tell(ctx, "bob", "hello there"); err != nil {
		t.Fatalf("Tell: %v", err)
	}
	srv.expect(t, "tell bob hello there")

	log := c.Communications("bob")
	if len(log) != 1 || log[0].Kind != record.KindOwn || log[0].Text != "hello there" {
		t.Fatalf("log=%+v", log)
	}
	if err := c.Tell(ctx, "b0b!", "x"); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("err=%v", err)
	}
	if err := c.Send(ctx, " \r\n"); !errors.Is(err, ErrEmptyCommand) {
		t.Fatalf("err=%v", err)
	}
}

func TestClient_PingSwallowed(t *testing.T) {
	c, srv := newSession(t, Config{Handle: "guest", Setup: []string{}, PingToken: "__cheese_pong", PingInterval: 20 * time.Millisecond})
	srv.expect(t, "guest", "", "__cheese_pong")

	srv.write(t, "__cheese_pong: Command not found.\n"+transport.Prompt)
	srv.write(t, "Hello\n"+transport.Prompt)
	eventually(t, func() bool { return strings.Contains(c.Transcript(), "Hello") })
	if strings.Contains(c.Transcript(), "__cheese_pong") {
		t.Fatalf("ping reply leaked into transcript: %q", c.Transcript())
	}
}
