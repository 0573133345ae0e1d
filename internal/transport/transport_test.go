package transport

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

func TestSplitter_PromptAndLineEndings(t *testing.T) {
	var s Splitter
	got := s.Write([]byte("\n\rGame 7: alice moves\n\rfi"))
	if len(got) != 0 {
		t.Fatalf("no prompt yet, got %q", got)
	}
	got = s.Write([]byte("cs% \n\rtwo\n\rfics% tail"))
	want := []string{"\nGame 7: alice moves\n", "\ntwo\n"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("chunks=%q want %q", got, want)
	}
	if rest := s.buf.String(); rest != "tail" {
		t.Fatalf("buffered=%q", rest)
	}
}

func TestSplitter_DropsTelnetNegotiation(t *testing.T) {
	var s Splitter
	// IAC WILL ECHO split across writes, then a subnegotiation.
	if got := s.Write([]byte{'a', iac, will}); len(got) != 0 {
		t.Fatalf("unexpected chunks %q", got)
	}
	got := s.Write(append([]byte{1, 'b', iac, sb, 24, 0, iac, se}, []byte("fics% ")...))
	if !reflect.DeepEqual(got, []string{"ab"}) {
		t.Fatalf("chunks=%q", got)
	}
}

func waitState(t *testing.T, ch <-chan State, want State) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-ch:
			if s == want {
				return
			}
		case <-deadline:
			t.Fatalf("state %v not reached", want)
		}
	}
}

func TestTelnet_ChunksAndSend(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()

	tel := NewTelnet("fics.test:5000",
		WithDialer(func(context.Context, string, string) (net.Conn, error) { return client, nil }),
		WithTelnetReconnect(0),
	)
	chunks := make(chan string, 4)
	tel.OnChunk(func(text string) { chunks <- text })

	ctx := context.Background()
	if err := tel.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if tel.State() != StateConnected {
		t.Fatalf("state=%v", tel.State())
	}

	go func() { _, _ = server.Write([]byte("\n\r<sr> 12\n\rfics% ")) }()
	select {
	case c := <-chunks:
		if c != "\n<sr> 12\n" {
			t.Fatalf("chunk=%q", c)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no chunk")
	}

	lines := make(chan string, 1)
	go func() {
		l, _ := bufio.NewReader(server).ReadString('\n')
		lines <- l
	}()
	if err := tel.Send(ctx, "observe 7"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if l := <-lines; l != "observe 7\n" {
		t.Fatalf("sent %q", l)
	}

	closeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := tel.Close(closeCtx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := tel.Send(ctx, "quit"); err != ErrNotConnected {
		t.Fatalf("Send after close: %v", err)
	}
}

func TestTelnet_DropWithoutReconnect(t *testing.T) {
	server, client := net.Pipe()
	tel := NewTelnet("fics.test:5000",
		WithDialer(func(context.Context, string, string) (net.Conn, error) { return client, nil }),
		WithTelnetReconnect(0),
	)
	states := make(chan State, 8)
	tel.OnStateChange(func(s State) { states <- s })
	if err := tel.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	_ = server.Close()
	waitState(t, states, StateDisconnected)
}

func TestWebSocket_BridgeFrames(t *testing.T) {
	received := make(chan Frame, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Bridge-Token") != "secret" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close(websocket.StatusNormalClosure, "")
		ctx := r.Context()
		_ = wsjson.Write(ctx, c, Frame{Type: FrameData, Data: "\n\rhello\n\rfi"})
		_ = wsjson.Write(ctx, c, Frame{Type: FrameData, Data: "cs% "})
		var f Frame
		if err := wsjson.Read(ctx, c, &f); err == nil {
			received <- f
		}
		_ = wsjson.Read(ctx, c, &f)
	}))
	defer srv.Close()

	ws := NewWebSocket("ws"+strings.TrimPrefix(srv.URL, "http"),
		WithWebSocketReconnect(0),
		WithHeaderProvider(func() map[string]string { return map[string]string{"X-Bridge-Token": "secret"} }),
	)
	chunks := make(chan string, 1)
	ws.OnChunk(func(text string) { chunks <- text })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ws.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	select {
	case c := <-chunks:
		if c != "\nhello\n" {
			t.Fatalf("chunk=%q", c)
		}
	case <-ctx.Done():
		t.Fatal("no chunk")
	}
	if err := ws.Send(ctx, "finger CheeseFics"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	select {
	case f := <-received:
		if f.Type != FrameSend || f.Data != "finger CheeseFics\n" {
			t.Fatalf("frame=%+v", f)
		}
	case <-ctx.Done():
		t.Fatal("bridge got nothing")
	}
	if err := ws.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestBackoffDuration(t *testing.T) {
	if backoffDuration(0) != 500*time.Millisecond || backoffDuration(9) != 16*time.Second {
		t.Fatalf("backoff=%v %v", backoffDuration(0), backoffDuration(9))
	}
}
