package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/park285/cheese-fics/internal/gateway"
)

// ficscheck pokes a running fics-session gateway: status, live games and,
// when FICS_CHECK_COMMAND is set, one raw command.
func main() {
	baseURL := os.Getenv("FICS_GATEWAY_URL")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8080"
	}
	command := os.Getenv("FICS_CHECK_COMMAND")

	client := gateway.NewClient(baseURL, gateway.WithTimeout(8*time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	st, err := client.Status(ctx)
	if err != nil {
		log.Fatalf("/status error: %v", err)
	}
	log.Printf("/status ok: transport=%s state=%s games=%d slots=%v seeks=%d version_old=%t",
		st.Transport, st.State, st.Games, st.ActiveSlots, st.Seeks, st.VersionOld)

	games, err := client.Games(ctx)
	if err != nil {
		log.Printf("/games error: %v", err)
	}
	for _, g := range games {
		fmt.Printf("game %s slot=%d %s vs %s relation=%s moves=%d %s\n",
			g.ID, g.Slot, g.White, g.Black, g.Relation, g.MoveCount, g.Result)
	}

	if command == "" {
		return
	}
	if err := client.Send(ctx, command); err != nil {
		log.Fatalf("/send error: %v", err)
	}
	log.Printf("sent %q", command)
}
