package server

import (
	"bufio"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestEventsStreamReceivesSnapshots(t *testing.T) {
	srv, games, _ := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, actor, err := games.Create([]string{"Red"})
	if err != nil {
		t.Fatalf("creating game: %v", err)
	}
	t.Cleanup(actor.Discard)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/games/"+actor.Code()+"/events", nil)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("opening stream: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("content-type = %q, want text/event-stream", got)
	}

	// Trigger a broadcast once the subscription is live.
	go func() {
		time.Sleep(100 * time.Millisecond)
		actor.Reset()
	}()

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		payload := strings.TrimPrefix(line, "data: ")
		if !strings.Contains(payload, `"buzzer_activated"`) {
			t.Fatalf("unexpected event payload: %s", payload)
		}
		return
	}
	t.Fatalf("stream ended without a state event: %v", scanner.Err())
}

func TestEventsStreamUnknownCode(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/games/XXXX/events")
	if err != nil {
		t.Fatalf("requesting stream: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
