package notify

import (
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"github.com/damoduke91-ui/super8-draft/internal/models"
)

// startEmbeddedNATS runs an in-process NATS server on a random port so
// the tests need no external infrastructure.
func startEmbeddedNATS(t *testing.T) *nats.Conn {
	t.Helper()

	ns, err := server.NewServer(&server.Options{
		Port:   -1, // random available port
		NoLog:  true,
		NoSigs: true,
	})
	if err != nil {
		t.Fatalf("failed to create embedded NATS server: %v", err)
	}

	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		ns.Shutdown()
		t.Fatal("embedded NATS server failed to start within timeout")
	}

	nc, err := nats.Connect(ns.ClientURL())
	if err != nil {
		ns.Shutdown()
		t.Fatalf("failed to connect to embedded NATS: %v", err)
	}

	t.Cleanup(func() {
		nc.Close()
		ns.Shutdown()
	})
	return nc
}

func TestSubject(t *testing.T) {
	got := Subject("ROOM1", models.SourcePlayers)
	if got != "draft.room.ROOM1.players" {
		t.Errorf("Subject = %q", got)
	}
}

func TestPublishSubscribeRoundTrip(t *testing.T) {
	nc := startEmbeddedNATS(t)
	publisher := NewPublisher(nc)

	received := make(chan models.Source, 16)
	sub, err := SubscribeRoom(nc, "ROOM1", func(source models.Source) {
		received <- source
	})
	if err != nil {
		t.Fatalf("SubscribeRoom: %v", err)
	}
	defer sub.Unsubscribe()

	for _, source := range models.Sources {
		if err := publisher.Publish("ROOM1", source); err != nil {
			t.Fatalf("Publish(%s): %v", source, err)
		}
	}

	got := make(map[models.Source]bool)
	for range models.Sources {
		select {
		case source := <-received:
			got[source] = true
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out; received %v", got)
		}
	}

	for _, source := range models.Sources {
		if !got[source] {
			t.Errorf("signal for %s never arrived", source)
		}
	}
}

func TestSubscribeRoomIsolation(t *testing.T) {
	nc := startEmbeddedNATS(t)
	publisher := NewPublisher(nc)

	received := make(chan models.Source, 16)
	sub, err := SubscribeRoom(nc, "ROOM1", func(source models.Source) {
		received <- source
	})
	if err != nil {
		t.Fatalf("SubscribeRoom: %v", err)
	}
	defer sub.Unsubscribe()

	// A signal for another room must not reach this subscription.
	if err := publisher.Publish("ROOM2", models.SourcePlayers); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := publisher.Publish("ROOM1", models.SourceState); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case source := <-received:
		if source != models.SourceState {
			t.Errorf("received %s, want draft_state", source)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for ROOM1 signal")
	}

	select {
	case source := <-received:
		t.Errorf("unexpected extra signal %s", source)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	nc := startEmbeddedNATS(t)
	publisher := NewPublisher(nc)

	received := make(chan models.Source, 16)
	sub, err := SubscribeRoom(nc, "ROOM1", func(source models.Source) {
		received <- source
	})
	if err != nil {
		t.Fatalf("SubscribeRoom: %v", err)
	}

	sub.Unsubscribe()
	if err := nc.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if err := publisher.Publish("ROOM1", models.SourcePlayers); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case source := <-received:
		t.Errorf("received %s after unsubscribe", source)
	case <-time.After(200 * time.Millisecond):
	}
}
