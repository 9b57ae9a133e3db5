package server

import (
	"encoding/json"
	"testing"
	"time"
)

func TestBrokerPublishReachesSubscribers(t *testing.T) {
	b := NewBroker()

	ch1 := b.Subscribe("game-1")
	ch2 := b.Subscribe("game-1")
	other := b.Subscribe("game-2")
	defer b.Unsubscribe("game-1", ch1)
	defer b.Unsubscribe("game-1", ch2)
	defer b.Unsubscribe("game-2", other)

	b.Publish("game-1", SSEEvent{Type: "round_advanced", Round: 2})

	for _, ch := range []chan []byte{ch1, ch2} {
		select {
		case data := <-ch:
			var ev SSEEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if ev.Type != "round_advanced" || ev.Round != 2 {
				t.Errorf("got %+v, want round_advanced round 2", ev)
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}

	select {
	case <-other:
		t.Error("subscriber of another game received the event")
	default:
	}
}

func TestBrokerUnsubscribe(t *testing.T) {
	b := NewBroker()

	ch := b.Subscribe("game-1")
	b.Unsubscribe("game-1", ch)

	// Publishing after unsubscribe must not panic or block.
	b.Publish("game-1", SSEEvent{Type: "player_joined"})

	select {
	case <-ch:
		t.Error("unsubscribed channel received event")
	default:
	}
}
