package realtime

import (
	"encoding/json"
	"testing"
	"time"
)

func TestProgressEventTypes(t *testing.T) {
	types := []EventType{EventProgress, EventOutcome}
	seen := make(map[EventType]bool)
	for _, tp := range types {
		if seen[tp] {
			t.Errorf("duplicate event type: %s", tp)
		}
		seen[tp] = true
	}
}

func TestProgressEventSerialization(t *testing.T) {
	event := ProgressEvent{
		JobID:      "job-1",
		Type:       EventProgress,
		States:     42,
		Backtracks: 3,
		Retries:    0,
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var decoded ProgressEvent
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if decoded.JobID != event.JobID || decoded.States != event.States {
		t.Errorf("decoded = %+v, want %+v", decoded, event)
	}
	if decoded.Outcome != "" {
		t.Errorf("expected empty outcome to be omitted, got %q", decoded.Outcome)
	}
}

func TestHubBroadcastDeliversOnlyToSubscribedJob(t *testing.T) {
	h := NewHub(nil)
	go h.Run()

	clientA := &Client{JobID: "job-a", Send: make(chan []byte, 4)}
	clientB := &Client{JobID: "job-b", Send: make(chan []byte, 4)}
	h.Register(clientA)
	h.Register(clientB)
	time.Sleep(10 * time.Millisecond)

	h.Broadcast(&ProgressEvent{JobID: "job-a", Type: EventProgress, States: 10})
	time.Sleep(10 * time.Millisecond)

	select {
	case msg := <-clientA.Send:
		var decoded ProgressEvent
		if err := json.Unmarshal(msg, &decoded); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if decoded.JobID != "job-a" || decoded.States != 10 {
			t.Errorf("clientA received %+v", decoded)
		}
	default:
		t.Fatal("clientA did not receive its job's event")
	}

	select {
	case msg := <-clientB.Send:
		t.Fatalf("clientB should not have received job-a's event, got %s", msg)
	default:
	}
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	h := NewHub(nil)
	go h.Run()

	client := &Client{JobID: "job-c", Send: make(chan []byte, 1)}
	h.Register(client)
	time.Sleep(10 * time.Millisecond)
	h.Unregister(client)
	time.Sleep(10 * time.Millisecond)

	_, ok := <-client.Send
	if ok {
		t.Error("expected Send channel to be closed after unregister")
	}
}

// TestHubMultipleClientsSameJob covers watching one solve job from
// several browser tabs at once: every open connection for that job id
// gets each progress event, independent of registration order.
func TestHubMultipleClientsSameJob(t *testing.T) {
	h := NewHub(nil)
	go h.Run()

	tabs := make([]*Client, 3)
	for i := range tabs {
		tabs[i] = &Client{JobID: "job-shared", Send: make(chan []byte, 4)}
		h.Register(tabs[i])
	}
	time.Sleep(10 * time.Millisecond)

	h.Broadcast(&ProgressEvent{JobID: "job-shared", Type: EventProgress, States: 5})
	h.Broadcast(&ProgressEvent{JobID: "job-shared", Type: EventOutcome, Outcome: "success"})
	time.Sleep(10 * time.Millisecond)

	for i, tab := range tabs {
		var last ProgressEvent
		count := 0
		for {
			select {
			case msg := <-tab.Send:
				count++
				if err := json.Unmarshal(msg, &last); err != nil {
					t.Fatalf("tab %d: Unmarshal: %v", i, err)
				}
				continue
			default:
			}
			break
		}
		if count != 2 {
			t.Fatalf("tab %d received %d events, want 2", i, count)
		}
		if last.Type != EventOutcome || last.Outcome != "success" {
			t.Errorf("tab %d final event = %+v", i, last)
		}
	}
}
