// Package realtime broadcasts solve-job progress to WebSocket
// subscribers: states explored, backtracks taken, and the final
// outcome, pushed as the solver runs rather than polled.
package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/crossplay/xwordfill/internal/db"
	"github.com/crossplay/xwordfill/internal/models"
)

// EventType distinguishes a running update from the terminal outcome.
type EventType string

const (
	EventProgress EventType = "progress"
	EventOutcome  EventType = "outcome"
)

// ProgressEvent is one push to every client watching a job.
type ProgressEvent struct {
	JobID      string    `json:"jobId"`
	Type       EventType `json:"type"`
	States     int       `json:"states"`
	Backtracks int       `json:"backtracks"`
	Retries    int       `json:"retries"`
	Outcome    string    `json:"outcome,omitempty"`
}

// Hub fans ProgressEvents for a job out to every client that opened a
// WebSocket on GET /solve/:id/ws for that job.
type Hub struct {
	db         *db.Database
	jobs       map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *ProgressEvent
	mutex      sync.RWMutex
}

func NewHub(database *db.Database) *Hub {
	return &Hub{
		db:         database,
		jobs:       make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *ProgressEvent, 64),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			set, ok := h.jobs[client.JobID]
			if !ok {
				set = make(map[*Client]bool)
				h.jobs[client.JobID] = set
			}
			set[client] = true
			h.mutex.Unlock()
			log.Printf("client subscribed to job %s", client.JobID)
			h.replayOutcome(client)

		case client := <-h.unregister:
			h.mutex.Lock()
			if set, ok := h.jobs[client.JobID]; ok {
				if _, ok := set[client]; ok {
					delete(set, client)
					close(client.Send)
					if len(set) == 0 {
						delete(h.jobs, client.JobID)
					}
				}
			}
			h.mutex.Unlock()

		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

func (h *Hub) Register(c *Client)   { h.register <- c }
func (h *Hub) Unregister(c *Client) { h.unregister <- c }

// Broadcast pushes a progress event to every subscriber of event.JobID.
// Called from the goroutine running fill.Search so updates flow as the
// backtracking search makes choices, not after it finishes.
func (h *Hub) Broadcast(event *ProgressEvent) {
	select {
	case h.broadcast <- event:
	default:
		log.Printf("dropping progress event for job %s: broadcast channel full", event.JobID)
	}
}

// replayOutcome sends the terminal outcome to a subscriber whose job
// already finished before the socket opened. Small grids solve in
// microseconds, so a client dialing right after submission would
// otherwise wait forever for an event that was broadcast before it
// registered.
func (h *Hub) replayOutcome(c *Client) {
	if h.db == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var result *models.SolveResult
	if h.db.Redis != nil {
		result, _ = h.db.GetCachedResult(ctx, c.JobID)
	}
	if result == nil {
		result, _ = h.db.GetSolveResult(c.JobID)
	}
	if result == nil {
		return
	}

	data, err := json.Marshal(&ProgressEvent{
		JobID:      c.JobID,
		Type:       EventOutcome,
		States:     result.States,
		Backtracks: result.Backtracks,
		Retries:    result.Retries,
		Outcome:    result.Outcome,
	})
	if err != nil {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

func (h *Hub) deliver(event *ProgressEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.jobs[event.JobID] {
		select {
		case client.Send <- data:
		default:
			// slow consumer, drop rather than block the broadcaster
		}
	}
}
