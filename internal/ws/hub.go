package ws

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"job-tracker/internal/pkg/logging"

	"github.com/google/uuid"
)

const (
	EventJobStatusChanged = "job_status_changed"
	EventJobCreated       = "job_created"
	EventJobUpdated       = "job_updated"
	EventJobDeleted       = "job_deleted"
	EventAnalysisReady    = "analysis_ready"
)

type Event struct {
	Type      string    `json:"type"`
	JobID     uuid.UUID `json:"jobId"`
	Status    string    `json:"status,omitempty"`
	RequestID string    `json:"requestId,omitempty"`
	Timestamp string    `json:"timestamp"`
}

type envelope struct {
	owner   string
	payload []byte
}

// Hub fans events out to the websocket clients of one owner. Register,
// unregister and delivery all run on the Run goroutine.
type Hub struct {
	clients    map[string]map[*Client]bool
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *logging.Logger
}

func NewHub(logger *logging.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan envelope, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mutex.Lock()
			for _, set := range h.clients {
				for c := range set {
					close(c.send)
				}
			}
			h.clients = make(map[string]map[*Client]bool)
			h.mutex.Unlock()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			set, ok := h.clients[client.owner]
			if !ok {
				set = make(map[*Client]bool)
				h.clients[client.owner] = set
			}
			set[client] = true
			total := len(set)
			h.mutex.Unlock()
			h.logger.Debug("ws connected", "owner", client.owner, "owner_clients", total)

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.remove(client)

		case msg := <-h.broadcast:
			h.mutex.RLock()
			snapshot := make([]*Client, 0, len(h.clients[msg.owner]))
			for c := range h.clients[msg.owner] {
				snapshot = append(snapshot, c)
			}
			h.mutex.RUnlock()

			for _, client := range snapshot {
				select {
				case client.send <- msg.payload:
				default:
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	set := h.clients[client.owner]
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.owner)
	}
	h.logger.Debug("ws disconnected", "owner", client.owner)
}

func (h *Hub) Stop() {
	if h == nil {
		return
	}
	select {
	case <-h.done:
	default:
		close(h.done)
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

// Publish queues evt for every connection of owner. It never blocks; a full
// buffer drops the event.
func (h *Hub) Publish(owner string, evt Event) {
	if h == nil {
		return
	}
	owner = strings.ToLower(strings.TrimSpace(owner))
	if owner == "" {
		return
	}
	if evt.Timestamp == "" {
		evt.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- envelope{owner: owner, payload: b}:
	default:
		h.logger.Warn("ws broadcast dropped", "reason", "buffer_full", "type", evt.Type)
	}
}

func (h *Hub) ClientCount(owner string) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[strings.ToLower(owner)])
}
