package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"reckon/sheet"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local tool, any origin may connect
	},
}

// UpdateRequest is what a front-end sends over the websocket.
type UpdateRequest struct {
	Type string `json:"type"` // "update_cell"
	Name string `json:"name"` // cell name, e.g. "A1"
	Raw  string `json:"raw"`  // raw content, "" deletes
}

// Event is what the server sends back: grid metadata, per-cell updates,
// and update failures keyed by the engine's failure taxonomy.
type Event struct {
	Type    string `json:"type"` // "grid", "cell_updated", "update_failed"
	Name    string `json:"name,omitempty"`
	Raw     string `json:"raw,omitempty"`
	Display string `json:"display,omitempty"`
	Removed bool   `json:"removed,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
	Rows    int    `json:"rows,omitempty"`
	Columns int    `json:"columns,omitempty"`
}

// Server drives a Sheet from websocket clients and broadcasts exactly the
// cells each committed update changed. A single mutex serializes updates:
// the engine itself is single-threaded by design.
type Server struct {
	mu        sync.Mutex
	sheet     *sheet.Sheet
	clients   map[*websocket.Conn]bool
	publisher *Publisher // optional, may be nil
}

func New(s *sheet.Sheet, publisher *Publisher) *Server {
	return &Server{
		sheet:     s,
		clients:   make(map[*websocket.Conn]bool),
		publisher: publisher,
	}
}

// Start serves the websocket endpoint at /ws until the listener fails.
func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	log.Printf("spreadsheet server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade failed: %v", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	s.sendInitialState(conn)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var req UpdateRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			log.Printf("bad message: %v", err)
			continue
		}
		if req.Type == "update_cell" {
			s.handleUpdate(conn, req)
		}
	}
}

// sendInitialState streams the grid shape and every stored cell to a new
// client. Caller holds s.mu.
func (s *Server) sendInitialState(conn *websocket.Conn) {
	grid := Event{Type: "grid", Rows: s.sheet.Rows(), Columns: s.sheet.Columns()}
	if err := conn.WriteJSON(grid); err != nil {
		return
	}
	for _, pos := range s.sheet.Positions() {
		raw, _ := s.sheet.RawContent(pos.Row, pos.Col)
		ev := Event{Type: "cell_updated", Name: pos.Name(), Raw: raw}
		if v, ok := s.sheet.Value(pos.Row, pos.Col); ok {
			ev.Display = v.String()
		}
		if err := conn.WriteJSON(ev); err != nil {
			return
		}
	}
}

func (s *Server) handleUpdate(from *websocket.Conn, req UpdateRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, err := s.sheet.PositionOf(req.Name)
	if err == nil {
		var changed map[sheet.Position]*sheet.Value
		changed, err = s.sheet.TryUpdate(pos.Row, pos.Col, req.Raw)
		if err == nil {
			s.broadcastChanges(changed)
			return
		}
	}

	reason := sheet.Classify(err)
	log.Printf("update %s rejected: %s: %v", req.Name, reason, err)
	fail := Event{
		Type:    "update_failed",
		Name:    req.Name,
		Reason:  reason.String(),
		Message: err.Error(),
	}
	if err := from.WriteJSON(fail); err != nil {
		_ = from.Close()
		delete(s.clients, from)
	}
}

// broadcastChanges sends one event per changed position to every client
// and hands the batch to the publisher. Caller holds s.mu.
func (s *Server) broadcastChanges(changed map[sheet.Position]*sheet.Value) {
	events := make([]Event, 0, len(changed))
	for pos, v := range changed {
		ev := Event{Type: "cell_updated", Name: pos.Name()}
		if raw, ok := s.sheet.RawContent(pos.Row, pos.Col); ok {
			ev.Raw = raw
		}
		if v == nil {
			ev.Removed = true
		} else {
			ev.Display = v.String()
		}
		events = append(events, ev)
	}
	for _, ev := range events {
		for client := range s.clients {
			if err := client.WriteJSON(ev); err != nil {
				log.Printf("broadcast failed: %v", err)
				_ = client.Close()
				delete(s.clients, client)
			}
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishChanges(events); err != nil {
			log.Printf("publish failed: %v", err)
		}
	}
}
