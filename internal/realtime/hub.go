package realtime

import (
	"encoding/json"
	"log"
)

// Event names on the realtime channel.
const (
	// EventNewVisitorAlert is pushed to every connected client when a
	// visitor PIN is generated.
	EventNewVisitorAlert = "new_visitor_alert"
	// EventSOSAlert is the server-side rebroadcast of a resident SOS.
	EventSOSAlert = "sos_alert"
	// EventResidentSOS is sent by a resident client raising an SOS.
	EventResidentSOS = "resident_sos"
)

// Message is the JSON envelope exchanged on the websocket.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// VisitorAlert is the payload of a new_visitor_alert event.
type VisitorAlert struct {
	FlatNumber         string `json:"flat_number"`
	VisitorPhoneNumber string `json:"visitor_phone_number"`
	PinCode            string `json:"pin_code"`
}

// SOSAlert is the payload of sos_alert and resident_sos events. It is a
// pure relay: never persisted, rebroadcast verbatim.
type SOSAlert struct {
	FlatNumber  string `json:"flat_number"`
	PhoneNumber string `json:"phone_number"`
}

// Hub tracks the set of connected realtime clients and fans events out to
// all of them. Broadcast is global; there is no per-resident subscription.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
}

// NewHub creates a hub. Run must be started before clients attach.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
	}
}

// Run owns the client set; all membership changes and broadcasts are
// serialized through it.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("realtime: client connected (%d connected)", len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("realtime: client disconnected (%d connected)", len(h.clients))
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow client; drop it rather than stall the hub.
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// Broadcast sends an event to every connected client. It never blocks the
// caller: when the hub's queue is full the event is dropped and logged.
func (h *Hub) Broadcast(event string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("realtime: marshal %s payload: %v", event, err)
		return
	}
	raw, err := json.Marshal(Message{Event: event, Data: payload})
	if err != nil {
		log.Printf("realtime: marshal %s envelope: %v", event, err)
		return
	}

	select {
	case h.broadcast <- raw:
	default:
		log.Printf("realtime: broadcast queue full, dropping %s event", event)
	}
}

// handleInbound processes a client-pushed envelope. A resident_sos event is
// rebroadcast to all clients as sos_alert; anything else is ignored.
func (h *Hub) handleInbound(raw []byte) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Printf("realtime: malformed client message: %v", err)
		return
	}
	if msg.Event != EventResidentSOS {
		return
	}

	var alert SOSAlert
	if err := json.Unmarshal(msg.Data, &alert); err != nil {
		log.Printf("realtime: malformed sos payload: %v", err)
		return
	}
	log.Printf("realtime: SOS received from flat %s (phone %s)", alert.FlatNumber, alert.PhoneNumber)
	h.Broadcast(EventSOSAlert, alert)
}
