package api

import (
	"encoding/json"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/route-replay/api/model"
	"github.com/a-bouts/route-replay/display"
	"github.com/a-bouts/route-replay/latlon"
)

// direct is a message for a single client.
type direct struct {
	client *Client
	data   []byte
}

// Hub is a display.View that forwards every update to the connected
// websocket clients.
type Hub struct {
	clients    map[string]*Client
	broadcast  chan []byte
	direct     chan direct
	register   chan *Client
	unregister chan *Client
	quit       chan struct{}

	// commands sent by clients
	onCommand func(model.Command)

	mu sync.RWMutex
}

func NewHub(onCommand func(model.Command)) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan []byte, 256),
		direct:     make(chan direct),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		onCommand:  onCommand,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			count := len(h.clients)
			h.mu.Unlock()
			log.WithFields(log.Fields{"client": client.ID, "clients": count}).Info("Websocket client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.WithFields(log.Fields{"client": client.ID, "clients": count}).Info("Websocket client disconnected")

		case data := <-h.broadcast:
			h.mu.Lock()
			for id, client := range h.clients {
				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, id)
					log.WithField("client", id).Warn("Websocket client too slow, disconnecting")
				}
			}
			h.mu.Unlock()

		case d := <-h.direct:
			h.mu.Lock()
			// the client may already be gone and its send channel closed
			if _, ok := h.clients[d.client.ID]; ok {
				select {
				case d.client.send <- d.data:
				default:
				}
			}
			h.mu.Unlock()

		case <-h.quit:
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.quit)
}

// SendTo queues data for c only. It is dropped when c is no longer
// registered or its buffer is full.
func (h *Hub) SendTo(c *Client, data []byte) {
	select {
	case h.direct <- direct{client: c, data: data}:
	case <-h.quit:
	}
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func encode(t string, data interface{}) ([]byte, error) {
	return json.Marshal(model.Message{Type: t, Data: data})
}

func (h *Hub) publish(t string, data interface{}) {
	b, err := encode(t, data)
	if err != nil {
		log.WithError(err).Errorf("Error encoding '%s' message", t)
		return
	}

	select {
	case h.broadcast <- b:
	default:
		log.WithField("type", t).Warn("Websocket broadcast queue full, dropping message")
	}
}

func toPairs(path []latlon.LatLon) [][2]float64 {
	res := make([][2]float64, len(path))
	for i, l := range path {
		res[i] = [2]float64{l.Lat, l.Lon}
	}
	return res
}

func (h *Hub) PlaceMarker(position latlon.LatLon, heading float64) {
	h.publish("marker", model.Marker{Lat: position.Lat, Lon: position.Lon, Heading: heading})
}

func (h *Hub) DrawRoute(path []latlon.LatLon) {
	h.publish("route", toPairs(path))
}

func (h *Hub) DrawTraversed(path []latlon.LatLon) {
	h.publish("traversed", toPairs(path))
}

func (h *Hub) FitBounds(min, max latlon.LatLon) {
	h.publish("bounds", model.Bounds{Min: [2]float64{min.Lat, min.Lon}, Max: [2]float64{max.Lat, max.Lon}})
}

func (h *Hub) ShowPanel(panel display.Panel) {
	h.publish("panel", panel)
}
