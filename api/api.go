package api

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/route-replay/api/model"
	"github.com/a-bouts/route-replay/display"
	"github.com/a-bouts/route-replay/playback"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type server struct {
	c   *playback.Controller
	a   *display.Adapter
	hub *Hub
}

// InitServer builds the router. c and a are nil while no route is loaded.
func InitServer(c *playback.Controller, a *display.Adapter, hub *Hub) *mux.Router {

	router := mux.NewRouter().StrictSlash(true)

	s := server{c: c, a: a, hub: hub}

	router.HandleFunc("/replay/-/healthz", s.healthz).Methods(http.MethodGet)

	apiV1 := router.PathPrefix("/replay/api/v1").Subrouter()
	apiV1.HandleFunc("/route", s.route).Methods(http.MethodGet)
	apiV1.HandleFunc("/traversed", s.traversed).Methods(http.MethodGet)
	apiV1.HandleFunc("/state", s.state).Methods(http.MethodGet)
	apiV1.HandleFunc("/{action:play|pause|toggle|reset|tick}", s.control).Methods(http.MethodPost)
	if hub != nil {
		apiV1.HandleFunc("/ws", s.ws).Methods(http.MethodGet)
	}

	return router
}

// Command applies a named action to c. Unknown actions are an error.
func Command(c *playback.Controller, action string) error {
	switch action {
	case "play":
		c.Play()
	case "pause":
		c.Pause()
	case "toggle":
		c.Toggle()
	case "reset":
		c.Reset()
	case "tick":
		c.Tick()
	default:
		return fmt.Errorf("unknown action '%s'", action)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.c == nil {
		writeJSON(w, http.StatusOK, model.Health{Status: "Loading"})
		return
	}
	writeJSON(w, http.StatusOK, model.Health{Status: "Ok", Points: len(s.c.Route())})
}

func (s *server) current() model.State {
	if s.c == nil {
		return model.State{Panel: display.LoadingPanel()}
	}
	st := s.c.State()
	return model.State{Loaded: true, State: &st, Panel: display.NewPanel(st)}
}

func (s *server) notLoaded(w http.ResponseWriter) bool {
	if s.c != nil {
		return false
	}
	writeJSON(w, http.StatusServiceUnavailable, model.Error{Error: "route not loaded"})
	return true
}

func (s *server) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.current())
}

func (s *server) route(w http.ResponseWriter, r *http.Request) {
	if s.notLoaded(w) {
		return
	}
	writeJSON(w, http.StatusOK, s.c.Route().FeatureCollection())
}

func (s *server) traversed(w http.ResponseWriter, r *http.Request) {
	if s.notLoaded(w) {
		return
	}
	writeJSON(w, http.StatusOK, s.c.Route().Traversed(s.c.State().Index))
}

func (s *server) control(w http.ResponseWriter, r *http.Request) {
	if s.notLoaded(w) {
		return
	}

	action := mux.Vars(r)["action"]
	fields := log.Fields{
		"action": action,
	}
	if ip, err := getIp(r); err == nil {
		fields["IP"] = ip
	}
	log.WithFields(fields).Info("Control")

	if err := Command(s.c, action); err != nil {
		writeJSON(w, http.StatusBadRequest, model.Error{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, s.current())
}

func (s *server) ws(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Error("Websocket upgrade failed")
		return
	}

	client := NewClient(conn, s.hub)

	var snapshot []byte
	if s.a != nil {
		snapshot, err = encode("snapshot", s.a.Frame())
	} else {
		snapshot, err = encode("snapshot", display.Frame{Panel: display.LoadingPanel()})
	}
	if err != nil {
		log.WithError(err).Error("Error encoding snapshot")
		conn.Close()
		return
	}
	client.send <- snapshot

	select {
	case s.hub.register <- client:
	case <-s.hub.quit:
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

func getIp(r *http.Request) (string, error) {
	//Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}

	//Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		netIP := net.ParseIP(strings.TrimSpace(ip))
		if netIP != nil {
			return strings.TrimSpace(ip), nil
		}
	}

	//Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "", err
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}
	return "", fmt.Errorf("No valid ip found")
}
