package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-bouts/route-replay/api/model"
	"github.com/a-bouts/route-replay/display"
	"github.com/a-bouts/route-replay/playback"
	"github.com/a-bouts/route-replay/route"
)

type noScheduler struct{}

func (noScheduler) Every(time.Duration, func()) func() { return func() {} }

func testRoute() route.Route {
	start := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	return route.Route{
		{Latitude: 17.385044, Longitude: 78.486671, Timestamp: start},
		{Latitude: 17.385544, Longitude: 78.487171, Timestamp: start.Add(10 * time.Second)},
		{Latitude: 17.386044, Longitude: 78.487671, Timestamp: start.Add(30 * time.Second)},
	}
}

func setup(t *testing.T) (*playback.Controller, *Hub, *httptest.Server) {
	c, err := playback.New(testRoute(), playback.WithScheduler(noScheduler{}))
	require.NoError(t, err)

	hub := NewHub(func(cmd model.Command) {
		Command(c, cmd.Type)
	})
	go hub.Run()

	a := display.NewAdapter(c.Route(), hub)
	a.Init()
	c.Subscribe(a.Update)

	srv := httptest.NewServer(InitServer(c, a, hub))
	t.Cleanup(func() {
		srv.Close()
		hub.Stop()
	})
	return c, hub, srv
}

func decodeState(t *testing.T, resp *http.Response) model.State {
	defer resp.Body.Close()
	var st model.State
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	return st
}

func TestHealthz(t *testing.T) {
	_, _, srv := setup(t)

	resp, err := http.Get(srv.URL + "/replay/-/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	var h model.Health
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&h))
	assert.Equal(t, "Ok", h.Status)
	assert.Equal(t, 3, h.Points)
}

func TestControlEndpoints(t *testing.T) {
	_, _, srv := setup(t)

	resp, err := http.Post(srv.URL+"/replay/api/v1/play", "application/json", nil)
	require.NoError(t, err)
	st := decodeState(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, st.Loaded)
	assert.True(t, st.State.Playing)
	assert.Equal(t, "Pause", st.Panel.PlayLabel)

	resp, err = http.Post(srv.URL+"/replay/api/v1/tick", "application/json", nil)
	require.NoError(t, err)
	st = decodeState(t, resp)
	assert.Equal(t, 1, st.State.Index)
	assert.Equal(t, "0:10", st.Panel.Elapsed)
	assert.Equal(t, "2 / 3 points", st.Panel.Progress)

	resp, err = http.Post(srv.URL+"/replay/api/v1/reset", "application/json", nil)
	require.NoError(t, err)
	st = decodeState(t, resp)
	assert.Equal(t, 0, st.State.Index)
	assert.False(t, st.State.Playing)
	assert.Equal(t, "0.0 km/h", st.Panel.Speed)
}

func TestUnknownActionNotRouted(t *testing.T) {
	_, _, srv := setup(t)

	resp, err := http.Post(srv.URL+"/replay/api/v1/rewind", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCommandUnknown(t *testing.T) {
	c, err := playback.New(testRoute(), playback.WithScheduler(noScheduler{}))
	require.NoError(t, err)
	assert.Error(t, Command(c, "rewind"))
}

func TestRouteGeoJSON(t *testing.T) {
	c, _, srv := setup(t)
	c.Tick()

	resp, err := http.Get(srv.URL + "/replay/api/v1/route")
	require.NoError(t, err)
	defer resp.Body.Close()

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string          `json:"type"`
				Coordinates json.RawMessage `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 3)
	assert.Equal(t, "LineString", fc.Features[0].Geometry.Type)

	resp, err = http.Get(srv.URL + "/replay/api/v1/traversed")
	require.NoError(t, err)
	defer resp.Body.Close()

	var f struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&f))
	assert.Len(t, f.Geometry.Coordinates, 2)
	assert.Equal(t, []float64{78.486671, 17.385044}, f.Geometry.Coordinates[0])
}

func TestNotLoaded(t *testing.T) {
	srv := httptest.NewServer(InitServer(nil, nil, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/replay/-/healthz")
	require.NoError(t, err)
	var h model.Health
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&h))
	resp.Body.Close()
	assert.Equal(t, "Loading", h.Status)

	resp, err = http.Get(srv.URL + "/replay/api/v1/state")
	require.NoError(t, err)
	st := decodeState(t, resp)
	assert.False(t, st.Loaded)
	assert.Nil(t, st.State)
	assert.Equal(t, display.Loading, st.Panel.Position)

	resp, err = http.Post(srv.URL+"/replay/api/v1/play", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func readMessage(t *testing.T, conn *websocket.Conn) model.Message {
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var m model.Message
	require.NoError(t, conn.ReadJSON(&m))
	return m
}

func TestWebsocketSnapshotAndCommands(t *testing.T) {
	c, hub, srv := setup(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/replay/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	m := readMessage(t, conn)
	assert.Equal(t, "snapshot", m.Type)

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(model.Command{Type: "tick"}))

	types := map[string]bool{}
	for len(types) < 3 {
		types[readMessage(t, conn).Type] = true
	}
	assert.True(t, types["marker"])
	assert.True(t, types["traversed"])
	assert.True(t, types["panel"])
	assert.Equal(t, 1, c.State().Index)
}

func TestGetIp(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-FORWARDED-FOR", "10.0.0.1, 10.0.0.2")
	ip, err := getIp(r)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", ip)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.168.1.1:1234"
	ip, err = getIp(r)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.1", ip)
}

func TestPingAfterSlowClientDropped(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Stop()

	done := make(chan interface{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		// no WritePump: nothing drains the send buffer
		client := NewClient(conn, hub)
		hub.register <- client
		go func() {
			defer func() { done <- recover() }()
			client.ReadPump()
		}()
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		hub.ShowPanel(display.LoadingPanel())
		return hub.Clients() == 0
	}, 5*time.Second, time.Millisecond)

	require.NoError(t, conn.WriteJSON(model.Command{Type: "ping"}))
	time.Sleep(100 * time.Millisecond)
	conn.Close()

	select {
	case r := <-done:
		assert.Nil(t, r)
	case <-time.After(5 * time.Second):
		t.Fatal("ReadPump did not return")
	}
}

func TestWebsocketAfterHubStopped(t *testing.T) {
	c, err := playback.New(testRoute(), playback.WithScheduler(noScheduler{}))
	require.NoError(t, err)

	hub := NewHub(nil)
	go hub.Run()
	hub.Stop()

	srv := httptest.NewServer(InitServer(c, display.NewAdapter(c.Route()), hub))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/replay/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	start := time.Now()
	conn.SetReadDeadline(start.Add(5 * time.Second))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.Less(t, time.Since(start), 4*time.Second, "connection should be closed, not left hanging")
	assert.Equal(t, 0, hub.Clients())
}
