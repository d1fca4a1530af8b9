package xmpp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/a-bouts/route-replay/playback"
)

type recordingSender struct {
	messages chan string
}

func (s recordingSender) Send(message string) error {
	s.messages <- message
	return nil
}

func TestServerName(t *testing.T) {
	assert.Equal(t, "example.org", serverName("bus@example.org"))
	assert.Equal(t, "", serverName("bus"))
}

func TestSendWithoutConfig(t *testing.T) {
	x := Xmpp{Config: Config{Jid: "bus@example.org"}}
	assert.False(t, x.Enabled())
	assert.ErrorIs(t, x.Send("hello"), ErrMissingConfig)
}

func TestMessage(t *testing.T) {
	m := Message(playback.State{Index: 41, Total: 42, ElapsedSeconds: 750, Status: playback.Finished})
	assert.Equal(t, "Route replay finished: 42 / 42 points, 12:30 elapsed", m)
}

func TestFinishNotifierSendsOncePerFinish(t *testing.T) {
	s := recordingSender{messages: make(chan string, 4)}
	n := &FinishNotifier{sender: s, sent: make(chan error, 4)}

	n.Observe(playback.State{Index: 1, Total: 3, Status: playback.Playing})
	n.Observe(playback.State{Index: 2, Total: 3, Status: playback.Finished})
	n.Observe(playback.State{Index: 2, Total: 3, Status: playback.Finished})

	select {
	case m := <-s.messages:
		assert.Contains(t, m, "3 / 3 points")
	case <-time.After(time.Second):
		t.Fatal("no notification sent")
	}
	<-n.sent

	select {
	case m := <-s.messages:
		t.Errorf("unexpected second notification %q", m)
	case <-time.After(50 * time.Millisecond):
	}

	n.Observe(playback.State{Index: 0, Total: 3, Status: playback.Stopped})
	n.Observe(playback.State{Index: 2, Total: 3, Status: playback.Finished})
	select {
	case <-s.messages:
	case <-time.After(time.Second):
		t.Fatal("no notification after reset and finish")
	}
}
