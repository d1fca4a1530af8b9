package xmpp

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/route-replay/display"
	"github.com/a-bouts/route-replay/playback"
)

type sender interface {
	Send(message string) error
}

// FinishNotifier sends one message each time the replay reaches the last
// point. Sending happens off the caller's goroutine.
type FinishNotifier struct {
	sender   sender
	previous playback.Status
	sent     chan error
}

func NewFinishNotifier(x Xmpp) *FinishNotifier {
	return &FinishNotifier{sender: x}
}

// Message is the text sent for the finished state s.
func Message(s playback.State) string {
	return fmt.Sprintf("Route replay finished: %s, %s elapsed",
		display.FormatProgress(s.Index, s.Total),
		display.FormatTime(s.ElapsedSeconds))
}

// Observe is a playback.Observer.
func (n *FinishNotifier) Observe(s playback.State) {
	finished := s.Status == playback.Finished && n.previous != playback.Finished
	n.previous = s.Status
	if !finished {
		return
	}

	message := Message(s)
	go func() {
		err := n.sender.Send(message)
		if err != nil {
			log.WithError(err).Error("Error sending finish notification")
		}
		if n.sent != nil {
			n.sent <- err
		}
	}()
}
