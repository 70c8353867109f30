package realtime

import (
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"go-restaurant-tracker/models"
)

// ackTimeout bounds how long to wait for the server's "connected"
// acknowledgement before declaring the channel dead.
const ackTimeout = 5 * time.Second

// Channel is an optional push-notification connection. It is a latency
// optimization over polling, never a requirement: every failure path
// degrades to nil and the caller's periodic poll carries the load. A closed
// channel is not restartable; reconnect explicitly if wanted.
type Channel struct {
	conn      *websocket.Conn
	events    chan models.ChangeNotification
	done      chan struct{}
	closeOnce sync.Once
}

// Connect dials the push endpoint with the query-parameter auth the backend
// expects. Any failure (bad URL, refused dial, missing ack) is logged and
// swallowed: the return value is nil and polling stays the only refresh
// trigger.
func Connect(wsURL, token, userID, userType string) *Channel {
	if wsURL == "" {
		return nil
	}
	u, err := url.Parse(wsURL)
	if err != nil {
		log.Printf("realtime: bad websocket url %q: %v", wsURL, err)
		return nil
	}
	q := u.Query()
	q.Set("token", token)
	q.Set("user_id", userID)
	q.Set("user_type", userType)
	u.RawQuery = q.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: ackTimeout}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		log.Printf("realtime: dial failed, staying on polling: %v", err)
		return nil
	}

	conn.SetReadDeadline(time.Now().Add(ackTimeout))
	var ack models.ChangeNotification
	if err := conn.ReadJSON(&ack); err != nil {
		log.Printf("realtime: no acknowledgement within %s, closing: %v", ackTimeout, err)
		conn.Close()
		return nil
	}
	log.Printf("realtime: connected (%s)", ack.Kind())

	ch := &Channel{
		conn:   conn,
		events: make(chan models.ChangeNotification, 8),
		done:   make(chan struct{}),
	}
	go ch.readLoop()
	return ch
}

// Events is the notification stream. It is closed when the connection dies;
// consumers must treat a closed stream as "poll only from now on", not
// reconnect in a loop.
func (ch *Channel) Events() <-chan models.ChangeNotification {
	return ch.events
}

func (ch *Channel) readLoop() {
	defer close(ch.events)
	ch.conn.SetReadDeadline(time.Time{})
	for {
		var note models.ChangeNotification
		if err := ch.conn.ReadJSON(&note); err != nil {
			select {
			case <-ch.done:
			default:
				log.Printf("realtime: connection lost: %v", err)
			}
			return
		}
		if note.Kind() == "" {
			// not a change notification, ignore
			continue
		}
		select {
		case ch.events <- note:
		default:
			// a pending event already forces a full re-fetch; bursts coalesce
		}
	}
}

// Close tears the connection down. Safe to call twice.
func (ch *Channel) Close() {
	ch.closeOnce.Do(func() {
		close(ch.done)
		ch.conn.Close()
	})
}
