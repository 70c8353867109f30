package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestConnectDeliversNotifications(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"token":     r.URL.Query().Get("token"),
			"user_id":   r.URL.Query().Get("user_id"),
			"user_type": r.URL.Query().Get("user_type"),
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		require.NoError(t, conn.WriteJSON(map[string]string{"type": "connected"}))
		require.NoError(t, conn.WriteJSON(map[string]string{"type": "order_update", "order_id": "ORD001"}))
		// malformed-for-us messages are skipped, not fatal
		require.NoError(t, conn.WriteJSON(map[string]int{"seq": 7}))
		require.NoError(t, conn.WriteJSON(map[string]string{"action": "workflow_update"}))
		time.Sleep(100 * time.Millisecond)
	}))
	defer srv.Close()

	ch := Connect(wsURL(srv), "tok-1", "u-driver-1", "repartidor")
	require.NotNil(t, ch)
	defer ch.Close()

	assert.Equal(t, "tok-1", gotQuery["token"])
	assert.Equal(t, "u-driver-1", gotQuery["user_id"])
	assert.Equal(t, "repartidor", gotQuery["user_type"])

	select {
	case note := <-ch.Events():
		assert.Equal(t, "order_update", note.Kind())
	case <-time.After(2 * time.Second):
		t.Fatal("expected a notification")
	}
	select {
	case note := <-ch.Events():
		assert.Equal(t, "workflow_update", note.Kind())
	case <-time.After(2 * time.Second):
		t.Fatal("expected the action-keyed notification")
	}
}

func TestConnectFailuresDegradeToNil(t *testing.T) {
	// nothing listening
	assert.Nil(t, Connect("ws://127.0.0.1:1/ws", "t", "u", "chef"))
	// no URL configured at all
	assert.Nil(t, Connect("", "t", "u", "chef"))
}

func TestConnectRequiresAck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		// never send the connected ack; just hold the connection open
		time.Sleep(6 * time.Second)
		conn.Close()
	}))
	defer srv.Close()

	start := time.Now()
	ch := Connect(wsURL(srv), "t", "u", "chef")
	assert.Nil(t, ch, "a silent server is a failed connection")
	assert.Less(t, time.Since(start), 6*time.Second, "ack wait is bounded")
}

func TestChannelEventsCloseOnDisconnect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		require.NoError(t, conn.WriteJSON(map[string]string{"type": "connected"}))
		conn.Close() // server drops us right after the ack
	}))
	defer srv.Close()

	ch := Connect(wsURL(srv), "t", "u", "chef")
	require.NotNil(t, ch)
	defer ch.Close()

	select {
	case _, ok := <-ch.Events():
		assert.False(t, ok, "stream must close when the connection dies")
	case <-time.After(2 * time.Second):
		t.Fatal("expected the event stream to close")
	}
}

func TestChannelCloseIsIdempotent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		require.NoError(t, conn.WriteJSON(map[string]string{"type": "connected"}))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	ch := Connect(wsURL(srv), "t", "u", "chef")
	require.NotNil(t, ch)
	ch.Close()
	ch.Close()
}
