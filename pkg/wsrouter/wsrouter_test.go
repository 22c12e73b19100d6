package wsrouter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoPayload struct {
	Text string `json:"text"`
}

func dialTestRouter(t *testing.T, r *WSRouter) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(w, req, nil)
		require.NoError(t, err)
		r.ServeConn(req.Context(), conn)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func TestServeConn(t *testing.T) {
	r := New()

	order := make(chan string, 2)
	r.Use(func(next HandlerFunc[any]) HandlerFunc[any] {
		return func(ctx context.Context, conn *websocket.Conn, payload any) error {
			order <- "mw:" + GetMessageTypeFromCtx(ctx)
			return next(ctx, conn, payload)
		}
	})

	Handle(r, "ECHO", func(ctx context.Context, conn *websocket.Conn, payload echoPayload) error {
		order <- "handler"
		return conn.WriteJSON(map[string]string{"echo": payload.Text})
	})

	conn := dialTestRouter(t, r)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":    "ECHO",
		"payload": map[string]string{"text": "hello"},
	}))

	var reply map[string]string
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "hello", reply["echo"])
	assert.Equal(t, "mw:ECHO", <-order, "middleware must run before the handler")
	assert.Equal(t, "handler", <-order)
}

func TestServeConnSurvivesBadMessages(t *testing.T) {
	r := New()

	r.SetErrorHandler(func(ctx context.Context, conn *websocket.Conn, err error) {
		conn.WriteJSON(map[string]string{"error": err.Error()})
	})
	Handle(r, "PING", func(ctx context.Context, conn *websocket.Conn, payload struct{}) error {
		return conn.WriteJSON(map[string]string{"type": "PONG"})
	})

	conn := dialTestRouter(t, r)

	// unknown type goes to the error handler, connection stays up
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "NOPE"}))

	var errReply map[string]string
	require.NoError(t, conn.ReadJSON(&errReply))
	assert.Contains(t, errReply["error"], "unknown message type")

	// malformed payload does not kill the loop either
	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":    "PING",
		"payload": "not-an-object",
	}))
	require.NoError(t, conn.ReadJSON(&errReply))
	assert.Contains(t, errReply["error"], "invalid payload")

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "PING"}))

	var reply map[string]string
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "PONG", reply["type"])
}
