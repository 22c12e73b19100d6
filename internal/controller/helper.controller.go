package controller

import (
	"context"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
)

func (c controller) generateTimeBasedId() string {
	return strconv.FormatInt(time.Now().UnixNano(), 36)
}

func (c controller) writeToConn(ctx context.Context, conn *websocket.Conn, out *Output) error {
	if err := conn.WriteJSON(out); err != nil {
		c.logger.DebugContext(ctx, "failed to write to conn", "error", err)
		return err
	}

	return nil
}

// broadcast fans out to every given connection. A connection that fails to
// accept the write is skipped; its close handler owns the cleanup.
func (c controller) broadcast(ctx context.Context, conns []*websocket.Conn, out *Output) error {
	for _, conn := range conns {
		c.writeToConn(ctx, conn, out)
	}

	return nil
}
