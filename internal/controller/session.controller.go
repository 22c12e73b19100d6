package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/resona/server/pkg/ctxlogger"
)

// session upgrades the request and serves the listen-together protocol.
// The connection starts unbound; it binds to a room via CREATE_ROOM or
// JOIN_ROOM messages and is cleaned up on close.
func (c controller) session(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}

	memberId, err := c.service.Connect(r.Context(), conn)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to register connection", "error", err)
		conn.Close()
		return
	}

	ctx := context.WithValue(r.Context(), memberIdCtxKey, memberId)
	ctx = ctxlogger.AppendCtx(ctx, slog.String("member_id", memberId))

	defer c.disconnect(ctx, memberId)

	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.InfoContext(ctx, "connection closed", "error", err)
	}
}

func (c controller) disconnect(ctx context.Context, memberId string) {
	disconnectResp, err := c.service.Disconnect(ctx, memberId)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to disconnect member", "error", err)
		return
	}

	if disconnectResp.WasInRoom && !disconnectResp.IsRoomDeleted {
		c.broadcast(ctx, disconnectResp.Conns, &Output{
			Type: "USER_LIST_UPDATE",
			Payload: map[string]any{
				"participants": disconnectResp.Participants,
			},
		})
	}
}
