package controller

import (
	"context"
	"errors"

	"github.com/gorilla/websocket"
	"github.com/resona/server/internal/service"
	"github.com/resona/server/pkg/wsrouter"
)

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()
	mux.Use(c.wsRequestIdWSMw(), c.loggerWSMw())
	mux.SetErrorHandler(c.wsErrorHandler)

	// room
	wsrouter.Handle(mux, "CREATE_ROOM", c.handleCreateRoom)
	wsrouter.Handle(mux, "JOIN_ROOM", c.handleJoinRoom)

	// player
	wsrouter.Handle(mux, "PLAY", c.handlePlay)
	wsrouter.Handle(mux, "PAUSE", c.handlePause)
	wsrouter.Handle(mux, "SEEK", c.handleSeek)
	wsrouter.Handle(mux, "CHANGE_SONG", c.handleChangeSong)
	wsrouter.Handle(mux, "SYNC_STATE", c.handleSyncState)

	// queue
	wsrouter.Handle(mux, "QUEUE_UPDATE", c.handleQueueUpdate)
	wsrouter.Handle(mux, "ADD_TO_QUEUE", c.handleAddToQueue)

	return mux
}

// wsErrorHandler answers a failed message with an ERROR reply and keeps
// the connection open; one bad message must not take down the room.
func (c controller) wsErrorHandler(ctx context.Context, conn *websocket.Conn, err error) {
	c.logger.DebugContext(ctx, "websocket message failed",
		"message_type", wsrouter.GetMessageTypeFromCtx(ctx),
		"error", err,
	)

	message := "internal error"
	for _, known := range []error{
		service.ErrRoomNotFound,
		service.ErrNotInRoom,
		service.ErrAlreadyInRoom,
		service.ErrPermissionDenied,
		wsrouter.ErrUnknownMessageType,
		wsrouter.ErrInvalidPayload,
	} {
		if errors.Is(err, known) {
			message = known.Error()
			break
		}
	}

	c.writeToConn(ctx, conn, &Output{
		Type: "ERROR",
		Payload: map[string]any{
			"message": message,
		},
	})
}
