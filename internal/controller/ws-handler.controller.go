package controller

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/resona/server/internal/service"
	"github.com/resona/server/pkg/wsrouter"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type EmptyInput struct{}

func (c controller) handleCreateRoom(ctx context.Context, conn *websocket.Conn, _ EmptyInput) error {
	memberId := c.getMemberIdFromCtx(ctx)

	createRoomResp, err := c.service.CreateRoom(ctx, &service.CreateRoomParams{
		SenderId: memberId,
	})
	if err != nil {
		return err
	}

	if err := c.writeToConn(ctx, conn, &Output{
		Type: "ROOM_CREATED",
		Payload: map[string]any{
			"roomId": createRoomResp.RoomId,
		},
	}); err != nil {
		return fmt.Errorf("failed to write room created: %w", err)
	}

	if err := c.broadcast(ctx, createRoomResp.Conns, &Output{
		Type: "USER_LIST_UPDATE",
		Payload: map[string]any{
			"participants": createRoomResp.Participants,
		},
	}); err != nil {
		return fmt.Errorf("failed to broadcast user list update: %w", err)
	}

	return nil
}

type JoinRoomInput struct {
	RoomId string `json:"roomId"`
}

func (c controller) handleJoinRoom(ctx context.Context, conn *websocket.Conn, input JoinRoomInput) error {
	memberId := c.getMemberIdFromCtx(ctx)

	joinRoomResp, err := c.service.JoinRoom(ctx, &service.JoinRoomParams{
		SenderId: memberId,
		RoomId:   input.RoomId,
	})
	if err != nil {
		return err
	}

	if err := c.broadcast(ctx, joinRoomResp.Conns, &Output{
		Type: "USER_LIST_UPDATE",
		Payload: map[string]any{
			"participants": joinRoomResp.Participants,
		},
	}); err != nil {
		return fmt.Errorf("failed to broadcast user list update: %w", err)
	}

	// the host answers with a SYNC_STATE snapshot for the new member
	if err := c.writeToConn(ctx, joinRoomResp.HostConn, &Output{
		Type: "GET_STATE_FOR_NEW_USER",
		Payload: map[string]any{
			"newUserId": memberId,
		},
	}); err != nil {
		return fmt.Errorf("failed to write get state for new user: %w", err)
	}

	return nil
}

type PlayInput struct {
	RoomId string `json:"roomId"`
}

func (c controller) handlePlay(ctx context.Context, conn *websocket.Conn, input PlayInput) error {
	return c.relay(ctx, input, true)
}

type PauseInput struct {
	RoomId string `json:"roomId"`
}

func (c controller) handlePause(ctx context.Context, conn *websocket.Conn, input PauseInput) error {
	return c.relay(ctx, input, true)
}

type SeekInput struct {
	RoomId      string  `json:"roomId"`
	CurrentTime float64 `json:"currentTime"`
}

func (c controller) handleSeek(ctx context.Context, conn *websocket.Conn, input SeekInput) error {
	return c.relay(ctx, input, true)
}

type ChangeSongInput struct {
	RoomId string `json:"roomId"`
	SongId string `json:"songId"`
}

func (c controller) handleChangeSong(ctx context.Context, conn *websocket.Conn, input ChangeSongInput) error {
	return c.relay(ctx, input, true)
}

type SyncStateInput struct {
	RoomId       string   `json:"roomId"`
	SongId       string   `json:"songId"`
	CurrentTime  float64  `json:"currentTime"`
	IsPlaying    bool     `json:"isPlaying"`
	Queue        []string `json:"queue"`
	TargetUserId string   `json:"targetUserId"`
}

func (c controller) handleSyncState(ctx context.Context, conn *websocket.Conn, input SyncStateInput) error {
	return c.relay(ctx, input, true)
}

// relay forwards the message verbatim to every other room member. The
// payload is not interpreted beyond decoding; hostOnly messages are
// rejected when the sender is not at position 0.
func (c controller) relay(ctx context.Context, input any, hostOnly bool) error {
	memberId := c.getMemberIdFromCtx(ctx)

	relayResp, err := c.service.Relay(ctx, &service.RelayParams{
		SenderId: memberId,
		HostOnly: hostOnly,
	})
	if err != nil {
		return err
	}

	return c.relayToConns(ctx, relayResp.Conns, input)
}

func (c controller) relayToConns(ctx context.Context, conns []*websocket.Conn, input any) error {
	if err := c.broadcast(ctx, conns, &Output{
		Type:    wsrouter.GetMessageTypeFromCtx(ctx),
		Payload: input,
	}); err != nil {
		return fmt.Errorf("failed to broadcast: %w", err)
	}

	return nil
}

type QueueUpdateInput struct {
	RoomId string   `json:"roomId"`
	Queue  []string `json:"queue"`
}

func (c controller) handleQueueUpdate(ctx context.Context, conn *websocket.Conn, input QueueUpdateInput) error {
	memberId := c.getMemberIdFromCtx(ctx)

	relayResp, err := c.service.UpdateQueue(ctx, &service.UpdateQueueParams{
		SenderId: memberId,
		Queue:    input.Queue,
	})
	if err != nil {
		return err
	}

	return c.relayToConns(ctx, relayResp.Conns, input)
}

type AddToQueueInput struct {
	RoomId string `json:"roomId"`
	SongId string `json:"songId"`
}

func (c controller) handleAddToQueue(ctx context.Context, conn *websocket.Conn, input AddToQueueInput) error {
	memberId := c.getMemberIdFromCtx(ctx)

	relayResp, err := c.service.AddToQueue(ctx, &service.AddToQueueParams{
		SenderId: memberId,
		SongId:   input.SongId,
	})
	if err != nil {
		return err
	}

	return c.relayToConns(ctx, relayResp.Conns, input)
}
