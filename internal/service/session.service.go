package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/resona/server/internal/repository/connection"
	"github.com/resona/server/internal/repository/room"
)

// Connect registers a freshly upgraded connection and returns its member id.
// The connection is unbound until it creates or joins a room.
func (s service) Connect(ctx context.Context, conn *websocket.Conn) (string, error) {
	memberId := uuid.NewString()
	if err := s.connRepo.Add(conn, memberId); err != nil {
		return "", fmt.Errorf("failed to register connection: %w", err)
	}

	s.logger.DebugContext(ctx, "connection registered", "member_id", memberId)
	return memberId, nil
}

type CreateRoomParams struct {
	SenderId string
}

type CreateRoomResponse struct {
	RoomId       string
	Participants []string
	Conns        []*websocket.Conn
}

func (s service) CreateRoom(ctx context.Context, params *CreateRoomParams) (CreateRoomResponse, error) {
	roomId, err := s.roomRepo.CreateRoom(params.SenderId)
	if err != nil {
		if errors.Is(err, room.ErrMemberAlreadyInRoom) {
			return CreateRoomResponse{}, ErrAlreadyInRoom
		}

		return CreateRoomResponse{}, fmt.Errorf("failed to create room: %w", err)
	}

	s.logger.InfoContext(ctx, "room created", "room_id", roomId)

	memberIds, err := s.roomRepo.GetMemberIds(roomId)
	if err != nil {
		return CreateRoomResponse{}, fmt.Errorf("failed to get member ids: %w", err)
	}

	return CreateRoomResponse{
		RoomId:       roomId,
		Participants: participantNames(memberIds),
		Conns:        s.getConns(memberIds, ""),
	}, nil
}

type JoinRoomParams struct {
	SenderId string
	RoomId   string
}

type JoinRoomResponse struct {
	Participants []string
	Conns        []*websocket.Conn
	HostConn     *websocket.Conn
}

func (s service) JoinRoom(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	if err := s.roomRepo.AddMember(params.RoomId, params.SenderId); err != nil {
		switch {
		case errors.Is(err, room.ErrRoomNotFound):
			return JoinRoomResponse{}, ErrRoomNotFound
		case errors.Is(err, room.ErrMemberAlreadyInRoom):
			return JoinRoomResponse{}, ErrAlreadyInRoom
		}

		return JoinRoomResponse{}, fmt.Errorf("failed to join room: %w", err)
	}

	s.logger.InfoContext(ctx, "member joined room", "room_id", params.RoomId, "member_id", params.SenderId)

	memberIds, err := s.roomRepo.GetMemberIds(params.RoomId)
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to get member ids: %w", err)
	}

	hostConn, err := s.connRepo.GetConn(memberIds[0])
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to get host conn: %w", err)
	}

	return JoinRoomResponse{
		Participants: participantNames(memberIds),
		Conns:        s.getConns(memberIds, ""),
		HostConn:     hostConn,
	}, nil
}

type RelayParams struct {
	SenderId string
	HostOnly bool
}

type RelayResponse struct {
	RoomId string
	Conns  []*websocket.Conn
}

// Relay resolves the sender's room and returns the connections of every
// other member. The payload itself is never inspected here; the server
// forwards playback messages opaquely.
func (s service) Relay(ctx context.Context, params *RelayParams) (RelayResponse, error) {
	roomId, err := s.roomRepo.GetMemberRoomId(params.SenderId)
	if err != nil {
		return RelayResponse{}, ErrNotInRoom
	}

	memberIds, err := s.roomRepo.GetMemberIds(roomId)
	if err != nil {
		return RelayResponse{}, ErrRoomNotFound
	}

	if params.HostOnly && memberIds[0] != params.SenderId {
		return RelayResponse{}, ErrPermissionDenied
	}

	return RelayResponse{
		RoomId: roomId,
		Conns:  s.getConns(memberIds, params.SenderId),
	}, nil
}

type UpdateQueueParams struct {
	SenderId string
	Queue    []string
}

func (s service) UpdateQueue(ctx context.Context, params *UpdateQueueParams) (RelayResponse, error) {
	resp, err := s.Relay(ctx, &RelayParams{SenderId: params.SenderId, HostOnly: true})
	if err != nil {
		return RelayResponse{}, err
	}

	if err := s.roomRepo.SetQueue(resp.RoomId, params.Queue); err != nil {
		return RelayResponse{}, fmt.Errorf("failed to set queue: %w", err)
	}

	return resp, nil
}

type AddToQueueParams struct {
	SenderId string
	SongId   string
}

func (s service) AddToQueue(ctx context.Context, params *AddToQueueParams) (RelayResponse, error) {
	resp, err := s.Relay(ctx, &RelayParams{SenderId: params.SenderId})
	if err != nil {
		return RelayResponse{}, err
	}

	if err := s.roomRepo.AppendToQueue(resp.RoomId, params.SongId); err != nil {
		return RelayResponse{}, fmt.Errorf("failed to append to queue: %w", err)
	}

	return resp, nil
}

type DisconnectResponse struct {
	RoomId        string
	WasInRoom     bool
	IsRoomDeleted bool
	Participants  []string
	Conns         []*websocket.Conn
}

// Disconnect unregisters the connection and removes the member from its
// room, deleting the room when it becomes empty. Idempotent: disconnecting
// an unknown or already removed member is a no-op.
func (s service) Disconnect(ctx context.Context, memberId string) (DisconnectResponse, error) {
	if err := s.connRepo.RemoveByMemberId(memberId); err != nil && !errors.Is(err, connection.ErrNotFound) {
		return DisconnectResponse{}, fmt.Errorf("failed to remove connection: %w", err)
	}

	roomId, isRoomDeleted, err := s.roomRepo.RemoveMember(memberId)
	if err != nil {
		if errors.Is(err, room.ErrMemberNotFound) {
			return DisconnectResponse{}, nil
		}

		return DisconnectResponse{}, fmt.Errorf("failed to remove member: %w", err)
	}

	resp := DisconnectResponse{
		RoomId:        roomId,
		WasInRoom:     true,
		IsRoomDeleted: isRoomDeleted,
	}

	if isRoomDeleted {
		s.logger.InfoContext(ctx, "room deleted", "room_id", roomId)
		return resp, nil
	}

	memberIds, err := s.roomRepo.GetMemberIds(roomId)
	if err != nil {
		return DisconnectResponse{}, fmt.Errorf("failed to get member ids: %w", err)
	}

	resp.Participants = participantNames(memberIds)
	resp.Conns = s.getConns(memberIds, "")

	return resp, nil
}

// participantNames derives display roles from list position: position 0 is
// the host, everyone else a numbered guest.
func participantNames(memberIds []string) []string {
	names := make([]string, len(memberIds))
	for i := range memberIds {
		if i == 0 {
			names[i] = "Host"
		} else {
			names[i] = fmt.Sprintf("Guest %d", i+1)
		}
	}

	return names
}

// getConns resolves member ids to live connections, excluding excludeId.
// Members whose connection is already gone are skipped; the close handler
// owns their cleanup.
func (s service) getConns(memberIds []string, excludeId string) []*websocket.Conn {
	conns := make([]*websocket.Conn, 0, len(memberIds))
	for _, memberId := range memberIds {
		if memberId == excludeId {
			continue
		}

		conn, err := s.connRepo.GetConn(memberId)
		if err != nil {
			continue
		}

		conns = append(conns, conn)
	}

	return conns
}
