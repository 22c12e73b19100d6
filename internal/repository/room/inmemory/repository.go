// Package inmemory implements the room registry. Rooms are process-local
// by design: membership is tied to live websocket connections, so a server
// restart drops every room and clients detect it via connection loss.
package inmemory

import (
	"slices"
	"sync"

	"github.com/resona/server/internal/repository/room"
)

const roomIdLength = 6

type iGenerator interface {
	GenerateRandomString(length int) string
}

type roomState struct {
	// memberIds keeps join order. Position 0 is the host; this ordering is
	// the single source of truth for roles and must be preserved by every
	// mutation.
	memberIds []string
	queue     []string
}

type repo struct {
	rooms       map[string]*roomState
	memberRooms map[string]string
	generator   iGenerator
	mu          sync.RWMutex
}

func NewRepo(generator iGenerator) *repo {
	return &repo{
		rooms:       make(map[string]*roomState),
		memberRooms: make(map[string]string),
		generator:   generator,
	}
}

// CreateRoom generates a fresh room id, registers a room containing only
// the given member and returns the id. Generation retries on collision, so
// ids are unique among live rooms.
func (r *repo) CreateRoom(memberId string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.memberRooms[memberId]; ok {
		return "", room.ErrMemberAlreadyInRoom
	}

	roomId := r.generator.GenerateRandomString(roomIdLength)
	for _, ok := r.rooms[roomId]; ok; _, ok = r.rooms[roomId] {
		roomId = r.generator.GenerateRandomString(roomIdLength)
	}

	r.rooms[roomId] = &roomState{memberIds: []string{memberId}}
	r.memberRooms[memberId] = roomId

	return roomId, nil
}

// AddMember appends the member to the room's member list.
func (r *repo) AddMember(roomId, memberId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[roomId]
	if !ok {
		return room.ErrRoomNotFound
	}

	if _, ok := r.memberRooms[memberId]; ok {
		return room.ErrMemberAlreadyInRoom
	}

	state.memberIds = append(state.memberIds, memberId)
	r.memberRooms[memberId] = roomId

	return nil
}

// RemoveMember removes the member from whatever room it belongs to and
// deletes the room when it becomes empty. Reports the room id and whether
// the room was deleted.
func (r *repo) RemoveMember(memberId string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomId, ok := r.memberRooms[memberId]
	if !ok {
		return "", false, room.ErrMemberNotFound
	}

	delete(r.memberRooms, memberId)

	state := r.rooms[roomId]
	state.memberIds = slices.DeleteFunc(state.memberIds, func(id string) bool {
		return id == memberId
	})

	if len(state.memberIds) == 0 {
		delete(r.rooms, roomId)
		return roomId, true, nil
	}

	return roomId, false, nil
}

// GetMemberIds returns the room's member ids in join order.
func (r *repo) GetMemberIds(roomId string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.rooms[roomId]
	if !ok {
		return nil, room.ErrRoomNotFound
	}

	return slices.Clone(state.memberIds), nil
}

// GetMemberRoomId returns the id of the room the member belongs to.
func (r *repo) GetMemberRoomId(memberId string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roomId, ok := r.memberRooms[memberId]
	if !ok {
		return "", room.ErrMemberNotFound
	}

	return roomId, nil
}

func (r *repo) GetQueue(roomId string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.rooms[roomId]
	if !ok {
		return nil, room.ErrRoomNotFound
	}

	return slices.Clone(state.queue), nil
}

func (r *repo) SetQueue(roomId string, queue []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[roomId]
	if !ok {
		return room.ErrRoomNotFound
	}

	state.queue = slices.Clone(queue)

	return nil
}

func (r *repo) AppendToQueue(roomId, songId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[roomId]
	if !ok {
		return room.ErrRoomNotFound
	}

	state.queue = append(state.queue, songId)

	return nil
}
