package inmemory

import (
	"testing"

	"github.com/resona/server/internal/repository/room"
	"github.com/resona/server/pkg/randstr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepo() *repo {
	return NewRepo(randstr.New([]byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")))
}

func TestCreateRoom(t *testing.T) {
	r := testRepo()

	roomId, err := r.CreateRoom("member-1")
	require.NoError(t, err)
	assert.Len(t, roomId, 6, "room id must be 6 chars")

	memberIds, err := r.GetMemberIds(roomId)
	require.NoError(t, err)
	assert.Equal(t, []string{"member-1"}, memberIds)

	gotRoomId, err := r.GetMemberRoomId("member-1")
	require.NoError(t, err)
	assert.Equal(t, roomId, gotRoomId)

	// a member cannot create a second room while bound to one
	_, err = r.CreateRoom("member-1")
	assert.ErrorIs(t, err, room.ErrMemberAlreadyInRoom)

	roomId2, err := r.CreateRoom("member-2")
	require.NoError(t, err)
	assert.NotEqual(t, roomId, roomId2, "room ids must be unique")
}

func TestAddMemberKeepsJoinOrder(t *testing.T) {
	r := testRepo()

	roomId, err := r.CreateRoom("host")
	require.NoError(t, err)

	require.NoError(t, r.AddMember(roomId, "guest-1"))
	require.NoError(t, r.AddMember(roomId, "guest-2"))

	memberIds, err := r.GetMemberIds(roomId)
	require.NoError(t, err)
	assert.Equal(t, []string{"host", "guest-1", "guest-2"}, memberIds)

	err = r.AddMember(roomId, "guest-1")
	assert.ErrorIs(t, err, room.ErrMemberAlreadyInRoom)

	err = r.AddMember("ZZZZZZ", "guest-3")
	assert.ErrorIs(t, err, room.ErrRoomNotFound)
}

func TestRemoveMember(t *testing.T) {
	r := testRepo()

	roomId, err := r.CreateRoom("host")
	require.NoError(t, err)
	require.NoError(t, r.AddMember(roomId, "guest-1"))

	gotRoomId, isRoomDeleted, err := r.RemoveMember("guest-1")
	require.NoError(t, err)
	assert.Equal(t, roomId, gotRoomId)
	assert.False(t, isRoomDeleted, "room must survive while members remain")

	_, _, err = r.RemoveMember("guest-1")
	assert.ErrorIs(t, err, room.ErrMemberNotFound)

	gotRoomId, isRoomDeleted, err = r.RemoveMember("host")
	require.NoError(t, err)
	assert.Equal(t, roomId, gotRoomId)
	assert.True(t, isRoomDeleted, "room must be deleted when the last member leaves")

	_, err = r.GetMemberIds(roomId)
	assert.ErrorIs(t, err, room.ErrRoomNotFound)
}

func TestQueue(t *testing.T) {
	r := testRepo()

	roomId, err := r.CreateRoom("host")
	require.NoError(t, err)

	queue, err := r.GetQueue(roomId)
	require.NoError(t, err)
	assert.Empty(t, queue)

	require.NoError(t, r.AppendToQueue(roomId, "song-1"))
	require.NoError(t, r.SetQueue(roomId, []string{"song-2", "song-3"}))
	require.NoError(t, r.AppendToQueue(roomId, "song-4"))

	queue, err = r.GetQueue(roomId)
	require.NoError(t, err)
	assert.Equal(t, []string{"song-2", "song-3", "song-4"}, queue)

	err = r.SetQueue("ZZZZZZ", []string{"song-1"})
	assert.ErrorIs(t, err, room.ErrRoomNotFound)
}
