package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	connInmemory "github.com/resona/server/internal/repository/connection/inmemory"
	roomInmemory "github.com/resona/server/internal/repository/room/inmemory"
	userRedis "github.com/resona/server/internal/repository/user/redis"
	"github.com/resona/server/pkg/randstr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(t *testing.T) *service {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)
	rc := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})

	roomRepo := roomInmemory.NewRepo(randstr.New([]byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")))
	connRepo := connInmemory.NewRepo()
	userRepo := userRedis.NewRepo(rc)

	return NewService(roomRepo, connRepo, userRepo, "test-secret", slog.Default())
}

func TestSession(t *testing.T) {
	slog.SetLogLoggerLevel(slog.LevelDebug)
	svc := testService(t)
	ctx := context.Background()

	// host connects and creates a room
	hostId, err := svc.Connect(ctx, &websocket.Conn{})
	require.NoError(t, err)
	require.NotEmpty(t, hostId)

	createRoomResp, err := svc.CreateRoom(ctx, &CreateRoomParams{SenderId: hostId})
	require.NoError(t, err)
	assert.Len(t, createRoomResp.RoomId, 6, "room id must be 6 chars")
	assert.Equal(t, []string{"Host"}, createRoomResp.Participants)
	assert.Len(t, createRoomResp.Conns, 1)
	t.Log("room created")

	// guest connects and joins
	guestId, err := svc.Connect(ctx, &websocket.Conn{})
	require.NoError(t, err)

	joinRoomResp, err := svc.JoinRoom(ctx, &JoinRoomParams{SenderId: guestId, RoomId: createRoomResp.RoomId})
	require.NoError(t, err)
	assert.Equal(t, []string{"Host", "Guest 2"}, joinRoomResp.Participants)
	assert.Len(t, joinRoomResp.Conns, 2, "user list update goes to every member")
	assert.NotNil(t, joinRoomResp.HostConn)
	t.Log("guest joined")

	// playback relay excludes the sender
	relayResp, err := svc.Relay(ctx, &RelayParams{SenderId: hostId, HostOnly: true})
	require.NoError(t, err)
	assert.Equal(t, createRoomResp.RoomId, relayResp.RoomId)
	assert.Len(t, relayResp.Conns, 1, "relay must exclude the sender")

	// guests cannot drive host-only playback
	_, err = svc.Relay(ctx, &RelayParams{SenderId: guestId, HostOnly: true})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// guest disconnects, host is notified
	disconnectResp, err := svc.Disconnect(ctx, guestId)
	require.NoError(t, err)
	assert.True(t, disconnectResp.WasInRoom)
	assert.False(t, disconnectResp.IsRoomDeleted)
	assert.Equal(t, []string{"Host"}, disconnectResp.Participants)
	t.Log("guest disconnected")

	// disconnecting again is a no-op
	disconnectResp, err = svc.Disconnect(ctx, guestId)
	require.NoError(t, err)
	assert.False(t, disconnectResp.WasInRoom)

	// last member leaving deletes the room
	disconnectResp, err = svc.Disconnect(ctx, hostId)
	require.NoError(t, err)
	assert.True(t, disconnectResp.IsRoomDeleted)
}

func TestJoinErrors(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	memberId, err := svc.Connect(ctx, &websocket.Conn{})
	require.NoError(t, err)

	_, err = svc.JoinRoom(ctx, &JoinRoomParams{SenderId: memberId, RoomId: "ZZZZZZ"})
	assert.ErrorIs(t, err, ErrRoomNotFound)

	createRoomResp, err := svc.CreateRoom(ctx, &CreateRoomParams{SenderId: memberId})
	require.NoError(t, err)

	_, err = svc.CreateRoom(ctx, &CreateRoomParams{SenderId: memberId})
	assert.ErrorIs(t, err, ErrAlreadyInRoom)

	_, err = svc.JoinRoom(ctx, &JoinRoomParams{SenderId: memberId, RoomId: createRoomResp.RoomId})
	assert.ErrorIs(t, err, ErrAlreadyInRoom)
}

func TestQueueOwnership(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	hostId, err := svc.Connect(ctx, &websocket.Conn{})
	require.NoError(t, err)
	createRoomResp, err := svc.CreateRoom(ctx, &CreateRoomParams{SenderId: hostId})
	require.NoError(t, err)

	guestId, err := svc.Connect(ctx, &websocket.Conn{})
	require.NoError(t, err)
	_, err = svc.JoinRoom(ctx, &JoinRoomParams{SenderId: guestId, RoomId: createRoomResp.RoomId})
	require.NoError(t, err)

	// only the host replaces the queue
	_, err = svc.UpdateQueue(ctx, &UpdateQueueParams{SenderId: guestId, Queue: []string{"song-1"}})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.UpdateQueue(ctx, &UpdateQueueParams{SenderId: hostId, Queue: []string{"song-1", "song-2"}})
	require.NoError(t, err)

	// any member can request an append
	_, err = svc.AddToQueue(ctx, &AddToQueueParams{SenderId: guestId, SongId: "song-3"})
	require.NoError(t, err)

	// relaying without a room is rejected
	strayId, err := svc.Connect(ctx, &websocket.Conn{})
	require.NoError(t, err)
	_, err = svc.Relay(ctx, &RelayParams{SenderId: strayId})
	assert.ErrorIs(t, err, ErrNotInRoom)
}

func TestAuth(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	registerResp, err := svc.RegisterUser(ctx, &RegisterUserParams{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, registerResp.Token)
	assert.NotEmpty(t, registerResp.User.UserId)
	assert.Equal(t, "alice", registerResp.User.Username)

	_, err = svc.RegisterUser(ctx, &RegisterUserParams{Username: "alice", Password: "other"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	loginResp, err := svc.LoginUser(ctx, &LoginUserParams{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, registerResp.User.UserId, loginResp.User.UserId)

	_, err = svc.LoginUser(ctx, &LoginUserParams{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.LoginUser(ctx, &LoginUserParams{Username: "nobody", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	claims, err := svc.ParseToken(loginResp.Token)
	require.NoError(t, err)
	assert.Equal(t, registerResp.User.UserId, claims.UserId)
}

func TestUserData(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	registerResp, err := svc.RegisterUser(ctx, &RegisterUserParams{Username: "bob", Password: "password123"})
	require.NoError(t, err)
	userId := registerResp.User.UserId

	allData, err := svc.GetAllData(ctx, userId)
	require.NoError(t, err)
	assert.Empty(t, allData.LikedSongs)
	assert.Empty(t, allData.UserPlaylists)

	require.NoError(t, svc.SetLike(ctx, &SetLikeParams{UserId: userId, SongId: "song-1", Like: true}))
	require.NoError(t, svc.SetLike(ctx, &SetLikeParams{UserId: userId, SongId: "song-2", Like: true}))
	require.NoError(t, svc.SetLike(ctx, &SetLikeParams{UserId: userId, SongId: "song-1", Like: false}))

	require.NoError(t, svc.CreatePlaylist(ctx, &CreatePlaylistParams{UserId: userId, Name: "road trip"}))
	require.NoError(t, svc.AddPlaylistSong(ctx, &AddPlaylistSongParams{UserId: userId, PlaylistName: "road trip", SongId: "song-3"}))

	allData, err = svc.GetAllData(ctx, userId)
	require.NoError(t, err)
	assert.Equal(t, []string{"song-2"}, allData.LikedSongs)
	assert.Equal(t, map[string][]string{"road trip": {"song-3"}}, allData.UserPlaylists)
}
